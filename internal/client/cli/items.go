package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

func priorityLabel(p int) string {
	switch p {
	case 1:
		return "high"
	case 2:
		return "medium"
	case 3:
		return "low"
	default:
		return strconv.Itoa(p)
	}
}

func (a *App) List(ctx context.Context) error {

	items, err := a.client.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if len(items) == 0 {
		fmt.Println("No items")
		return nil
	}

	for i, item := range items {
		fmt.Printf("%d. [%s] %s (%s)\n", i+1, priorityLabel(item.Priority), item.Text, item.ID)
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {

	text, err := GetSimpleText(a.reader, "Enter item text")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	priorityText, err := GetSimpleText(a.reader, "Enter priority (1=high, 2=medium, 3=low)")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	priority, err := strconv.Atoi(priorityText)
	if err != nil || priority < 1 || priority > 3 {
		fmt.Println("priority must be 1, 2 or 3")
		return fmt.Errorf("invalid priority %q", priorityText)
	}

	items, err := a.client.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	items = append(items, models.Item{ID: uuid.NewString(), Priority: priority, Text: text})

	if _, err := a.client.Save(ctx, items); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Added")
	return nil
}

// Remove deletes a single item by its list number and saves the full
// remaining set back, which is how the server replaces lists.
func (a *App) Remove(ctx context.Context) error {

	items, err := a.client.List(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items")
		return nil
	}

	numText, err := GetSimpleText(a.reader, fmt.Sprintf("Enter item number (1-%d)", len(items)))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	num, err := strconv.Atoi(numText)
	if err != nil || num < 1 || num > len(items) {
		fmt.Println("no such item")
		return fmt.Errorf("invalid item number %q", numText)
	}

	remaining := append(items[:num-1], items[num:]...)
	if _, err := a.client.Save(ctx, remaining); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Removed")
	return nil
}

func (a *App) Export(ctx context.Context) error {

	url, err := a.client.Export(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Download link:", url)
	return nil
}
