package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword()
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if err := a.client.Register(ctx, userName, password); err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.userName = userName
	fmt.Println("Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name")
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := GetPassword()
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if err := a.client.Login(ctx, userName, password); err != nil {
		fmt.Println(err.Error())
		return err
	}

	a.userName = userName
	fmt.Println("Success!")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	a.userName = ""
	fmt.Println("Logged out")
	return nil
}
