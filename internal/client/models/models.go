// Package models defines the client-side view of the API payloads.
package models

import "time"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Item struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId,omitempty"`
	Priority  int       `json:"priority"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
