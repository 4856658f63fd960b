package model

import (
	"time"
)

type Resource struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Link         string    `json:"link"`
	Content      string    `json:"content"`
	ResourceType string    `json:"resource_type"`
	UserID       int64     `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
