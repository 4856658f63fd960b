package model

import (
	"time"
)

type ForumPost struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Content   string       `json:"content"`
	UserID    int64        `json:"user_id"`
	Views     int          `json:"views"`
	Tags      []string     `json:"tags"`
	Replies   []ForumReply `json:"replies,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ForumReply struct {
	ID           int64     `json:"id"`
	PostID       int64     `json:"post_id"`
	UserID       int64     `json:"user_id"`
	Content      string    `json:"content"`
	Upvotes      int       `json:"upvotes"`
	IsBestAnswer bool      `json:"is_best_answer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
