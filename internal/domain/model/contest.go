package model

import (
	"time"
)

// ContestResult records one user's score for one event.
type ContestResult struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Score     int       `json:"score"`
	Position  *int      `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreAdjustment is an admin-issued delta applied on top of contest scores.
// It replaces the older practice of inserting synthetic contest results
// against a placeholder event.
type ScoreAdjustment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
