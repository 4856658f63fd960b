package model

import (
	"time"
)

const (
	EventTypeContest  = "contest"
	EventTypeWorkshop = "workshop"
	EventTypeMeetup   = "meetup"
)

type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EventType       string    `json:"event_type"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	CreatedBy       int64     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type EventRegistration struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidEventType(t string) bool {
	return t == EventTypeContest || t == EventTypeWorkshop || t == EventTypeMeetup
}
