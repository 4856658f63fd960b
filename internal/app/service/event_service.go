package service

import (
	"context"
	"time"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"
)

type EventService struct {
	eventRepo repository.EventRepository
}

func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	EventType       string    `json:"event_type"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
}

type UpdateEventRequest struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	EventType       *string    `json:"event_type,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Location        *string    `json:"location,omitempty"`
}

func (s *EventService) CreateEvent(ctx context.Context, creatorID int64, req CreateEventRequest) (*model.Event, error) {
	if req.Title == "" || req.EventType == "" || req.Date.IsZero() {
		return nil, common.Errorf("title, event_type and date are required: %w", common.ErrValidation)
	}
	if !model.ValidEventType(req.EventType) {
		return nil, common.Errorf("unknown event type %q: %w", req.EventType, common.ErrValidation)
	}
	if req.DurationMinutes < 0 {
		return nil, common.Errorf("duration cannot be negative: %w", common.ErrValidation)
	}

	event := &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventType:       req.EventType,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		CreatedBy:       creatorID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *EventService) UpdateEvent(ctx context.Context, id int64, req UpdateEventRequest) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		if !model.ValidEventType(*req.EventType) {
			return nil, common.Errorf("unknown event type %q: %w", *req.EventType, common.ErrValidation)
		}
		event.EventType = *req.EventType
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 0 {
			return nil, common.Errorf("duration cannot be negative: %w", common.ErrValidation)
		}
		event.DurationMinutes = *req.DurationMinutes
	}
	if req.Location != nil {
		event.Location = *req.Location
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

func (s *EventService) RegisterUser(ctx context.Context, eventID, userID int64) (*model.EventRegistration, error) {
	return s.eventRepo.Register(ctx, eventID, userID)
}

func (s *EventService) UnregisterUser(ctx context.Context, eventID, userID int64) error {
	return s.eventRepo.Unregister(ctx, eventID, userID)
}

func (s *EventService) ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListRegistrations(ctx, eventID)
}
