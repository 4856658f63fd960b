package memory

import (
	"context"
	"fmt"
	"sort"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
)

func (s *Store) CreateEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.next("event")
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt
	clone := *event
	s.events[event.ID] = &clone
	return nil
}

func (s *Store) FindEventByID(ctx context.Context, id int64) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *event
	return &clone, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]model.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, *event)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (s *Store) UpdateEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.events[event.ID]
	if !ok {
		return common.ErrNotFound
	}
	event.CreatedBy = stored.CreatedBy
	event.CreatedAt = stored.CreatedAt
	event.UpdatedAt = now()
	clone := *event
	s.events[event.ID] = &clone
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return common.ErrNotFound
	}
	for _, res := range s.results {
		if res.EventID == id {
			return fmt.Errorf("event %d has recorded results: %w", id, common.ErrConflict)
		}
	}
	delete(s.events, id)
	for regID, reg := range s.registrations {
		if reg.EventID == id {
			delete(s.regIndex, regKey{EventID: reg.EventID, UserID: reg.UserID})
			delete(s.registrations, regID)
		}
	}
	return nil
}

func (s *Store) Register(ctx context.Context, eventID, userID int64) (*model.EventRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, common.ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return nil, common.ErrNotFound
	}
	key := regKey{EventID: eventID, UserID: userID}
	if _, ok := s.regIndex[key]; ok {
		return nil, fmt.Errorf("user %d already registered for event %d: %w", userID, eventID, common.ErrConflict)
	}

	reg := &model.EventRegistration{
		ID:        s.next("registration"),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: now(),
	}
	s.registrations[reg.ID] = reg
	s.regIndex[key] = reg.ID
	clone := *reg
	return &clone, nil
}

func (s *Store) Unregister(ctx context.Context, eventID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := regKey{EventID: eventID, UserID: userID}
	regID, ok := s.regIndex[key]
	if !ok {
		return common.ErrNotFound
	}
	delete(s.regIndex, key)
	delete(s.registrations, regID)
	return nil
}

func (s *Store) ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regs []model.EventRegistration
	for _, reg := range s.registrations {
		if reg.EventID == eventID {
			regs = append(regs, *reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}
