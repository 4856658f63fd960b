// Package memory implements the repository interfaces over plain maps. It is
// the second of the two interchangeable persistence backends and doubles as
// the test double for service tests. A single store-wide mutex gives the two
// multi-row writes (best-answer reassignment, post delete cascade) the same
// all-or-nothing behavior the Postgres backend gets from transactions.
package memory

import (
	"sync"
	"time"

	"codeclub/internal/domain/model"
)

type voteKey struct {
	ReplyID int64
	UserID  int64
}

type regKey struct {
	EventID int64
	UserID  int64
}

type Store struct {
	mu sync.RWMutex

	users         map[int64]*model.User
	events        map[int64]*model.Event
	registrations map[int64]*model.EventRegistration
	regIndex      map[regKey]int64
	results       map[int64]*model.ContestResult
	adjustments   map[int64]*model.ScoreAdjustment
	posts         map[int64]*model.ForumPost
	replies       map[int64]*model.ForumReply
	votes         map[voteKey]struct{}
	resources     map[int64]*model.Resource

	nextID map[string]int64
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*model.User),
		events:        make(map[int64]*model.Event),
		registrations: make(map[int64]*model.EventRegistration),
		regIndex:      make(map[regKey]int64),
		results:       make(map[int64]*model.ContestResult),
		adjustments:   make(map[int64]*model.ScoreAdjustment),
		posts:         make(map[int64]*model.ForumPost),
		replies:       make(map[int64]*model.ForumReply),
		votes:         make(map[voteKey]struct{}),
		resources:     make(map[int64]*model.Resource),
		nextID:        make(map[string]int64),
	}
}

// next hands out auto-increment ids per entity type. Callers must hold mu.
func (s *Store) next(entity string) int64 {
	s.nextID[entity]++
	return s.nextID[entity]
}

func now() time.Time {
	return time.Now().UTC()
}
