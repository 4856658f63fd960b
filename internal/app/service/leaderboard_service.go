package service

import (
	"context"
	"sort"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"

	"go.uber.org/zap"
)

// LeaderboardCache is satisfied by cache.LeaderboardCache; a nil cache
// disables caching (memory backend, tests).
type LeaderboardCache interface {
	Get(ctx context.Context) ([]model.LeaderboardEntry, bool, error)
	Set(ctx context.Context, entries []model.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

type LeaderboardService struct {
	contestRepo repository.ContestRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	cache       LeaderboardCache
	logger      *zap.SugaredLogger
}

func NewLeaderboardService(
	contestRepo repository.ContestRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	cache LeaderboardCache,
	logger *zap.SugaredLogger,
) *LeaderboardService {
	return &LeaderboardService{
		contestRepo: contestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		cache:       cache,
		logger:      logger,
	}
}

type RecordResultRequest struct {
	UserID   int64 `json:"user_id"`
	Score    int   `json:"score"`
	Position *int  `json:"position,omitempty"`
}

type AdjustScoreRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// Leaderboard aggregates contest results and admin adjustments into one row
// per scoring user: score is the sum over all results plus adjustment deltas,
// contest count is the number of distinct events the user has a result in.
// Cache failures fall back to recomputation.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, hit, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warnw("leaderboard cache read failed", "error", err)
		} else if hit {
			return entries, nil
		}
	}

	entries, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			s.logger.Warnw("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

func (s *LeaderboardService) compute(ctx context.Context) ([]model.LeaderboardEntry, error) {
	results, err := s.contestRepo.ListResults(ctx)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.contestRepo.ListAdjustments(ctx)
	if err != nil {
		return nil, err
	}

	type tally struct {
		score  int
		events map[int64]struct{}
	}
	tallies := make(map[int64]*tally)
	tallyFor := func(userID int64) *tally {
		t, ok := tallies[userID]
		if !ok {
			t = &tally{events: make(map[int64]struct{})}
			tallies[userID] = t
		}
		return t
	}

	for _, res := range results {
		t := tallyFor(res.UserID)
		t.score += res.Score
		t.events[res.EventID] = struct{}{}
	}
	for _, adj := range adjustments {
		tallyFor(adj.UserID).score += adj.Delta
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]*model.User, len(users))
	for i := range users {
		names[users[i].ID] = &users[i]
	}

	entries := make([]model.LeaderboardEntry, 0, len(tallies))
	for userID, t := range tallies {
		entry := model.LeaderboardEntry{
			UserID:       userID,
			Score:        t.score,
			ContestCount: len(t.events),
		}
		if user, ok := names[userID]; ok {
			entry.Username = user.Username
			entry.DisplayName = user.DisplayName
		}
		entries = append(entries, entry)
	}

	// Ties are broken by user id so the ordering is stable across reads.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// RecordResult stores one user's score for an event and invalidates the
// cached leaderboard.
func (s *LeaderboardService) RecordResult(ctx context.Context, eventID int64, req RecordResultRequest) (*model.ContestResult, error) {
	if req.UserID == 0 {
		return nil, common.Errorf("user_id is required: %w", common.ErrValidation)
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	result := &model.ContestResult{
		EventID:  eventID,
		UserID:   req.UserID,
		Score:    req.Score,
		Position: req.Position,
	}
	if err := s.contestRepo.CreateResult(ctx, result); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return result, nil
}

func (s *LeaderboardService) ListEventResults(ctx context.Context, eventID int64) ([]model.ContestResult, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.contestRepo.ListResultsByEvent(ctx, eventID)
}

// AdjustScore records an admin delta against a user. This replaces the old
// synthetic-contest-result update path, keeping event statistics honest.
func (s *LeaderboardService) AdjustScore(ctx context.Context, adminID, userID int64, req AdjustScoreRequest) (*model.ScoreAdjustment, error) {
	if req.Delta == 0 {
		return nil, common.Errorf("delta must be non-zero: %w", common.ErrValidation)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	adj := &model.ScoreAdjustment{
		UserID:    userID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		CreatedBy: adminID,
	}
	if err := s.contestRepo.CreateAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return adj, nil
}

func (s *LeaderboardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warnw("leaderboard cache invalidation failed", "error", err)
	}
}
