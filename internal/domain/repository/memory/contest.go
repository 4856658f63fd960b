package memory

import (
	"context"
	"sort"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
)

func (s *Store) CreateResult(ctx context.Context, result *model.ContestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[result.EventID]; !ok {
		return common.ErrNotFound
	}
	if _, ok := s.users[result.UserID]; !ok {
		return common.ErrNotFound
	}

	result.ID = s.next("contest_result")
	result.CreatedAt = now()
	clone := *result
	s.results[result.ID] = &clone
	return nil
}

func (s *Store) ListResults(ctx context.Context) ([]model.ContestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.ContestResult, 0, len(s.results))
	for _, res := range s.results {
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (s *Store) ListResultsByEvent(ctx context.Context, eventID int64) ([]model.ContestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []model.ContestResult
	for _, res := range s.results {
		if res.EventID == eventID {
			results = append(results, *res)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (s *Store) CreateAdjustment(ctx context.Context, adj *model.ScoreAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[adj.UserID]; !ok {
		return common.ErrNotFound
	}

	adj.ID = s.next("score_adjustment")
	adj.CreatedAt = now()
	clone := *adj
	s.adjustments[adj.ID] = &clone
	return nil
}

func (s *Store) ListAdjustments(ctx context.Context) ([]model.ScoreAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adjs := make([]model.ScoreAdjustment, 0, len(s.adjustments))
	for _, adj := range s.adjustments {
		adjs = append(adjs, *adj)
	}
	sort.Slice(adjs, func(i, j int) bool { return adjs[i].ID < adjs[j].ID })
	return adjs, nil
}
