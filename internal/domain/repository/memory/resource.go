package memory

import (
	"context"
	"fmt"
	"sort"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
)

func (s *Store) CreateResource(ctx context.Context, res *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.resources {
		if existing.Slug == res.Slug {
			return fmt.Errorf("resource slug already taken: %w", common.ErrConflict)
		}
	}

	res.ID = s.next("resource")
	res.CreatedAt = now()
	res.UpdatedAt = res.CreatedAt
	clone := *res
	s.resources[res.ID] = &clone
	return nil
}

func (s *Store) FindResourceByID(ctx context.Context, id int64) (*model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resources[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *res
	return &clone, nil
}

func (s *Store) ListResources(ctx context.Context) ([]model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources := make([]model.Resource, 0, len(s.resources))
	for _, res := range s.resources {
		resources = append(resources, *res)
	}
	sort.Slice(resources, func(i, j int) bool {
		if !resources[i].CreatedAt.Equal(resources[j].CreatedAt) {
			return resources[i].CreatedAt.After(resources[j].CreatedAt)
		}
		return resources[i].ID > resources[j].ID
	})
	return resources, nil
}

func (s *Store) UpdateResource(ctx context.Context, res *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.resources[res.ID]
	if !ok {
		return common.ErrNotFound
	}
	res.Slug = stored.Slug
	res.UserID = stored.UserID
	res.CreatedAt = stored.CreatedAt
	res.UpdatedAt = now()
	clone := *res
	s.resources[res.ID] = &clone
	return nil
}

func (s *Store) DeleteResource(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.resources, id)
	return nil
}

func (s *Store) ResourceSlugTaken(ctx context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, res := range s.resources {
		if res.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}
