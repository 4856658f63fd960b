package service

import (
	"context"
	"strings"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ResourceService struct {
	resourceRepo repository.ResourceRepository
}

func NewResourceService(resourceRepo repository.ResourceRepository) *ResourceService {
	return &ResourceService{resourceRepo: resourceRepo}
}

type CreateResourceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Content      string `json:"content"`
	ResourceType string `json:"resource_type"`
}

type UpdateResourceRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Link         *string `json:"link,omitempty"`
	Content      *string `json:"content,omitempty"`
	ResourceType *string `json:"resource_type,omitempty"`
}

func (s *ResourceService) CreateResource(ctx context.Context, userID int64, req CreateResourceRequest) (*model.Resource, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}
	if req.Link == "" && req.Content == "" {
		return nil, common.Errorf("a resource needs a link or inline content: %w", common.ErrValidation)
	}

	resSlug := slug.Make(req.Title)
	taken, err := s.resourceRepo.SlugTaken(ctx, resSlug)
	if err != nil {
		return nil, err
	}
	if taken {
		resSlug = resSlug + "-" + uuid.NewString()[:8]
	}

	res := &model.Resource{
		Title:        req.Title,
		Slug:         resSlug,
		Description:  req.Description,
		Link:         req.Link,
		Content:      req.Content,
		ResourceType: req.ResourceType,
		UserID:       userID,
	}
	if err := s.resourceRepo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResourceService) GetResource(ctx context.Context, id int64) (*model.Resource, error) {
	return s.resourceRepo.FindByID(ctx, id)
}

func (s *ResourceService) ListResources(ctx context.Context) ([]model.Resource, error) {
	return s.resourceRepo.List(ctx)
}

func (s *ResourceService) UpdateResource(ctx context.Context, id int64, req UpdateResourceRequest) (*model.Resource, error) {
	res, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, common.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		res.Title = *req.Title
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.Link != nil {
		res.Link = *req.Link
	}
	if req.Content != nil {
		res.Content = *req.Content
	}
	if req.ResourceType != nil {
		res.ResourceType = *req.ResourceType
	}

	if err := s.resourceRepo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ResourceService) DeleteResource(ctx context.Context, id int64) error {
	return s.resourceRepo.Delete(ctx, id)
}
