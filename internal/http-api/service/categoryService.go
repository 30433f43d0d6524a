package service

import (
	"context"
	"regexp"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// slugPattern matches URL-safe slugs.
var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, search string) ([]models.Category, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx, search)
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, &ValidationError{Field: "slug", Message: "may only contain letters, numbers, hyphens and underscores"}
	}
	if _, err := s.categoryRepo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, &ValidationError{Field: "slug", Message: "slug already in use"}
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &ValidationError{Field: "name", Message: "name or slug already in use"}
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
