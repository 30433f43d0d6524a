package service

import (
	"context"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context, search string) ([]models.Genre, error)
	Create(ctx context.Context, req dto.CreateGenreRequest) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string) ([]models.Genre, error) {
	return s.genreRepo.GetAll(ctx, search)
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*models.Genre, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, &ValidationError{Field: "slug", Message: "may only contain letters, numbers, hyphens and underscores"}
	}
	if _, err := s.genreRepo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, &ValidationError{Field: "slug", Message: "slug already in use"}
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &ValidationError{Field: "name", Message: "name or slug already in use"}
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if repository.IsNotFound(err) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
