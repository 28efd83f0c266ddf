package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/repositories"
	"github.com/asopadel/padel-system/storage"
)

type NewsInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID *int   `json:"author_id"`
}

type HeroInput struct {
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle"`
}

type NewsService interface {
	Create(ctx context.Context, input NewsInput) (*models.News, error)
	GetByID(ctx context.Context, id int) (*models.News, error)
	ListLatest(ctx context.Context, limit int) ([]*models.News, error)
	Update(ctx context.Context, id int, input NewsInput) (*models.News, error)
	UploadImage(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.News, error)
	Delete(ctx context.Context, id int) error

	CreateHero(ctx context.Context, input HeroInput) (*models.Hero, error)
	ActiveHero(ctx context.Context) (*models.Hero, error)
	ActivateHero(ctx context.Context, id int) error
}

type newsService struct {
	newsRepo repositories.NewsRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewNewsService(newsRepo repositories.NewsRepository, uploader storage.FileUploader, logger *slog.Logger) NewsService {
	return &newsService{newsRepo: newsRepo, uploader: uploader, logger: logger}
}

func (s *newsService) Create(ctx context.Context, input NewsInput) (*models.News, error) {
	if input.Title == "" || input.Body == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidationFailed)
	}
	post := &models.News{
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: input.AuthorID,
	}
	if err := s.newsRepo.Create(ctx, post); err != nil {
		return nil, mapNewsRepoError(err)
	}
	return post, nil
}

func (s *newsService) GetByID(ctx context.Context, id int) (*models.News, error) {
	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNewsRepoError(err)
	}
	s.resolveNewsImage(post)
	return post, nil
}

func (s *newsService) ListLatest(ctx context.Context, limit int) ([]*models.News, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	posts, err := s.newsRepo.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	for _, p := range posts {
		s.resolveNewsImage(p)
	}
	return posts, nil
}

func (s *newsService) Update(ctx context.Context, id int, input NewsInput) (*models.News, error) {
	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNewsRepoError(err)
	}
	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Body != "" {
		post.Body = input.Body
	}
	if err = s.newsRepo.Update(ctx, post); err != nil {
		return nil, mapNewsRepoError(err)
	}
	s.resolveNewsImage(post)
	return post, nil
}

func (s *newsService) UploadImage(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*models.News, error) {
	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNewsRepoError(err)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	key, err := s.uploader.Upload(ctx, file, header, "news")
	if err != nil {
		return nil, fmt.Errorf("failed to upload news image: %w", err)
	}
	if err = s.newsRepo.UpdateImageKey(ctx, id, &key); err != nil {
		return nil, mapNewsRepoError(err)
	}
	if post.ImageKey != nil {
		if delErr := s.uploader.Delete(ctx, *post.ImageKey); delErr != nil {
			s.logger.Warn("failed to delete previous news image",
				slog.Int("news_id", id), slog.Any("error", delErr))
		}
	}
	return s.GetByID(ctx, id)
}

func (s *newsService) Delete(ctx context.Context, id int) error {
	return mapNewsRepoError(s.newsRepo.Delete(ctx, id))
}

func (s *newsService) CreateHero(ctx context.Context, input HeroInput) (*models.Hero, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: hero title is required", ErrValidationFailed)
	}
	hero := &models.Hero{Title: input.Title, Subtitle: input.Subtitle}
	if err := s.newsRepo.CreateHero(ctx, hero); err != nil {
		return nil, mapNewsRepoError(err)
	}
	return hero, nil
}

func (s *newsService) ActiveHero(ctx context.Context) (*models.Hero, error) {
	hero, err := s.newsRepo.GetActiveHero(ctx)
	if err != nil {
		return nil, mapNewsRepoError(err)
	}
	if hero.ImageKey != nil && s.uploader != nil {
		url := s.uploader.PublicURL(*hero.ImageKey)
		hero.ImageURL = &url
	}
	return hero, nil
}

func (s *newsService) ActivateHero(ctx context.Context, id int) error {
	return mapNewsRepoError(s.newsRepo.ActivateHero(ctx, id))
}

func (s *newsService) resolveNewsImage(post *models.News) {
	if post.ImageKey != nil && s.uploader != nil {
		url := s.uploader.PublicURL(*post.ImageKey)
		post.ImageURL = &url
	}
}

func mapNewsRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNewsNotFound):
		return ErrNewsNotFound
	case errors.Is(err, repositories.ErrHeroNotFound):
		return ErrNotFound
	default:
		return err
	}
}
