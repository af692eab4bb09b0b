package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/repository"
	"perfume-catalog/internal/storage"
)

// MaxImageSize bounds a single perfume image upload.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageUpload is an image received for a perfume.
type ImageUpload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// PerfumeService coordinates catalog operations backed by the repository.
type PerfumeService interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Perfume, error)
	Suggest(ctx context.Context, q domain.SuggestionQuery) ([]domain.Perfume, error)
	Get(ctx context.Context, id string) (*domain.Perfume, error)
	Create(ctx context.Context, perfume domain.Perfume) (*domain.Perfume, error)
	Update(ctx context.Context, id string, patch domain.PerfumePatch) (*domain.Perfume, error)
	Delete(ctx context.Context, id string) error
	AttachImage(ctx context.Context, id string, upload ImageUpload) (*domain.Perfume, error)
}

type perfumeService struct {
	perfumes  repository.PerfumeRepository
	images    storage.ImageStore
	keyPrefix string
	logger    *logrus.Logger
}

func NewPerfumeService(perfumes repository.PerfumeRepository, images storage.ImageStore, keyPrefix string, logger *logrus.Logger) PerfumeService {
	if images == nil {
		images = storage.Disabled{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &perfumeService{
		perfumes:  perfumes,
		images:    images,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		logger:    logger,
	}
}

func (s *perfumeService) List(ctx context.Context, q domain.ListQuery) ([]domain.Perfume, error) {
	q.Search = strings.TrimSpace(q.Search)
	q.Gender = strings.TrimSpace(q.Gender)
	q.Season = strings.TrimSpace(q.Season)
	if q.SortBy == "" {
		q.SortBy = domain.SortPopularity
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.perfumes.List(ctx, q)
}

func (s *perfumeService) Suggest(ctx context.Context, q domain.SuggestionQuery) ([]domain.Perfume, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.perfumes.Suggest(ctx, q)
}

func (s *perfumeService) Get(ctx context.Context, id string) (*domain.Perfume, error) {
	return s.perfumes.Get(ctx, id)
}

func (s *perfumeService) Create(ctx context.Context, perfume domain.Perfume) (*domain.Perfume, error) {
	perfume.ID = strings.TrimSpace(perfume.ID)
	perfume.Normalize()
	if err := perfume.Validate(); err != nil {
		return nil, err
	}
	if err := s.perfumes.Create(ctx, &perfume); err != nil {
		return nil, err
	}
	return &perfume, nil
}

func (s *perfumeService) Update(ctx context.Context, id string, patch domain.PerfumePatch) (*domain.Perfume, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.perfumes.Patch(ctx, id, patch)
}

func (s *perfumeService) Delete(ctx context.Context, id string) error {
	if err := s.perfumes.Delete(ctx, id); err != nil {
		return err
	}
	prefix, err := s.imagePrefix(id)
	if err != nil {
		s.logger.WithField("perfume_id", id).Warnf("skip image cleanup: %v", err)
		return nil
	}
	if err := s.images.DeletePrefix(ctx, prefix); err != nil {
		s.logger.WithField("perfume_id", id).Warnf("delete perfume images: %v", err)
	}
	return nil
}

func (s *perfumeService) AttachImage(ctx context.Context, id string, upload ImageUpload) (*domain.Perfume, error) {
	ext, ok := imageExtensions[upload.ContentType]
	if !ok {
		return nil, domain.Invalid("image", "unsupported content type %q", upload.ContentType)
	}
	if upload.Size <= 0 || upload.Size > MaxImageSize {
		return nil, domain.Invalid("image", "size must be between 1 and %d bytes", MaxImageSize)
	}
	if _, err := s.perfumes.Get(ctx, id); err != nil {
		return nil, err
	}
	prefix, err := s.imagePrefix(id)
	if err != nil {
		return nil, err
	}

	key := prefix + uuid.NewString() + ext
	ref, err := s.images.Upload(ctx, storage.Image{
		Key:         key,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		Body:        io.LimitReader(upload.Body, upload.Size),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, err
		}
		return nil, fmt.Errorf("store perfume image: %w", err)
	}

	updated, err := s.perfumes.Patch(ctx, id, domain.PerfumePatch{Image: &ref})
	if err != nil {
		// the object is unreferenced now
		if cleanupErr := s.images.DeletePrefix(ctx, key); cleanupErr != nil {
			s.logger.WithFields(logrus.Fields{"perfume_id": id, "key": key}).Warnf("delete orphaned image: %v", cleanupErr)
		}
		return nil, err
	}
	return updated, nil
}

// imagePrefix is "<keyPrefix>/<id>/", matching only objects of that perfume.
func (s *perfumeService) imagePrefix(id string) (string, error) {
	if err := domain.ValidatePerfumeID(id); err != nil {
		return "", err
	}
	if s.keyPrefix == "" {
		return id + "/", nil
	}
	return s.keyPrefix + "/" + id + "/", nil
}
