package repository

import (
	"context"

	"perfume-catalog/internal/domain"
)

// PerfumeRepository exposes catalog persistence. Lookups of a missing id
// return domain.ErrNotFound; creating a taken id returns domain.ErrConflict.
type PerfumeRepository interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Perfume, error)
	Suggest(ctx context.Context, q domain.SuggestionQuery) ([]domain.Perfume, error)
	Get(ctx context.Context, id string) (*domain.Perfume, error)
	Create(ctx context.Context, perfume *domain.Perfume) error
	Patch(ctx context.Context, id string, patch domain.PerfumePatch) (*domain.Perfume, error)
	Delete(ctx context.Context, id string) error
}
