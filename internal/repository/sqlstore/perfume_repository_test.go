package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/repository"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func newPerfume(id, brand, name, gender string, seasons []string, popularity, year int, rating float64) *domain.Perfume {
	return &domain.Perfume{
		ID:              id,
		Brand:           brand,
		Name:            name,
		Description:     name + " by " + brand,
		Image:           "https://cdn.example/" + id + ".jpg",
		RatingAvg:       rating,
		NotesTop:        []string{"bergamot"},
		NotesMiddle:     []string{"rose"},
		NotesBase:       []string{"musk"},
		Gender:          gender,
		Season:          seasons,
		PopularityScore: popularity,
		ReleaseYear:     year,
		Longevity:       domain.DefaultLongevity,
		Sillage:         domain.DefaultSillage,
		Accords:         []string{"woody"},
	}
}

func seedCatalog(t *testing.T, repo repository.PerfumeRepository) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*domain.Perfume{
		newPerfume("sauvage", "Dior", "Sauvage", domain.GenderMale, []string{"spring", "summer"}, 95, 2015, 4.1),
		newPerfume("coco", "Chanel", "Coco Mademoiselle", domain.GenderFemale, []string{"fall", "winter"}, 78, 2001, 4.6),
		newPerfume("santal", "Le Labo", "Santal 33", domain.GenderUnisex, []string{"fall"}, 60, 2011, 4.3),
		newPerfume("acqua", "Giorgio Armani", "Acqua di Gio", domain.GenderMale, []string{"summer"}, 88, 1996, 3.9),
	} {
		require.NoError(t, repo.Create(ctx, p))
	}
}

func ids(perfumes []domain.Perfume) []string {
	out := make([]string, len(perfumes))
	for i, p := range perfumes {
		out[i] = p.ID
	}
	return out
}

func listQuery(mutate func(*domain.ListQuery)) domain.ListQuery {
	q := domain.NewListQuery()
	if mutate != nil {
		mutate(&q)
	}
	return q
}

func TestList_SortOrders(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	tests := []struct {
		sort domain.SortBy
		want []string
	}{
		{domain.SortPopularity, []string{"sauvage", "acqua", "coco", "santal"}},
		{domain.SortRating, []string{"coco", "santal", "sauvage", "acqua"}},
		{domain.SortNewest, []string{"sauvage", "santal", "coco", "acqua"}},
		{domain.SortName, []string{"acqua", "coco", "santal", "sauvage"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got, err := repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.SortBy = tt.sort }))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestList_PopularityPutsHigherScoreFirst(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newPerfume("low", "B", "Low", domain.GenderMale, nil, 78, 2000, 0)))
	require.NoError(t, repo.Create(ctx, newPerfume("high", "A", "High", domain.GenderMale, nil, 95, 2000, 0)))

	got, err := repo.List(ctx, listQuery(nil))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].ID)
}

func TestList_GenderIncludesUnisex(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)

	for _, gender := range []string{domain.GenderMale, domain.GenderFemale, domain.GenderUnisex} {
		got, err := repo.List(context.Background(), listQuery(func(q *domain.ListQuery) { q.Gender = gender }))
		require.NoError(t, err)
		assert.Contains(t, ids(got), "santal", "unisex perfume missing for gender %s", gender)
		for _, p := range got {
			assert.Contains(t, []string{gender, domain.GenderUnisex}, p.Gender)
		}
	}
}

func TestList_SeasonContainment(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)

	got, err := repo.List(context.Background(), listQuery(func(q *domain.ListQuery) { q.Season = "summer" }))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sauvage", "acqua"}, ids(got))
	assert.NotContains(t, ids(got), "coco")
}

func TestList_SearchAcrossFieldsCaseInsensitive(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	got, err := repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Search = "CHANEL" }))
	require.NoError(t, err)
	assert.Equal(t, []string{"coco"}, ids(got))

	got, err = repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Search = "santal 33 by" }))
	require.NoError(t, err)
	assert.Equal(t, []string{"santal"}, ids(got), "description must be searched")

	got, err = repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Search = "%" }))
	require.NoError(t, err)
	assert.Empty(t, got, "wildcards are matched literally")
}

func TestSearch_FoldsNonASCIICase(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newPerfume("elie", "ÉLIE SAAB", "Le Parfum", domain.GenderFemale, []string{"spring"}, 70, 2011, 4.0)))

	for _, term := range []string{"ÉLIE", "élie", "Élie", "élie saab"} {
		got, err := repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Search = term }))
		require.NoError(t, err)
		assert.Equal(t, []string{"elie"}, ids(got), term)

		got, err = repo.Suggest(ctx, domain.SuggestionQuery{Q: term, Limit: domain.DefaultSuggestionLimit})
		require.NoError(t, err)
		assert.Equal(t, []string{"elie"}, ids(got), term)
	}
}

func TestList_FiltersCompose(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)

	got, err := repo.List(context.Background(), listQuery(func(q *domain.ListQuery) {
		q.Gender = domain.GenderFemale
		q.Season = "fall"
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"coco", "santal"}, ids(got))
}

func TestList_Pagination(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	got, err := repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Skip = 1; q.Limit = 2 }))
	require.NoError(t, err)
	assert.Equal(t, []string{"acqua", "coco"}, ids(got))

	got, err = repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Skip = 10 }))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Limit = 0 }))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = repo.List(ctx, listQuery(func(q *domain.ListQuery) { q.Limit = 101 }))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateGet_RoundTrip(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	p := newPerfume("aventus", "Creed", "Aventus", domain.GenderMale, []string{"spring"}, 90, 2010, 0)

	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, "aventus")
	require.NoError(t, err)
	assert.Equal(t, p.Brand, got.Brand)
	assert.Equal(t, p.NotesTop, got.NotesTop)
	assert.Equal(t, p.Season, got.Season)
	assert.Equal(t, p.Accords, got.Accords)
	assert.Equal(t, 0.0, got.RatingAvg)
	assert.Equal(t, 0, got.Votes)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Nil(t, got.UpdatedAt)
}

func TestCreate_NilListsPersistEmpty(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	p := newPerfume("bare", "Brand", "Bare", domain.GenderUnisex, nil, 0, 2020, 0)
	p.Accords = nil

	require.NoError(t, repo.Create(ctx, p))
	got, err := repo.Get(ctx, "bare")
	require.NoError(t, err)
	assert.NotNil(t, got.Season)
	assert.Empty(t, got.Season)
	assert.NotNil(t, got.Accords)
}

func TestCreate_Conflict(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newPerfume("dup", "A", "A", domain.GenderMale, nil, 0, 2000, 0)))

	err := repo.Create(ctx, newPerfume("dup", "B", "B", domain.GenderFemale, nil, 0, 2000, 0))
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.Get(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Brand)
}

func TestGet_NotFound(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatch_OnlySuppliedFields(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newPerfume("tf", "Tom Ford", "Oud Wood", domain.GenderUnisex, []string{"winter"}, 70, 2007, 0)))

	rating := 4.8
	updated, err := repo.Patch(ctx, "tf", domain.PerfumePatch{RatingAvg: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.8, updated.RatingAvg)
	require.NotNil(t, updated.UpdatedAt)

	got, err := repo.Get(ctx, "tf")
	require.NoError(t, err)
	assert.Equal(t, 4.8, got.RatingAvg)
	assert.Equal(t, "Tom Ford", got.Brand)
	assert.Equal(t, []string{"bergamot"}, got.NotesTop)
	assert.Equal(t, []string{"winter"}, got.Season)
	assert.NotNil(t, got.UpdatedAt)
}

func TestPatch_NotFound(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	brand := "x"
	_, err := repo.Patch(context.Background(), "missing", domain.PerfumePatch{Brand: &brand})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_ThenGetNotFound(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newPerfume("gone", "A", "Gone", domain.GenderMale, nil, 0, 2000, 0)))

	require.NoError(t, repo.Delete(ctx, "gone"))
	_, err := repo.Get(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "gone"), domain.ErrNotFound)
}

func TestSuggest_BrandOrNameByPopularity(t *testing.T) {
	repo := NewPerfumeRepository(setupDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	got, err := repo.Suggest(ctx, domain.SuggestionQuery{Q: "di", Limit: domain.DefaultSuggestionLimit})
	require.NoError(t, err)
	assert.Equal(t, []string{"sauvage", "acqua"}, ids(got))

	got, err = repo.Suggest(ctx, domain.SuggestionQuery{Q: "di", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"sauvage"}, ids(got))

	got, err = repo.Suggest(ctx, domain.SuggestionQuery{Q: "by", Limit: domain.DefaultSuggestionLimit})
	require.NoError(t, err)
	assert.Empty(t, got, "description is not part of suggestions")

	_, err = repo.Suggest(ctx, domain.SuggestionQuery{Q: "d", Limit: domain.DefaultSuggestionLimit})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
