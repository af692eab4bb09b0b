package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/repository"
)

const perfumeColumns = `id, brand, name, description, image, rating_avg, votes, notes_top, notes_middle, notes_base, gender, season, popularity_score, release_year, longevity, sillage, accords, created_at, updated_at`

var perfumeOrderBy = map[domain.SortBy]string{
	domain.SortPopularity: "popularity_score DESC",
	domain.SortRating:     "rating_avg DESC",
	domain.SortNewest:     "release_year DESC",
	domain.SortName:       "name ASC",
}

type PerfumeRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewPerfumeRepository(db *DB) repository.PerfumeRepository {
	return &PerfumeRepository{db: db.DB, dialect: db.dialect}
}

func (r *PerfumeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Perfume, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if q.Search != "" {
		pattern := likePattern(q.Search)
		where = append(where, "("+r.likeAny("brand", "name", "description")+")")
		args = append(args, pattern, pattern, pattern)
	}
	if q.Gender != "" {
		where = append(where, `(gender = ? OR gender = ?)`)
		args = append(args, q.Gender, domain.GenderUnisex)
	}
	if q.Season != "" {
		where = append(where, r.dialect.SeasonContains("season"))
		args = append(args, q.Season)
	}

	query := `SELECT ` + perfumeColumns + ` FROM perfumes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY %s, id ASC LIMIT ? OFFSET ?`, perfumeOrderBy[q.SortBy])
	args = append(args, q.Limit, q.Skip)

	return r.queryPerfumes(ctx, query, args...)
}

func (r *PerfumeRepository) Suggest(ctx context.Context, q domain.SuggestionQuery) ([]domain.Perfume, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	pattern := likePattern(q.Q)
	return r.queryPerfumes(ctx, `
SELECT `+perfumeColumns+`
FROM perfumes
WHERE `+r.likeAny("brand", "name")+`
ORDER BY popularity_score DESC, id ASC
LIMIT ?`, pattern, pattern, q.Limit)
}

func (r *PerfumeRepository) Get(ctx context.Context, id string) (*domain.Perfume, error) {
	return r.get(ctx, r.db, id)
}

func (r *PerfumeRepository) Create(ctx context.Context, perfume *domain.Perfume) error {
	perfume.Normalize()
	perfume.CreatedAt = time.Now().UTC()
	perfume.UpdatedAt = nil

	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, r.dialect.Rebind(`
INSERT INTO perfumes (`+perfumeColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			perfume.ID,
			perfume.Brand,
			perfume.Name,
			perfume.Description,
			perfume.Image,
			perfume.RatingAvg,
			perfume.Votes,
			stringList(perfume.NotesTop),
			stringList(perfume.NotesMiddle),
			stringList(perfume.NotesBase),
			perfume.Gender,
			stringList(perfume.Season),
			perfume.PopularityScore,
			perfume.ReleaseYear,
			perfume.Longevity,
			perfume.Sillage,
			stringList(perfume.Accords),
			perfume.CreatedAt,
			nil,
		)
		if err != nil {
			if r.dialect.IsUniqueViolation(err) {
				return fmt.Errorf("perfume %q: %w", perfume.ID, domain.ErrConflict)
			}
			return fmt.Errorf("insert perfume: %w", err)
		}
		return nil
	})
}

func (r *PerfumeRepository) Patch(ctx context.Context, id string, patch domain.PerfumePatch) (*domain.Perfume, error) {
	var updated domain.Perfume
	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		current, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}

		updated = domain.MergePerfume(*current, patch)
		updated.Normalize()
		now := time.Now().UTC()
		updated.UpdatedAt = &now

		_, err = tx.ExecContext(ctx, r.dialect.Rebind(`
UPDATE perfumes
SET brand=?, name=?, description=?, image=?, rating_avg=?, votes=?, notes_top=?, notes_middle=?, notes_base=?, gender=?, season=?, popularity_score=?, release_year=?, longevity=?, sillage=?, accords=?, updated_at=?
WHERE id=?`),
			updated.Brand,
			updated.Name,
			updated.Description,
			updated.Image,
			updated.RatingAvg,
			updated.Votes,
			stringList(updated.NotesTop),
			stringList(updated.NotesMiddle),
			stringList(updated.NotesBase),
			updated.Gender,
			stringList(updated.Season),
			updated.PopularityScore,
			updated.ReleaseYear,
			updated.Longevity,
			updated.Sillage,
			stringList(updated.Accords),
			now,
			id,
		)
		if err != nil {
			return fmt.Errorf("update perfume: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PerfumeRepository) Delete(ctx context.Context, id string) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM perfumes WHERE id=?`), id)
		if err != nil {
			return fmt.Errorf("delete perfume: %w", err)
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("perfume delete rows affected: %w", err)
		}
		if aff == 0 {
			return fmt.Errorf("perfume %q: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

func (r *PerfumeRepository) get(ctx context.Context, db DBTX, id string) (*domain.Perfume, error) {
	row := db.QueryRowContext(ctx, r.dialect.Rebind(`
SELECT `+perfumeColumns+`
FROM perfumes
WHERE id=?`), id)

	perfume, err := scanPerfume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("perfume %q: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return perfume, nil
}

func (r *PerfumeRepository) queryPerfumes(ctx context.Context, query string, args ...any) ([]domain.Perfume, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query perfumes: %w", err)
	}
	defer rows.Close()

	perfumes := []domain.Perfume{}
	for rows.Next() {
		perfume, err := scanPerfume(rows)
		if err != nil {
			return nil, err
		}
		perfumes = append(perfumes, *perfume)
	}

	return perfumes, rows.Err()
}

func scanPerfume(scanner interface {
	Scan(dest ...any) error
}) (*domain.Perfume, error) {
	var (
		perfume   domain.Perfume
		lists     [5]stringList
		updatedAt sql.NullTime
	)

	if err := scanner.Scan(
		&perfume.ID,
		&perfume.Brand,
		&perfume.Name,
		&perfume.Description,
		&perfume.Image,
		&perfume.RatingAvg,
		&perfume.Votes,
		&lists[0],
		&lists[1],
		&lists[2],
		&perfume.Gender,
		&lists[3],
		&perfume.PopularityScore,
		&perfume.ReleaseYear,
		&perfume.Longevity,
		&perfume.Sillage,
		&lists[4],
		&perfume.CreatedAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan perfume: %w", err)
	}

	perfume.NotesTop = lists[0]
	perfume.NotesMiddle = lists[1]
	perfume.NotesBase = lists[2]
	perfume.Season = lists[3]
	perfume.Accords = lists[4]
	perfume.CreatedAt = perfume.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		perfume.UpdatedAt = &t
	}
	perfume.Normalize()

	return &perfume, nil
}

// likeAny matches one bound pattern per column, case-insensitively.
func (r *PerfumeRepository) likeAny(columns ...string) string {
	clauses := make([]string, len(columns))
	for i, c := range columns {
		clauses[i] = r.dialect.Lower(c) + ` LIKE ? ESCAPE '\'`
	}
	return strings.Join(clauses, " OR ")
}

// likePattern lowercases term and escapes LIKE wildcards for a substring match.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}

// stringList persists an ordered string list as a JSON array.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = stringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported list column type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode list column: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
