package sqlstore

import (
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRebind(t *testing.T) {
	d := postgresDialect{}
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2 LIMIT $3", d.Rebind("SELECT 1 WHERE a = ? AND b = ? LIMIT ?"))
	assert.Equal(t, "season @> jsonb_build_array($1::text)", d.Rebind(d.SeasonContains("season")))
}

func TestSQLiteRebindIsIdentity(t *testing.T) {
	assert.Equal(t, "a = ?", sqliteDialect{}.Rebind("a = ?"))
}

func TestLower(t *testing.T) {
	assert.Equal(t, "unicode_lower(brand)", sqliteDialect{}.Lower("brand"))
	assert.Equal(t, "LOWER(brand)", postgresDialect{}.Lower("brand"))

	v, err := unicodeLower(nil, []driver.Value{"ÉLIE Saab"})
	require.NoError(t, err)
	assert.Equal(t, "élie saab", v)

	v, err = unicodeLower(nil, []driver.Value{nil})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPostgresUniqueViolation(t *testing.T) {
	d := postgresDialect{}
	assert.True(t, d.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, d.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, d.IsUniqueViolation(errors.New("unique")))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_x%`, likePattern("50% OFF_x"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	assert.Error(t, err)
}
