package sqlstore

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect isolates the few SQL fragments that differ between backends.
// Queries are written with ? placeholders and rebound before execution.
type Dialect interface {
	Name() string
	Rebind(query string) string
	// Lower folds column to lowercase, Unicode letters included.
	Lower(column string) string
	// SeasonContains returns a predicate true when the season list holds the bound value.
	SeasonContains(column string) string
	IsUniqueViolation(err error) bool
	migrationDialect() goose.Dialect
}

// sqliteLowerFunc replaces LOWER, which only folds ASCII in sqlite.
const sqliteLowerFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(sqliteLowerFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", sqliteLowerFunc, err))
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", sqliteLowerFunc, v)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) Lower(column string) string { return sqliteLowerFunc + "(" + column + ")" }

func (sqliteDialect) SeasonContains(column string) string {
	return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = ?)"
}

func (sqliteDialect) IsUniqueViolation(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch code := sqlErr.Code(); {
	case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		// extended codes disabled on this connection
		return strings.Contains(sqlErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func (sqliteDialect) migrationDialect() goose.Dialect { return goose.DialectSQLite3 }

type postgresDialect struct{}

func (postgresDialect) Name() string { return DriverPostgres }

func (postgresDialect) Rebind(query string) string {
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func (postgresDialect) Lower(column string) string { return "LOWER(" + column + ")" }

func (postgresDialect) SeasonContains(column string) string {
	return column + " @> jsonb_build_array(?::text)"
}

func (postgresDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (postgresDialect) migrationDialect() goose.Dialect { return goose.DialectPostgres }
