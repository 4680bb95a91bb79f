package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	kvTable         = "kv_store"
	kvKeyColumn     = "key_name"
	kvValueColumn   = "key_value"
	kvUpdatedColumn = "updated_at"
)

// kvQueries builds the key-value statements for one dialect. PostgreSQL uses
// $n placeholders and row locks, SQLite uses ? and relies on BEGIN IMMEDIATE.
type kvQueries struct {
	builder sq.StatementBuilderType
	dialect Dialect
}

func newKVQueries(dialect Dialect) kvQueries {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}

	return kvQueries{
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		dialect: dialect,
	}
}

func (q kvQueries) selectValue(key string, forUpdate bool) (string, []any, error) {
	query := q.builder.
		Select(kvValueColumn).
		From(kvTable).
		Where(sq.Eq{kvKeyColumn: key})

	if forUpdate && q.dialect == DialectPostgres {
		query = query.Suffix("FOR UPDATE")
	}

	return query.ToSql()
}

func (q kvQueries) upsertValue(key, value string, now time.Time) (string, []any, error) {
	return q.builder.
		Insert(kvTable).
		Columns(kvKeyColumn, kvValueColumn, kvUpdatedColumn).
		Values(key, value, now).
		Suffix("ON CONFLICT (" + kvKeyColumn + ") DO UPDATE SET " +
			kvValueColumn + " = excluded." + kvValueColumn + ", " +
			kvUpdatedColumn + " = excluded." + kvUpdatedColumn).
		ToSql()
}

// reserveKey inserts a NULL placeholder row so that a following
// SELECT ... FOR UPDATE has a row to lock even when the key is new.
func (q kvQueries) reserveKey(key string, now time.Time) (string, []any, error) {
	return q.builder.
		Insert(kvTable).
		Columns(kvKeyColumn, kvValueColumn, kvUpdatedColumn).
		Values(key, nil, now).
		Suffix("ON CONFLICT (" + kvKeyColumn + ") DO NOTHING").
		ToSql()
}

func (q kvQueries) deleteKey(key string) (string, []any, error) {
	return q.builder.
		Delete(kvTable).
		Where(sq.Eq{kvKeyColumn: key}).
		ToSql()
}
