// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements persistence for the catalog on PostgreSQL.
// Validation rules live in the catalog package; stores load a snapshot,
// run the rule, and write inside one transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"indomart/internal/catalog"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// treeLockKey is the advisory lock taken by every write that depends on
// the shape of the category tree.
const treeLockKey int64 = 0x696e646f6d617274

// lockTree serializes tree mutations until tx ends.
func lockTree(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, treeLockKey); err != nil {
		return fmt.Errorf("lock category tree: %w", err)
	}
	return nil
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapConstraint converts a Postgres integrity violation into a catalog
// error carrying key. Other errors are returned unchanged.
func mapConstraint(err error, key string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch {
		case strings.Contains(pgErr.ConstraintName, "slug"):
			return catalog.Errorf(catalog.ErrDuplicateSlug, key, "slug is already in use")
		case strings.HasSuffix(pgErr.ConstraintName, "_name_key"):
			return catalog.Errorf(catalog.ErrDuplicateName, key, "name is already in use")
		}
		return catalog.Errorf(catalog.ErrDuplicateAssignment, key, "record already exists (%s)", pgErr.ConstraintName)
	case pgForeignKeyViolation:
		// Deletes blocked by a RESTRICT reference report "update or delete on".
		if strings.HasPrefix(pgErr.Message, "update or delete") {
			return catalog.Errorf(catalog.ErrProtectedReference, key, "record is still referenced (%s)", pgErr.TableName)
		}
		return catalog.Errorf(catalog.ErrNotFound, key, "referenced record does not exist (%s)", pgErr.ConstraintName)
	}
	return err
}

// likePattern wraps q for a substring ILIKE match, escaping the pattern
// metacharacters in the user's input.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

// uuidArray renders ids for a `$n::uuid[]` parameter.
func uuidArray(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// exists runs a SELECT EXISTS query.
func exists(ctx context.Context, q queryer, query string, args ...any) (bool, error) {
	var ok bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (`+query+`)`, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
