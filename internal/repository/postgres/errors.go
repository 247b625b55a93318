package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/elijahbrown/collabhub/internal/repository"
)

// classifyError maps low-level Postgres errors onto repository sentinels.
// The unique indexes on slug and subdomain are the authoritative conflict
// check — a violation there is the Conflict signal, everything else is a
// server fault the caller wraps and logs.
func classifyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "collaborators_slug_key" ||
			pgErr.ConstraintName == "collaborators_subdomain_key" {
			return repository.ErrSlugTaken
		}
	}
	return err
}
