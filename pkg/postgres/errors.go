// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/memberhub/memberhub/pkg/errors"
	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
)

// HandleError maps Postgres-level failures into the repository error
// taxonomy. Constraint violations are the final authority on uniqueness:
// a unique-index violation always surfaces as ErrConflict, regardless of
// what earlier validation reads observed.
func HandleError(wrapper, err error) error {
	pqErr, ok := err.(*pgconn.PgError)
	if ok {
		switch pqErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(repoerr.ErrConflict, err)
		case pgerrcode.StringDataRightTruncationDataException, pgerrcode.InvalidTextRepresentation:
			return errors.Wrap(repoerr.ErrMalformedEntity, err)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrap(repoerr.ErrCreateEntity, err)
		}
	}

	return errors.Wrap(wrapper, err)
}
