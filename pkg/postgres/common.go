// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Total returns the total number of rows for the given count query.
func Total(ctx context.Context, db *sqlx.DB, query string, params interface{}) (uint64, error) {
	rows, err := db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := uint64(0)
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}

	return total, nil
}
