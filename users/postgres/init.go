// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package postgres

import migrate "github.com/rubenv/sql-migrate"

// Migration of the users table. The partial unique indexes on the folded
// login and email are the authoritative uniqueness guard: soft-deleted rows
// (status <> 0) fall outside them and free their slots for new accounts.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "users_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS users (
						id                   VARCHAR(36) PRIMARY KEY,
						login                VARCHAR(254) NOT NULL,
						email                VARCHAR(254) NOT NULL,
						first_name           VARCHAR(254) NOT NULL DEFAULT '',
						last_name            VARCHAR(254) NOT NULL DEFAULT '',
						authorities          TEXT[] NOT NULL DEFAULT '{}',
						salesforce_id        VARCHAR(254) NOT NULL,
						parent_salesforce_id VARCHAR(254) NOT NULL DEFAULT '',
						main_contact         BOOLEAN NOT NULL DEFAULT FALSE,
						consortium_lead      BOOLEAN NOT NULL DEFAULT FALSE,
						created_by           VARCHAR(254) NOT NULL DEFAULT '',
						created_at           TIMESTAMPTZ NOT NULL,
						updated_by           VARCHAR(254) NOT NULL DEFAULT '',
						updated_at           TIMESTAMPTZ NOT NULL,
						status               SMALLINT NOT NULL DEFAULT 0
					)`,
					`CREATE UNIQUE INDEX IF NOT EXISTS users_login_active_idx
						ON users (LOWER(login)) WHERE status = 0`,
					`CREATE UNIQUE INDEX IF NOT EXISTS users_email_active_idx
						ON users (LOWER(email)) WHERE status = 0`,
				},
				Down: []string{
					`DROP TABLE users`,
				},
			},
		},
	}
}
