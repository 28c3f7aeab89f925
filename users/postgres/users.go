// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jmoiron/sqlx"
	"github.com/memberhub/memberhub/pkg/errors"
	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
	"github.com/memberhub/memberhub/pkg/postgres"
	"github.com/memberhub/memberhub/users"
)

var _ users.Repository = (*userRepo)(nil)

type userRepo struct {
	db *sqlx.DB
}

// NewRepository instantiates a PostgreSQL implementation of users.Repository.
func NewRepository(db *sqlx.DB) users.Repository {
	return &userRepo{db: db}
}

func (repo *userRepo) Save(ctx context.Context, user users.User) (users.User, error) {
	q := `INSERT INTO users (id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status)
		VALUES (:id, :login, :email, :first_name, :last_name, :authorities, :salesforce_id,
		:parent_salesforce_id, :main_contact, :consortium_lead, :created_by, :created_at, :updated_by, :updated_at, :status)
		RETURNING id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status`

	dbu, err := toDBUser(user)
	if err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	row, err := repo.db.NamedQueryContext(ctx, q, dbu)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}
	defer row.Close()

	if !row.Next() {
		return users.User{}, repoerr.ErrCreateEntity
	}

	dbu = dbUser{}
	if err := row.StructScan(&dbu); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return toUser(dbu)
}

func (repo *userRepo) Update(ctx context.Context, user users.User) (users.User, error) {
	q := `UPDATE users SET login = :login, email = :email, first_name = :first_name, last_name = :last_name,
		authorities = :authorities, salesforce_id = :salesforce_id, parent_salesforce_id = :parent_salesforce_id,
		main_contact = :main_contact, consortium_lead = :consortium_lead, updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id
		RETURNING id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status`

	dbu, err := toDBUser(user)
	if err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrUpdateEntity, err)
	}

	row, err := repo.db.NamedQueryContext(ctx, q, dbu)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	defer row.Close()

	if !row.Next() {
		return users.User{}, repoerr.ErrNotFound
	}

	dbu = dbUser{}
	if err := row.StructScan(&dbu); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return toUser(dbu)
}

func (repo *userRepo) RetrieveByID(ctx context.Context, id string) (users.User, error) {
	q := `SELECT id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status
		FROM users WHERE id = :id`

	return repo.retrieveOne(ctx, q, dbUser{ID: id})
}

// Enabled rows sort before deleted ones, so when a soft-deleted row and its
// active successor share a login or email the lookup returns the active one.
func (repo *userRepo) RetrieveByLogin(ctx context.Context, login string) (users.User, error) {
	q := `SELECT id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status
		FROM users WHERE LOWER(login) = LOWER(:login) ORDER BY status LIMIT 1`

	return repo.retrieveOne(ctx, q, dbUser{Login: login})
}

func (repo *userRepo) RetrieveByEmail(ctx context.Context, email string) (users.User, error) {
	q := `SELECT id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status
		FROM users WHERE LOWER(email) = LOWER(:email) ORDER BY status LIMIT 1`

	return repo.retrieveOne(ctx, q, dbUser{Email: email})
}

func (repo *userRepo) RetrieveAll(ctx context.Context, pm users.Page) (users.UsersPage, error) {
	query := pageQuery(pm)

	q := fmt.Sprintf(`SELECT id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status
		FROM users %s ORDER BY created_at LIMIT :limit OFFSET :offset`, query)

	params := map[string]interface{}{
		"limit":         pm.Limit,
		"offset":        pm.Offset,
		"status":        pm.Status,
		"salesforce_id": pm.SalesforceID,
	}

	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return users.UsersPage{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []users.User{}
	for rows.Next() {
		dbu := dbUser{}
		if err := rows.StructScan(&dbu); err != nil {
			return users.UsersPage{}, errors.Wrap(repoerr.ErrViewEntity, err)
		}

		user, err := toUser(dbu)
		if err != nil {
			return users.UsersPage{}, errors.Wrap(repoerr.ErrViewEntity, err)
		}

		items = append(items, user)
	}

	cq := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, query)
	total, err := postgres.Total(ctx, repo.db, cq, params)
	if err != nil {
		return users.UsersPage{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	page := users.UsersPage{
		Users: items,
		Page: users.Page{
			Total:  total,
			Offset: pm.Offset,
			Limit:  pm.Limit,
		},
	}

	return page, nil
}

func (repo *userRepo) RemoveAuthority(ctx context.Context, id, authority string) (users.User, error) {
	q := `UPDATE users SET authorities = array_remove(authorities, :authority)
		WHERE id = :id
		RETURNING id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status`

	params := map[string]interface{}{
		"id":        id,
		"authority": authority,
	}

	row, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	defer row.Close()

	if !row.Next() {
		return users.User{}, repoerr.ErrNotFound
	}

	dbu := dbUser{}
	if err := row.StructScan(&dbu); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return toUser(dbu)
}

func (repo *userRepo) ChangeStatus(ctx context.Context, user users.User) (users.User, error) {
	q := `UPDATE users SET status = :status, updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id
		RETURNING id, login, email, first_name, last_name, authorities, salesforce_id,
		parent_salesforce_id, main_contact, consortium_lead, created_by, created_at, updated_by, updated_at, status`

	dbu, err := toDBUser(user)
	if err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrUpdateEntity, err)
	}

	row, err := repo.db.NamedQueryContext(ctx, q, dbu)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	defer row.Close()

	if !row.Next() {
		return users.User{}, repoerr.ErrNotFound
	}

	dbu = dbUser{}
	if err := row.StructScan(&dbu); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return toUser(dbu)
}

func (repo *userRepo) retrieveOne(ctx context.Context, query string, params dbUser) (users.User, error) {
	rows, err := repo.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return users.User{}, repoerr.ErrNotFound
	}

	dbu := dbUser{}
	if err := rows.StructScan(&dbu); err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return toUser(dbu)
}

func pageQuery(pm users.Page) string {
	conditions := []string{}
	if pm.Status != users.AllStatus {
		conditions = append(conditions, "status = :status")
	}
	if pm.SalesforceID != "" {
		conditions = append(conditions, "salesforce_id = :salesforce_id")
	}

	if len(conditions) == 0 {
		return ""
	}

	query := "WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		query += " AND " + c
	}
	return query
}

type dbUser struct {
	ID                 string           `db:"id"`
	Login              string           `db:"login"`
	Email              string           `db:"email"`
	FirstName          string           `db:"first_name"`
	LastName           string           `db:"last_name"`
	Authorities        pgtype.TextArray `db:"authorities"`
	SalesforceID       string           `db:"salesforce_id"`
	ParentSalesforceID string           `db:"parent_salesforce_id"`
	MainContact        bool             `db:"main_contact"`
	ConsortiumLead     bool             `db:"consortium_lead"`
	CreatedBy          string           `db:"created_by"`
	CreatedAt          time.Time        `db:"created_at"`
	UpdatedBy          string           `db:"updated_by"`
	UpdatedAt          time.Time        `db:"updated_at"`
	Status             users.Status     `db:"status"`
}

func toDBUser(user users.User) (dbUser, error) {
	var authorities pgtype.TextArray
	if user.Authorities == nil {
		user.Authorities = []string{}
	}
	if err := authorities.Set(user.Authorities); err != nil {
		return dbUser{}, err
	}

	return dbUser{
		ID:                 user.ID,
		Login:              user.Login,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Authorities:        authorities,
		SalesforceID:       user.SalesforceID,
		ParentSalesforceID: user.ParentSalesforceID,
		MainContact:        user.MainContact,
		ConsortiumLead:     user.ConsortiumLead,
		CreatedBy:          user.CreatedBy,
		CreatedAt:          user.CreatedAt,
		UpdatedBy:          user.UpdatedBy,
		UpdatedAt:          user.UpdatedAt,
		Status:             user.Status,
	}, nil
}

func toUser(dbu dbUser) (users.User, error) {
	var authorities []string
	if err := dbu.Authorities.AssignTo(&authorities); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrFailedOpDB, err)
	}

	return users.User{
		ID:                 dbu.ID,
		Login:              dbu.Login,
		Email:              dbu.Email,
		FirstName:          dbu.FirstName,
		LastName:           dbu.LastName,
		Authorities:        authorities,
		SalesforceID:       dbu.SalesforceID,
		ParentSalesforceID: dbu.ParentSalesforceID,
		MainContact:        dbu.MainContact,
		ConsortiumLead:     dbu.ConsortiumLead,
		CreatedBy:          dbu.CreatedBy,
		CreatedAt:          dbu.CreatedAt,
		UpdatedBy:          dbu.UpdatedBy,
		UpdatedAt:          dbu.UpdatedAt,
		Status:             dbu.Status,
	}, nil
}
