// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains in-memory implementations of users service
// dependencies, used for testing.
package mocks

import (
	"context"
	"strings"
	"sync"

	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
	"github.com/memberhub/memberhub/users"
)

var _ users.Repository = (*userRepositoryMock)(nil)

type userRepositoryMock struct {
	mu    sync.Mutex
	byID  map[string]users.User
	order []string
}

// NewRepository creates an in-memory user repository. It enforces the same
// uniqueness rules as the relational store: saving a user whose folded login
// or email collides with a non-deleted row fails with ErrConflict.
func NewRepository() users.Repository {
	return &userRepositoryMock{
		byID: make(map[string]users.User),
	}
}

func (urm *userRepositoryMock) Save(ctx context.Context, user users.User) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	for _, u := range urm.byID {
		if u.Status == users.DeletedStatus {
			continue
		}
		if strings.EqualFold(u.Login, user.Login) || strings.EqualFold(u.Email, user.Email) {
			return users.User{}, repoerr.ErrConflict
		}
	}

	urm.byID[user.ID] = user
	urm.order = append(urm.order, user.ID)

	return user, nil
}

func (urm *userRepositoryMock) Update(ctx context.Context, user users.User) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	if _, ok := urm.byID[user.ID]; !ok {
		return users.User{}, repoerr.ErrNotFound
	}

	for id, u := range urm.byID {
		if id == user.ID || u.Status == users.DeletedStatus {
			continue
		}
		if strings.EqualFold(u.Login, user.Login) || strings.EqualFold(u.Email, user.Email) {
			return users.User{}, repoerr.ErrConflict
		}
	}

	urm.byID[user.ID] = user

	return user, nil
}

func (urm *userRepositoryMock) RetrieveByID(ctx context.Context, id string) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	u, ok := urm.byID[id]
	if !ok {
		return users.User{}, repoerr.ErrNotFound
	}

	return u, nil
}

// Like the relational store, lookups prefer the enabled row when a
// soft-deleted row shares the folded login or email.
func (urm *userRepositoryMock) RetrieveByLogin(ctx context.Context, login string) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	return urm.retrieveOne(func(u users.User) bool { return strings.EqualFold(u.Login, login) })
}

func (urm *userRepositoryMock) RetrieveByEmail(ctx context.Context, email string) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	return urm.retrieveOne(func(u users.User) bool { return strings.EqualFold(u.Email, email) })
}

func (urm *userRepositoryMock) retrieveOne(match func(users.User) bool) (users.User, error) {
	var deleted users.User
	found := false
	for _, id := range urm.order {
		u := urm.byID[id]
		if !match(u) {
			continue
		}
		if u.Status != users.DeletedStatus {
			return u, nil
		}
		if !found {
			deleted = u
			found = true
		}
	}

	if found {
		return deleted, nil
	}

	return users.User{}, repoerr.ErrNotFound
}

func (urm *userRepositoryMock) RetrieveAll(ctx context.Context, pm users.Page) (users.UsersPage, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	var matched []users.User
	for _, id := range urm.order {
		u := urm.byID[id]
		if pm.Status != users.AllStatus && u.Status != pm.Status {
			continue
		}
		if pm.SalesforceID != "" && u.SalesforceID != pm.SalesforceID {
			continue
		}
		matched = append(matched, u)
	}

	page := users.UsersPage{
		Page: users.Page{
			Total:        uint64(len(matched)),
			Offset:       pm.Offset,
			Limit:        pm.Limit,
			SalesforceID: pm.SalesforceID,
			Status:       pm.Status,
		},
	}

	first := pm.Offset
	if first > uint64(len(matched)) {
		return page, nil
	}
	last := first + pm.Limit
	if last > uint64(len(matched)) {
		last = uint64(len(matched))
	}
	page.Users = matched[first:last]

	return page, nil
}

func (urm *userRepositoryMock) RemoveAuthority(ctx context.Context, id, authority string) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	u, ok := urm.byID[id]
	if !ok {
		return users.User{}, repoerr.ErrNotFound
	}

	kept := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		if a != authority {
			kept = append(kept, a)
		}
	}
	u.Authorities = kept
	urm.byID[id] = u

	return u, nil
}

func (urm *userRepositoryMock) ChangeStatus(ctx context.Context, user users.User) (users.User, error) {
	urm.mu.Lock()
	defer urm.mu.Unlock()

	u, ok := urm.byID[user.ID]
	if !ok {
		return users.User{}, repoerr.ErrNotFound
	}

	u.Status = user.Status
	u.UpdatedBy = user.UpdatedBy
	u.UpdatedAt = user.UpdatedAt
	urm.byID[user.ID] = u

	return u, nil
}
