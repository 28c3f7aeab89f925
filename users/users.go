// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

// Package users contains the user management domain: account entities,
// uniqueness validation, single-record upserts and bulk CSV provisioning.
package users

import (
	"context"
	"io"
	"time"

	"github.com/memberhub/memberhub/pkg/authn"
)

// Authorities that can be granted to a user.
const (
	AdminAuthority          = "ROLE_ADMIN"
	UserAuthority           = "ROLE_USER"
	MemberAuthority         = "MEMBER"
	ConsortiumLeadAuthority = "CONSORTIUM_LEAD"
)

// Authorities returns all assignable authority names.
func Authorities() []string {
	return []string{AdminAuthority, UserAuthority, MemberAuthority, ConsortiumLeadAuthority}
}

// User represents a platform user account tied to an external member
// organization. ID is assigned on creation and immutable afterwards.
type User struct {
	ID                 string    `json:"id"`
	Login              string    `json:"login"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name,omitempty"`
	LastName           string    `json:"last_name,omitempty"`
	Authorities        []string  `json:"authorities,omitempty"`
	SalesforceID       string    `json:"salesforce_id"`
	ParentSalesforceID string    `json:"parent_salesforce_id,omitempty"`
	MainContact        bool      `json:"main_contact,omitempty"`
	ConsortiumLead     bool      `json:"consortium_lead,omitempty"`
	CreatedBy          string    `json:"created_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedBy          string    `json:"updated_by,omitempty"`
	UpdatedAt          time.Time `json:"updated_at,omitempty"`
	Status             Status    `json:"status"`
}

// HasAuthority checks whether the given authority is granted to the user.
func (u User) HasAuthority(authority string) bool {
	for _, a := range u.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// Page contains page metadata that helps navigation.
type Page struct {
	Total        uint64 `json:"total"`
	Offset       uint64 `json:"offset"`
	Limit        uint64 `json:"limit"`
	SalesforceID string `json:"salesforce_id,omitempty"`
	Status       Status `json:"status,omitempty"`
}

// UsersPage contains a page of users.
type UsersPage struct {
	Page
	Users []User
}

// Repository specifies user account persistence.
//
// Lookups by login and email are case-insensitive. When several rows share
// a folded login or email (a soft-deleted row and its active successor)
// the enabled row is returned, so uniqueness checks always see the active
// holder. The users table carries partial unique indexes on the folded
// login and email so the store remains the final authority on uniqueness.
type Repository interface {
	// Save persists a new user. The database unique constraints turn a
	// duplicate login or email into ErrConflict.
	Save(ctx context.Context, user User) (User, error)

	// Update overwrites the mutable fields of an existing user.
	Update(ctx context.Context, user User) (User, error)

	// RetrieveByID retrieves a user by its unique identifier, including
	// soft-deleted users.
	RetrieveByID(ctx context.Context, id string) (User, error)

	// RetrieveByLogin retrieves a user by login, folding case.
	RetrieveByLogin(ctx context.Context, login string) (User, error)

	// RetrieveByEmail retrieves a user by email, folding case.
	RetrieveByEmail(ctx context.Context, email string) (User, error)

	// RetrieveAll retrieves a page of users matching the page filters.
	RetrieveAll(ctx context.Context, pm Page) (UsersPage, error)

	// RemoveAuthority removes a single authority from the user. Removing
	// an authority the user does not hold is a no-op.
	RemoveAuthority(ctx context.Context, id, authority string) (User, error)

	// ChangeStatus updates the user status together with the audit stamp.
	ChangeStatus(ctx context.Context, user User) (User, error)
}

// Service specifies an API that must be fullfiled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// CreateUser validates the candidate, confirms the referenced member
	// exists, assigns an identity, stamps audit fields and persists the
	// account. A non-empty ValidationResult reports per-field errors.
	CreateUser(ctx context.Context, session authn.Session, user User) (User, ValidationResult, error)

	// UpdateUser overwrites the mutable fields of an existing account,
	// preserving identity and creation audit fields.
	UpdateUser(ctx context.Context, session authn.Session, user User) (User, ValidationResult, error)

	// ViewUser retrieves a user by ID, falling back to login lookup.
	ViewUser(ctx context.Context, idOrLogin string) (User, error)

	// ListUsers retrieves a page of users matching the page filters.
	ListUsers(ctx context.Context, pm Page) (UsersPage, error)

	// DeleteUser soft-deletes the account. Deleting an already deleted
	// account is a no-op.
	DeleteUser(ctx context.Context, session authn.Session, id string) error

	// RemoveAuthority removes a single authority from the account without
	// touching any other field.
	RemoveAuthority(ctx context.Context, session authn.Session, id, authority string) error

	// ProcessUpload provisions users from a CSV stream, one row at a time.
	// Row failures are recorded in the report and never abort the batch.
	ProcessUpload(ctx context.Context, session authn.Session, r io.Reader) (BatchReport, error)
}
