// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/memberhub/memberhub/pkg/errors"
	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
)

// Field error messages reported to API clients.
const (
	msgLoginEmpty        = "Login should not be empty"
	msgEmailEmpty        = "Email should not be empty"
	msgSalesforceIDEmpty = "Salesforce Id should not be empty"
	msgLoginUsed         = "Login name already used!"
	msgEmailUsed         = "Email is already in use!"
	msgParentSameAsOwn   = "Parent salesforce id must differ from salesforce id"
)

var errUniquenessCheck = errors.New("failed to run uniqueness checks")

// ValidationResult carries per-field validation errors for a candidate
// user. It is returned by Validate and never attached to the candidate
// itself, so validation stays a pure read-only step.
type ValidationResult struct {
	LoginError              string `json:"login_error,omitempty"`
	EmailError              string `json:"email_error,omitempty"`
	SalesforceIDError       string `json:"salesforce_id_error,omitempty"`
	AuthoritiesError        string `json:"authorities_error,omitempty"`
	ParentSalesforceIDError string `json:"parent_salesforce_id_error,omitempty"`
}

// Ok reports whether the candidate passed validation. Any field error,
// blank-field or uniqueness alike, blocks the operation.
func (vr ValidationResult) Ok() bool {
	return vr == ValidationResult{}
}

// Message flattens all field errors into a single human-readable reason.
func (vr ValidationResult) Message() string {
	fields := []string{
		vr.LoginError,
		vr.EmailError,
		vr.SalesforceIDError,
		vr.AuthoritiesError,
		vr.ParentSalesforceIDError,
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			msgs = append(msgs, f)
		}
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a candidate user against blank-field rules and the
// login/email uniqueness invariants. Lookups go through the repository but
// nothing is ever written. Soft-deleted rows do not occupy a uniqueness
// slot, and on update a match against the candidate's own row is not a
// conflict. A non-nil error indicates an infrastructure failure, not a
// failed validation.
func Validate(ctx context.Context, repo Repository, candidate User) (ValidationResult, error) {
	vr := ValidationResult{}

	if strings.TrimSpace(candidate.Login) == "" {
		vr.LoginError = msgLoginEmpty
	}
	if strings.TrimSpace(candidate.Email) == "" {
		vr.EmailError = msgEmailEmpty
	}
	if strings.TrimSpace(candidate.SalesforceID) == "" {
		vr.SalesforceIDError = msgSalesforceIDEmpty
	}

	for _, a := range candidate.Authorities {
		if !validAuthority(a) {
			vr.AuthoritiesError = fmt.Sprintf("Invalid authority: %s", a)
			break
		}
	}

	if candidate.ParentSalesforceID != "" && candidate.ParentSalesforceID == candidate.SalesforceID {
		vr.ParentSalesforceIDError = msgParentSameAsOwn
	}

	if vr.LoginError == "" {
		existing, err := repo.RetrieveByLogin(ctx, strings.ToLower(candidate.Login))
		switch {
		case err == nil:
			if existing.Status != DeletedStatus && existing.ID != candidate.ID {
				vr.LoginError = msgLoginUsed
			}
		case !errors.Contains(err, repoerr.ErrNotFound):
			return ValidationResult{}, errors.Wrap(errUniquenessCheck, err)
		}
	}

	if vr.EmailError == "" {
		existing, err := repo.RetrieveByEmail(ctx, candidate.Email)
		switch {
		case err == nil:
			if existing.Status != DeletedStatus && existing.ID != candidate.ID {
				vr.EmailError = msgEmailUsed
			}
		case !errors.Contains(err, repoerr.ErrNotFound):
			return ValidationResult{}, errors.Wrap(errUniquenessCheck, err)
		}
	}

	return vr, nil
}

func validAuthority(authority string) bool {
	for _, a := range Authorities() {
		if a == authority {
			return true
		}
	}
	return false
}
