// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/memberhub/memberhub"
	"github.com/memberhub/memberhub/members"
	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/pkg/errors"
	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
)

var (
	// ErrValidation indicates that the candidate user failed field
	// validation. The accompanying ValidationResult carries the details.
	ErrValidation = errors.New("user validation failed")

	// ErrMemberNotFound indicates that the referenced salesforce id does
	// not exist in the member directory.
	ErrMemberNotFound = errors.New("member not found")

	errMemberLookup = errors.New("failed to verify member existence")
)

var _ Service = (*service)(nil)

type service struct {
	users      Repository
	directory  members.Directory
	email      Emailer
	idProvider memberhub.IDProvider
	logger     *slog.Logger
}

// NewService returns a new users service implementation.
func NewService(repo Repository, directory members.Directory, emailer Emailer, idp memberhub.IDProvider, logger *slog.Logger) Service {
	return service{
		users:      repo,
		directory:  directory,
		email:      emailer,
		idProvider: idp,
		logger:     logger,
	}
}

func (svc service) CreateUser(ctx context.Context, session authn.Session, user User) (User, ValidationResult, error) {
	vr, err := Validate(ctx, svc.users, user)
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	if !vr.Ok() {
		return User{}, vr, ErrValidation
	}

	exists, err := svc.directory.Exists(ctx, user.SalesforceID)
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(errMemberLookup, err)
	}
	if !exists {
		return User{}, ValidationResult{}, errors.Wrap(ErrMemberNotFound, errors.New(user.SalesforceID))
	}

	id, err := svc.idProvider.ID()
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrUniqueID, err)
	}

	now := time.Now()
	user.ID = id
	user.Login = strings.ToLower(user.Login)
	user.Status = EnabledStatus
	user.CreatedBy = session.Login
	user.CreatedAt = now
	user.UpdatedBy = session.Login
	user.UpdatedAt = now

	saved, err := svc.users.Save(ctx, user)
	if err != nil {
		// The unique indexes are the final authority: a concurrent write
		// that slipped past validation surfaces here as a conflict.
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}

	// Welcome email failures must not undo an already persisted account.
	if err := svc.email.SendWelcome([]string{saved.Email}, saved.Login); err != nil {
		svc.logger.Warn("Failed to send welcome email", slog.String("login", saved.Login), slog.Any("error", err))
	}

	return saved, ValidationResult{}, nil
}

func (svc service) UpdateUser(ctx context.Context, session authn.Session, user User) (User, ValidationResult, error) {
	existing, err := svc.users.RetrieveByID(ctx, user.ID)
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	if existing.Status == DeletedStatus {
		return User{}, ValidationResult{}, svcerr.ErrNotFound
	}

	vr, err := Validate(ctx, svc.users, user)
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	if !vr.Ok() {
		return User{}, vr, ErrValidation
	}

	existing.Login = strings.ToLower(user.Login)
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Authorities = user.Authorities
	existing.SalesforceID = user.SalesforceID
	existing.ParentSalesforceID = user.ParentSalesforceID
	existing.MainContact = user.MainContact
	existing.ConsortiumLead = user.ConsortiumLead
	existing.UpdatedBy = session.Login
	existing.UpdatedAt = time.Now()

	updated, err := svc.users.Update(ctx, existing)
	if err != nil {
		return User{}, ValidationResult{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return updated, ValidationResult{}, nil
}

func (svc service) ViewUser(ctx context.Context, idOrLogin string) (User, error) {
	user, err := svc.users.RetrieveByID(ctx, idOrLogin)
	if err == nil {
		return user, nil
	}
	if !errors.Contains(err, repoerr.ErrNotFound) {
		return User{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	user, err = svc.users.RetrieveByLogin(ctx, strings.ToLower(idOrLogin))
	if err != nil {
		return User{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return user, nil
}

func (svc service) ListUsers(ctx context.Context, pm Page) (UsersPage, error) {
	page, err := svc.users.RetrieveAll(ctx, pm)
	if err != nil {
		return UsersPage{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return page, nil
}

func (svc service) DeleteUser(ctx context.Context, session authn.Session, id string) error {
	user, err := svc.users.RetrieveByID(ctx, id)
	if err != nil {
		return errors.Wrap(svcerr.ErrRemoveEntity, err)
	}
	if user.Status == DeletedStatus {
		return nil
	}

	user.Status = DeletedStatus
	user.UpdatedBy = session.Login
	user.UpdatedAt = time.Now()

	if _, err := svc.users.ChangeStatus(ctx, user); err != nil {
		return errors.Wrap(svcerr.ErrRemoveEntity, err)
	}

	return nil
}

func (svc service) RemoveAuthority(ctx context.Context, session authn.Session, id, authority string) error {
	if _, err := svc.users.RemoveAuthority(ctx, id, authority); err != nil {
		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return nil
}
