// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/users"
)

var _ users.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    users.Service
}

// LoggingMiddleware adds logging facilities to the users service.
func LoggingMiddleware(svc users.Service, logger *slog.Logger) users.Service {
	return &loggingMiddleware{logger, svc}
}

// CreateUser logs the create_user request. It logs the user login and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) CreateUser(ctx context.Context, session authn.Session, user users.User) (u users.User, vr users.ValidationResult, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("user",
				slog.String("login", user.Login),
				slog.String("salesforce_id", user.SalesforceID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create user failed", args...)
			return
		}
		lm.logger.Info("Create user completed successfully", args...)
	}(time.Now())
	return lm.svc.CreateUser(ctx, session, user)
}

// UpdateUser logs the update_user request. It logs the user id and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) UpdateUser(ctx context.Context, session authn.Session, user users.User) (u users.User, vr users.ValidationResult, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("user",
				slog.String("id", user.ID),
				slog.String("login", user.Login),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Update user failed", args...)
			return
		}
		lm.logger.Info("Update user completed successfully", args...)
	}(time.Now())
	return lm.svc.UpdateUser(ctx, session, user)
}

// ViewUser logs the view_user request. It logs the requested id or login and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) ViewUser(ctx context.Context, idOrLogin string) (u users.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("id_or_login", idOrLogin),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View user failed", args...)
			return
		}
		lm.logger.Info("View user completed successfully", args...)
	}(time.Now())
	return lm.svc.ViewUser(ctx, idOrLogin)
}

// ListUsers logs the list_users request. It logs the page metadata and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) ListUsers(ctx context.Context, pm users.Page) (up users.UsersPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("page",
				slog.Uint64("offset", pm.Offset),
				slog.Uint64("limit", pm.Limit),
				slog.String("salesforce_id", pm.SalesforceID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List users failed", args...)
			return
		}
		lm.logger.Info("List users completed successfully", args...)
	}(time.Now())
	return lm.svc.ListUsers(ctx, pm)
}

// DeleteUser logs the delete_user request. It logs the user id and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) DeleteUser(ctx context.Context, session authn.Session, id string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete user failed", args...)
			return
		}
		lm.logger.Info("Delete user completed successfully", args...)
	}(time.Now())
	return lm.svc.DeleteUser(ctx, session, id)
}

// RemoveAuthority logs the remove_authority request. It logs the user id, the authority and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) RemoveAuthority(ctx context.Context, session authn.Session, id, authority string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", id),
			slog.String("authority", authority),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Remove authority failed", args...)
			return
		}
		lm.logger.Info("Remove authority completed successfully", args...)
	}(time.Now())
	return lm.svc.RemoveAuthority(ctx, session, id, authority)
}

// ProcessUpload logs the process_upload request. It logs the batch totals and the time it took to complete the request.
// If the request fails, it logs the error.
func (lm *loggingMiddleware) ProcessUpload(ctx context.Context, session authn.Session, r io.Reader) (report users.BatchReport, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("report",
				slog.Int("total", report.Total),
				slog.Int("created", report.Created),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Process upload failed", args...)
			return
		}
		lm.logger.Info("Process upload completed successfully", args...)
	}(time.Now())
	return lm.svc.ProcessUpload(ctx, session, r)
}
