// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"io"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/users"
)

var _ users.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     users.Service
}

// MetricsMiddleware instruments users service by tracking request count and latency.
func MetricsMiddleware(svc users.Service, counter metrics.Counter, latency metrics.Histogram) users.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) CreateUser(ctx context.Context, session authn.Session, user users.User) (users.User, users.ValidationResult, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "create_user").Add(1)
		ms.latency.With("method", "create_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.CreateUser(ctx, session, user)
}

func (ms *metricsMiddleware) UpdateUser(ctx context.Context, session authn.Session, user users.User) (users.User, users.ValidationResult, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "update_user").Add(1)
		ms.latency.With("method", "update_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.UpdateUser(ctx, session, user)
}

func (ms *metricsMiddleware) ViewUser(ctx context.Context, idOrLogin string) (users.User, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "view_user").Add(1)
		ms.latency.With("method", "view_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.ViewUser(ctx, idOrLogin)
}

func (ms *metricsMiddleware) ListUsers(ctx context.Context, pm users.Page) (users.UsersPage, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_users").Add(1)
		ms.latency.With("method", "list_users").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.ListUsers(ctx, pm)
}

func (ms *metricsMiddleware) DeleteUser(ctx context.Context, session authn.Session, id string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "delete_user").Add(1)
		ms.latency.With("method", "delete_user").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.DeleteUser(ctx, session, id)
}

func (ms *metricsMiddleware) RemoveAuthority(ctx context.Context, session authn.Session, id, authority string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "remove_authority").Add(1)
		ms.latency.With("method", "remove_authority").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.RemoveAuthority(ctx, session, id, authority)
}

func (ms *metricsMiddleware) ProcessUpload(ctx context.Context, session authn.Session, r io.Reader) (users.BatchReport, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "process_upload").Add(1)
		ms.latency.With("method", "process_upload").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return ms.svc.ProcessUpload(ctx, session, r)
}
