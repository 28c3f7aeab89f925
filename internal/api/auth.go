// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"

	"github.com/memberhub/memberhub/pkg/apiutil"
	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/pkg/errors"
)

type sessionKeyType string

// SessionKey is the request context key under which the actor session is stored.
const SessionKey = sessionKeyType("session")

// AuthenticateMiddleware resolves the acting user from the bearer token and
// stores the session in the request context. The core service never
// inspects tokens or caller roles itself.
func AuthenticateMiddleware(authenticator authn.Authentication) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := apiutil.ExtractBearerToken(r)
			if token == "" {
				EncodeError(r.Context(), apiutil.ErrBearerToken, w)
				return
			}

			session, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				EncodeError(r.Context(), errors.Wrap(apiutil.ErrBearerToken, err), w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the actor session stored by AuthenticateMiddleware.
func SessionFromContext(ctx context.Context) (authn.Session, bool) {
	session, ok := ctx.Value(SessionKey).(authn.Session)
	return session, ok
}
