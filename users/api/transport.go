// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/memberhub/memberhub"
	"github.com/memberhub/memberhub/internal/api"
	"github.com/memberhub/memberhub/pkg/apiutil"
	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/pkg/errors"
	"github.com/memberhub/memberhub/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxUploadSize bounds the in-memory part of a CSV upload (8 MiB).
const maxUploadSize = 8 << 20

// MakeHandler returns a HTTP handler for users API endpoints.
func MakeHandler(svc users.Service, authenticator authn.Authentication, logger *slog.Logger, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	r := chi.NewRouter()

	r.Route("/users", func(r chi.Router) {
		r.Use(api.AuthenticateMiddleware(authenticator))

		r.Post("/", kithttp.NewServer(
			createUserEndpoint(svc),
			decodeCreateUserReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Put("/", kithttp.NewServer(
			updateUserEndpoint(svc),
			decodeUpdateUserReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/", kithttp.NewServer(
			listUsersEndpoint(svc),
			decodeListUsersReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/upload", kithttp.NewServer(
			uploadEndpoint(svc),
			decodeUploadReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/authorities", kithttp.NewServer(
			listAuthoritiesEndpoint(),
			decodeNothing,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/salesforce/{salesforceID}", kithttp.NewServer(
			listUsersEndpoint(svc),
			decodeListBySalesforceReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/{idOrLogin}", kithttp.NewServer(
			viewUserEndpoint(svc),
			decodeViewUserReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Delete("/{id}", kithttp.NewServer(
			deleteUserEndpoint(svc),
			decodeDeleteUserReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Delete("/{id}/{authority}", kithttp.NewServer(
			removeAuthorityEndpoint(svc),
			decodeRemoveAuthorityReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)
	})

	r.Get("/health", memberhub.Version(instanceID))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeCreateUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var user users.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(apiutil.ErrMalformedEntity, err))
	}

	return createUserReq{user: user}, nil
}

func decodeUpdateUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var user users.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(apiutil.ErrMalformedEntity, err))
	}

	return updateUserReq{user: user}, nil
}

func decodeViewUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	return viewUserReq{idOrLogin: chi.URLParam(r, "idOrLogin")}, nil
}

func decodeListUsersReq(_ context.Context, r *http.Request) (interface{}, error) {
	page, err := decodePageQuery(r)
	if err != nil {
		return nil, err
	}

	return listUsersReq{page: page}, nil
}

func decodeListBySalesforceReq(_ context.Context, r *http.Request) (interface{}, error) {
	page, err := decodePageQuery(r)
	if err != nil {
		return nil, err
	}
	page.SalesforceID = chi.URLParam(r, "salesforceID")

	return listUsersReq{page: page}, nil
}

func decodePageQuery(r *http.Request) (users.Page, error) {
	offset, err := apiutil.ReadNumQuery(r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return users.Page{}, errors.Wrap(apiutil.ErrValidation, err)
	}
	limit, err := apiutil.ReadNumQuery(r, api.LimitKey, api.DefLimit)
	if err != nil {
		return users.Page{}, errors.Wrap(apiutil.ErrValidation, err)
	}
	status, err := apiutil.ReadStringQuery(r, api.StatusKey, users.Enabled)
	if err != nil {
		return users.Page{}, errors.Wrap(apiutil.ErrValidation, err)
	}
	st, err := users.ToStatus(status)
	if err != nil {
		return users.Page{}, errors.Wrap(apiutil.ErrValidation, err)
	}

	return users.Page{
		Offset: offset,
		Limit:  limit,
		Status: st,
	}, nil
}

func decodeDeleteUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	return deleteUserReq{id: chi.URLParam(r, "id")}, nil
}

func decodeRemoveAuthorityReq(_ context.Context, r *http.Request) (interface{}, error) {
	return removeAuthorityReq{
		id:        chi.URLParam(r, "id"),
		authority: chi.URLParam(r, "authority"),
	}, nil
}

func decodeUploadReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(apiutil.ErrMalformedEntity, err))
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingFile)
	}

	return uploadReq{file: file}, nil
}

func decodeNothing(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}
