// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/memberhub/memberhub"
	"github.com/memberhub/memberhub/pkg/apiutil"
	"github.com/memberhub/memberhub/pkg/errors"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
	"github.com/memberhub/memberhub/users"
)

// Query parameter keys and defaults.
const (
	OffsetKey     = "offset"
	LimitKey      = "limit"
	StatusKey     = "status"
	SalesforceKey = "salesforce_id"

	DefOffset = 0
	DefLimit  = 10

	MaxLimitSize = 100

	// ContentType represents JSON content type.
	ContentType = "application/json"
)

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(memberhub.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	if errors.Contains(err, apiutil.ErrValidation) {
		_, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, svcerr.ErrAuthentication),
		errors.Contains(err, apiutil.ErrBearerToken):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Contains(err, svcerr.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Contains(err, svcerr.ErrConflict):
		w.WriteHeader(http.StatusConflict)
	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case errors.Contains(err, users.ErrMemberNotFound),
		errors.Contains(err, svcerr.ErrMalformedEntity),
		errors.Contains(err, svcerr.ErrInvalidStatus),
		errors.Contains(err, apiutil.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrIDPresent),
		errors.Contains(err, apiutil.ErrMissingAuthority),
		errors.Contains(err, apiutil.ErrMissingFile),
		errors.Contains(err, apiutil.ErrLimitSize),
		errors.Contains(err, apiutil.ErrInvalidQueryParams):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
