// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/memberhub/memberhub/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrBearerToken indicates missing or invalid bearer user token.
	ErrBearerToken = errors.New("missing or invalid bearer user token")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrIDPresent indicates that a new entity carries a client-supplied ID.
	ErrIDPresent = errors.New("a new entity cannot already have an id")

	// ErrMissingAuthority indicates missing authority name.
	ErrMissingAuthority = errors.New("missing authority name")

	// ErrMissingFile indicates a multipart request without the expected file part.
	ErrMissingFile = errors.New("missing file part in request")

	// ErrLimitSize indicates that an invalid limit.
	ErrLimitSize = errors.New("invalid limit size")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = errors.New("malformed entity specification")
)
