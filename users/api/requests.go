// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"io"

	"github.com/memberhub/memberhub/internal/api"
	"github.com/memberhub/memberhub/pkg/apiutil"
	"github.com/memberhub/memberhub/users"
)

type createUserReq struct {
	user users.User
}

func (req createUserReq) validate() error {
	if req.user.ID != "" {
		return apiutil.ErrIDPresent
	}
	return nil
}

type updateUserReq struct {
	user users.User
}

func (req updateUserReq) validate() error {
	if req.user.ID == "" {
		return apiutil.ErrMissingID
	}
	return nil
}

type viewUserReq struct {
	idOrLogin string
}

func (req viewUserReq) validate() error {
	if req.idOrLogin == "" {
		return apiutil.ErrMissingID
	}
	return nil
}

type listUsersReq struct {
	page users.Page
}

func (req listUsersReq) validate() error {
	if req.page.Limit > api.MaxLimitSize || req.page.Limit < 1 {
		return apiutil.ErrLimitSize
	}
	return nil
}

type deleteUserReq struct {
	id string
}

func (req deleteUserReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}
	return nil
}

type removeAuthorityReq struct {
	id        string
	authority string
}

func (req removeAuthorityReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}
	if req.authority == "" {
		return apiutil.ErrMissingAuthority
	}
	return nil
}

type uploadReq struct {
	file io.Reader
}

func (req uploadReq) validate() error {
	if req.file == nil {
		return apiutil.ErrMissingFile
	}
	return nil
}
