// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"

	"github.com/memberhub/memberhub"
	"github.com/memberhub/memberhub/users"
)

var (
	_ memberhub.Response = (*userRes)(nil)
	_ memberhub.Response = (*fieldErrorsRes)(nil)
	_ memberhub.Response = (*usersPageRes)(nil)
	_ memberhub.Response = (*authoritiesRes)(nil)
	_ memberhub.Response = (*deleteUserRes)(nil)
	_ memberhub.Response = (*removeAuthorityRes)(nil)
	_ memberhub.Response = (*uploadRes)(nil)
)

type userRes struct {
	users.User
	created bool
}

func (res userRes) Code() int {
	if res.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (res userRes) Headers() map[string]string {
	if res.created {
		return map[string]string{
			"Location": fmt.Sprintf("/users/%s", res.Login),
		}
	}
	return map[string]string{}
}

func (res userRes) Empty() bool {
	return false
}

// fieldErrorsRes reports the per-field validation errors of a rejected
// candidate back to the caller.
type fieldErrorsRes struct {
	users.ValidationResult
}

func (res fieldErrorsRes) Code() int {
	return http.StatusBadRequest
}

func (res fieldErrorsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res fieldErrorsRes) Empty() bool {
	return false
}

type usersPageRes struct {
	users.UsersPage
}

func (res usersPageRes) Code() int {
	return http.StatusOK
}

func (res usersPageRes) Headers() map[string]string {
	return map[string]string{}
}

func (res usersPageRes) Empty() bool {
	return false
}

type authoritiesRes struct {
	Authorities []string `json:"authorities"`
}

func (res authoritiesRes) Code() int {
	return http.StatusOK
}

func (res authoritiesRes) Headers() map[string]string {
	return map[string]string{}
}

func (res authoritiesRes) Empty() bool {
	return false
}

type deleteUserRes struct{}

func (res deleteUserRes) Code() int {
	return http.StatusNoContent
}

func (res deleteUserRes) Headers() map[string]string {
	return map[string]string{}
}

func (res deleteUserRes) Empty() bool {
	return true
}

type removeAuthorityRes struct{}

func (res removeAuthorityRes) Code() int {
	return http.StatusAccepted
}

func (res removeAuthorityRes) Headers() map[string]string {
	return map[string]string{}
}

func (res removeAuthorityRes) Empty() bool {
	return true
}

type uploadRes struct {
	users.BatchReport
}

func (res uploadRes) Code() int {
	return http.StatusOK
}

func (res uploadRes) Headers() map[string]string {
	return map[string]string{}
}

func (res uploadRes) Empty() bool {
	return false
}
