// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	mhlog "github.com/memberhub/memberhub/logger"
	"github.com/memberhub/memberhub/pkg/authn"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
	"github.com/memberhub/memberhub/pkg/uuid"
	"github.com/memberhub/memberhub/users"
	"github.com/memberhub/memberhub/users/api"
	"github.com/memberhub/memberhub/users/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "application/json"
	validToken  = "valid-token"
	knownMember = "SF-1001"
)

type authnMock struct{}

func (a authnMock) Authenticate(_ context.Context, token string) (authn.Session, error) {
	if token != validToken {
		return authn.Session{}, svcerr.ErrAuthentication
	}
	return authn.Session{UserID: "admin-id", Login: "admin"}, nil
}

type testRequest struct {
	client      *http.Client
	method      string
	url         string
	contentType string
	token       string
	body        io.Reader
}

func (tr testRequest) make() (*http.Response, error) {
	req, err := http.NewRequest(tr.method, tr.url, tr.body)
	if err != nil {
		return nil, err
	}
	if tr.token != "" {
		req.Header.Set("Authorization", "Bearer "+tr.token)
	}
	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}

	return tr.client.Do(req)
}

func newServer() *httptest.Server {
	logger, _ := mhlog.New(os.Stdout, "info")

	repo := mocks.NewRepository()
	svc := users.NewService(repo, mocks.NewDirectory(knownMember), mocks.NewEmailer(), uuid.NewMock(), logger)

	return httptest.NewServer(api.MakeHandler(svc, authnMock{}, logger, "test-instance"))
}

func toJSON(t *testing.T, data interface{}) string {
	js, err := json.Marshal(data)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	return string(js)
}

func TestCreateUserEndpoint(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	valid := toJSON(t, users.User{
		Login:        "jdoe",
		Email:        "jdoe@example.com",
		SalesforceID: knownMember,
	})
	duplicate := toJSON(t, users.User{
		Login:        "jdoe",
		Email:        "fresh@example.com",
		SalesforceID: knownMember,
	})
	unknownMember := toJSON(t, users.User{
		Login:        "ghost",
		Email:        "ghost@example.com",
		SalesforceID: "SF-9999",
	})

	cases := []struct {
		desc        string
		body        string
		contentType string
		token       string
		status      int
	}{
		{
			desc:        "create valid user",
			body:        valid,
			contentType: contentType,
			token:       validToken,
			status:      http.StatusCreated,
		},
		{
			desc:        "create user with duplicate login",
			body:        duplicate,
			contentType: contentType,
			token:       validToken,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "create user with unknown member",
			body:        unknownMember,
			contentType: contentType,
			token:       validToken,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "create user with invalid token",
			body:        valid,
			contentType: contentType,
			token:       "wrong",
			status:      http.StatusUnauthorized,
		},
		{
			desc:        "create user with missing content type",
			body:        valid,
			contentType: "text/plain",
			token:       validToken,
			status:      http.StatusUnsupportedMediaType,
		},
		{
			desc:        "create user with malformed body",
			body:        "{",
			contentType: contentType,
			token:       validToken,
			status:      http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		res, err := testRequest{
			client:      ts.Client(),
			method:      http.MethodPost,
			url:         ts.URL + "/users",
			contentType: tc.contentType,
			token:       tc.token,
			body:        strings.NewReader(tc.body),
		}.make()
		require.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
		assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected status %d got %d", tc.desc, tc.status, res.StatusCode))
		res.Body.Close()
	}
}

func TestCreateUserFieldErrors(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	body := toJSON(t, users.User{SalesforceID: knownMember})
	res, err := testRequest{
		client:      ts.Client(),
		method:      http.MethodPost,
		url:         ts.URL + "/users",
		contentType: contentType,
		token:       validToken,
		body:        strings.NewReader(body),
	}.make()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer res.Body.Close()

	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var vr users.ValidationResult
	err = json.NewDecoder(res.Body).Decode(&vr)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, "Login should not be empty", vr.LoginError)
	assert.Equal(t, "Email should not be empty", vr.EmailError)
}

func TestViewUserEndpoint(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	body := toJSON(t, users.User{
		Login:        "viewme",
		Email:        "viewme@example.com",
		SalesforceID: knownMember,
	})
	res, err := testRequest{
		client:      ts.Client(),
		method:      http.MethodPost,
		url:         ts.URL + "/users",
		contentType: contentType,
		token:       validToken,
		body:        strings.NewReader(body),
	}.make()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	var created users.User
	err = json.NewDecoder(res.Body).Decode(&created)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	res.Body.Close()

	cases := []struct {
		desc      string
		idOrLogin string
		token     string
		status    int
	}{
		{
			desc:      "view user by id",
			idOrLogin: created.ID,
			token:     validToken,
			status:    http.StatusOK,
		},
		{
			desc:      "view user by login",
			idOrLogin: "viewme",
			token:     validToken,
			status:    http.StatusOK,
		},
		{
			desc:      "view non-existing user",
			idOrLogin: "ghost",
			token:     validToken,
			status:    http.StatusNotFound,
		},
		{
			desc:      "view user with invalid token",
			idOrLogin: created.ID,
			token:     "wrong",
			status:    http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		res, err := testRequest{
			client: ts.Client(),
			method: http.MethodGet,
			url:    ts.URL + "/users/" + tc.idOrLogin,
			token:  tc.token,
		}.make()
		require.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
		assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected status %d got %d", tc.desc, tc.status, res.StatusCode))
		res.Body.Close()
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	body := toJSON(t, users.User{
		Login:        "removeme",
		Email:        "removeme@example.com",
		SalesforceID: knownMember,
	})
	res, err := testRequest{
		client:      ts.Client(),
		method:      http.MethodPost,
		url:         ts.URL + "/users",
		contentType: contentType,
		token:       validToken,
		body:        strings.NewReader(body),
	}.make()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	var created users.User
	err = json.NewDecoder(res.Body).Decode(&created)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	res.Body.Close()

	cases := []struct {
		desc   string
		id     string
		status int
	}{
		{
			desc:   "delete existing user",
			id:     created.ID,
			status: http.StatusNoContent,
		},
		{
			desc:   "delete already deleted user",
			id:     created.ID,
			status: http.StatusNoContent,
		},
		{
			desc:   "delete non-existing user",
			id:     "unknown-id",
			status: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		res, err := testRequest{
			client: ts.Client(),
			method: http.MethodDelete,
			url:    ts.URL + "/users/" + tc.id,
			token:  validToken,
		}.make()
		require.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
		assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected status %d got %d", tc.desc, tc.status, res.StatusCode))
		res.Body.Close()
	}
}

func TestListAuthoritiesEndpoint(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	res, err := testRequest{
		client: ts.Client(),
		method: http.MethodGet,
		url:    ts.URL + "/users/authorities",
		token:  validToken,
	}.make()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Authorities []string `json:"authorities"`
	}
	err = json.NewDecoder(res.Body).Decode(&body)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, users.Authorities(), body.Authorities)
}

func TestUploadEndpoint(t *testing.T) {
	ts := newServer()
	defer ts.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "users.csv")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	_, err = fw.Write([]byte("login,email,salesforceid\nalice,alice@example.com," + knownMember + "\n,blank@example.com," + knownMember + "\n"))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	require.Nil(t, mw.Close(), "unexpected error closing multipart writer")

	res, err := testRequest{
		client:      ts.Client(),
		method:      http.MethodPost,
		url:         ts.URL + "/users/upload",
		contentType: mw.FormDataContentType(),
		token:       validToken,
		body:        &buf,
	}.make()
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var report users.BatchReport
	err = json.NewDecoder(res.Body).Decode(&report)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Created)
}
