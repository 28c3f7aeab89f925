// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/memberhub/memberhub/pkg/errors"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessUpload(t *testing.T) {
	f := newFixture(knownMember)

	csv := strings.Join([]string{
		"login,email,firstname,lastname,authorities,salesforceid",
		"alice,alice@example.com,Alice,Smith,ROLE_USER;MEMBER," + knownMember,
		"bob,bob@example.com,Bob,Jones,ROLE_USER," + knownMember,
		",missing@example.com,No,Login,ROLE_USER," + knownMember,
		"alice,alice2@example.com,Alice,Again,ROLE_USER," + knownMember,
		"carol,carol@example.com,Carol,King,ROLE_USER,SF-9999",
		"dave,dave@example.com,Dave,Hall,ROLE_USER," + knownMember,
	}, "\n")

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(csv))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 3, report.Created)
	require.Len(t, report.Outcomes, 6)

	assert.True(t, report.Outcomes[0].Ok(), "expected first row provisioned")
	assert.True(t, report.Outcomes[1].Ok(), "expected second row provisioned")
	assert.Contains(t, report.Outcomes[2].Error, "Login should not be empty")
	assert.Contains(t, report.Outcomes[3].Error, "Login name already used!")
	assert.Contains(t, report.Outcomes[4].Error, "member not found: SF-9999")
	assert.True(t, report.Outcomes[5].Ok(), "expected row after rejections to be provisioned")

	alice, err := f.repo.RetrieveByLogin(context.Background(), "alice")
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))
	assert.Equal(t, []string{"ROLE_USER", "MEMBER"}, alice.Authorities)
	assert.Equal(t, session.Login, alice.CreatedBy)
}

func TestProcessUploadMissingRequiredColumn(t *testing.T) {
	f := newFixture(knownMember)

	csv := strings.Join([]string{
		"login,firstname,lastname",
		"alice,Alice,Smith",
		"bob,Bob,Jones",
	}, "\n")

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(csv))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 0, report.Created)
	for _, outcome := range report.Outcomes {
		assert.Contains(t, outcome.Error, "missing required column(s)")
		assert.Contains(t, outcome.Error, "email")
		assert.Contains(t, outcome.Error, "salesforceid")
	}
}

func TestProcessUploadMalformedRow(t *testing.T) {
	f := newFixture(knownMember)

	csv := strings.Join([]string{
		"login,email,salesforceid",
		"alice,alice@example.com," + knownMember,
		`"broken,broken@example.com,` + knownMember,
	}, "\n")

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(csv))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Outcomes, 2)
	assert.Contains(t, report.Outcomes[1].Error, "parse error")
}

// faultyReader serves its payload and then fails every read with a
// permanent error, like a network stream cut mid-transfer.
type faultyReader struct {
	payload *strings.Reader
	err     error
}

func (fr *faultyReader) Read(p []byte) (int, error) {
	n, err := fr.payload.Read(p)
	if err == io.EOF {
		return n, fr.err
	}
	return n, err
}

func TestProcessUploadBrokenStream(t *testing.T) {
	f := newFixture(knownMember)

	r := &faultyReader{
		payload: strings.NewReader("login,email,salesforceid\nalice,alice@example.com," + knownMember + "\n"),
		err:     fmt.Errorf("unexpected network error"),
	}

	report, err := f.svc.ProcessUpload(context.Background(), session, r)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Outcomes, 2)
	assert.True(t, report.Outcomes[0].Ok(), "expected row before the failure provisioned")
	assert.Contains(t, report.Outcomes[1].Error, "parse error: unexpected network error")
}

func TestProcessUploadEmptyStream(t *testing.T) {
	f := newFixture(knownMember)

	_, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(""))
	assert.True(t, errors.Contains(err, svcerr.ErrMalformedEntity), fmt.Sprintf("expected malformed entity, got %s", err))
}

func TestProcessUploadHeaderOnly(t *testing.T) {
	f := newFixture(knownMember)

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader("login,email,salesforceid\n"))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 0, report.Total)
	assert.Empty(t, report.Outcomes)
}

func TestProcessUploadCanceledContext(t *testing.T) {
	f := newFixture(knownMember)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	csv := "login,email,salesforceid\nalice,alice@example.com," + knownMember + "\n"
	_, err := f.svc.ProcessUpload(ctx, session, strings.NewReader(csv))
	assert.Equal(t, context.Canceled, err)
}

func TestProcessUploadCaseInsensitiveHeader(t *testing.T) {
	f := newFixture(knownMember)

	csv := strings.Join([]string{
		"Login,Email,SalesforceId",
		"alice,alice@example.com," + knownMember,
	}, "\n")

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(csv))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 1, report.Created)
	assert.True(t, report.Outcomes[0].Ok(), "expected row provisioned")
}

func TestProcessUploadConflictWithExistingUser(t *testing.T) {
	f := newFixture(knownMember)

	_, _, err := f.svc.CreateUser(context.Background(), session, user)
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	csv := strings.Join([]string{
		"login,email,salesforceid",
		user.Login + ",fresh@example.com," + knownMember,
	}, "\n")

	report, err := f.svc.ProcessUpload(context.Background(), session, strings.NewReader(csv))
	require.Nil(t, err, fmt.Sprintf("unexpected error: %s", err))

	assert.Equal(t, 0, report.Created)
	assert.Contains(t, report.Outcomes[0].Error, "Login name already used!")
}
