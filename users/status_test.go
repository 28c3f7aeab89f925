// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users_test

import (
	"fmt"
	"testing"

	"github.com/memberhub/memberhub/pkg/errors"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
	"github.com/memberhub/memberhub/users"
	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	cases := []struct {
		desc     string
		status   users.Status
		expected string
	}{
		{"enabled", users.EnabledStatus, "enabled"},
		{"deleted", users.DeletedStatus, "deleted"},
		{"all", users.AllStatus, "all"},
		{"unknown", users.Status(100), "unknown"},
	}

	for _, tc := range cases {
		got := tc.status.String()
		assert.Equal(t, tc.expected, got, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.expected, got))
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		desc     string
		status   string
		expected users.Status
		err      error
	}{
		{"enabled", "enabled", users.EnabledStatus, nil},
		{"deleted", "deleted", users.DeletedStatus, nil},
		{"all", "all", users.AllStatus, nil},
		{"empty defaults to enabled", "", users.EnabledStatus, nil},
		{"unknown", "unknown", users.Status(0), svcerr.ErrInvalidStatus},
	}

	for _, tc := range cases {
		got, err := users.ToStatus(tc.status)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
		assert.Equal(t, tc.expected, got, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.expected, got))
	}
}

func TestStatusMarshalJSON(t *testing.T) {
	cases := []struct {
		desc     string
		status   users.Status
		expected []byte
	}{
		{"enabled", users.EnabledStatus, []byte(`"enabled"`)},
		{"deleted", users.DeletedStatus, []byte(`"deleted"`)},
	}

	for _, tc := range cases {
		got, err := tc.status.MarshalJSON()
		assert.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
		assert.Equal(t, tc.expected, got, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.expected, got))
	}
}

func TestStatusUnmarshalJSON(t *testing.T) {
	cases := []struct {
		desc     string
		data     []byte
		expected users.Status
		err      error
	}{
		{"enabled", []byte(`"enabled"`), users.EnabledStatus, nil},
		{"deleted", []byte(`"deleted"`), users.DeletedStatus, nil},
		{"invalid", []byte(`"nope"`), users.Status(0), svcerr.ErrInvalidStatus},
	}

	for _, tc := range cases {
		var s users.Status
		err := s.UnmarshalJSON(tc.data)
		assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
		assert.Equal(t, tc.expected, s, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.expected, s))
	}
}
