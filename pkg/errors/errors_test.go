// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	"errors"
	"fmt"
	"testing"

	mherrors "github.com/memberhub/memberhub/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var (
	err0 = mherrors.New("0")
	err1 = mherrors.New("1")
	err2 = mherrors.New("2")
)

func TestError(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		msg  string
	}{
		{
			desc: "plain error",
			err:  err0,
			msg:  "0",
		},
		{
			desc: "wrapped error",
			err:  mherrors.Wrap(err1, err0),
			msg:  "1 : 0",
		},
		{
			desc: "doubly wrapped error",
			err:  mherrors.Wrap(err2, mherrors.Wrap(err1, err0)),
			msg:  "2 : 1 : 0",
		},
	}

	for _, tc := range cases {
		errMsg := tc.err.Error()
		assert.Equal(t, tc.msg, errMsg, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, errMsg))
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "nil contains nil",
			container: nil,
			contained: nil,
			contains:  true,
		},
		{
			desc:      "nil contains non-nil",
			container: nil,
			contained: err0,
			contains:  false,
		},
		{
			desc:      "non-nil contains nil",
			container: err0,
			contained: nil,
			contains:  false,
		},
		{
			desc:      "unrelated errors",
			container: err0,
			contained: err1,
			contains:  false,
		},
		{
			desc:      "wrapped error contains the wrapped",
			container: mherrors.Wrap(err1, err0),
			contained: err0,
			contains:  true,
		},
		{
			desc:      "wrapped error contains the wrapper",
			container: mherrors.Wrap(err1, err0),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "doubly wrapped error contains the middle layer",
			container: mherrors.Wrap(err2, mherrors.Wrap(err1, err0)),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "matches errors sharing only the message text",
			container: mherrors.Wrap(err2, mherrors.New("shared")),
			contained: errors.New("shared"),
			contains:  true,
		},
	}

	for _, tc := range cases {
		contains := mherrors.Contains(tc.container, tc.contained)
		assert.Equal(t, tc.contains, contains, fmt.Sprintf("%s: expected %v got %v\n", tc.desc, tc.contains, contains))
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		desc    string
		wrapper error
		err     error
		msg     string
	}{
		{
			desc:    "wrap error with nil wrapper",
			wrapper: nil,
			err:     err0,
			msg:     "",
		},
		{
			desc:    "wrap nil with error",
			wrapper: err1,
			err:     nil,
			msg:     "1",
		},
		{
			desc:    "wrap native error",
			wrapper: err1,
			err:     errors.New("native"),
			msg:     "1 : native",
		},
	}

	for _, tc := range cases {
		wrapped := mherrors.Wrap(tc.wrapper, tc.err)
		if tc.wrapper == nil {
			assert.Nil(t, wrapped, fmt.Sprintf("%s: expected nil", tc.desc))
			continue
		}
		assert.Equal(t, tc.msg, wrapped.Error(), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, wrapped.Error()))
	}
}

func TestUnwrap(t *testing.T) {
	wrapper, err := mherrors.Unwrap(mherrors.Wrap(err1, err0))
	assert.Equal(t, err1.Error(), wrapper.Error(), "expected wrapper to be preserved")
	assert.Equal(t, err0.Error(), err.Error(), "expected wrapped error to be preserved")

	wrapper, err = mherrors.Unwrap(err0)
	assert.Nil(t, wrapper, "expected no wrapper for plain error")
	assert.Equal(t, err0.Error(), err.Error(), "expected plain error to be preserved")
}
