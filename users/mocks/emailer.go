// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"sync"

	"github.com/memberhub/memberhub/users"
)

var _ users.Emailer = (*emailerMock)(nil)

type emailerMock struct {
	mu   sync.Mutex
	sent []string
	err  error
}

// NewEmailer creates an emailer mock that records the logins welcomed.
func NewEmailer() *emailerMock {
	return &emailerMock{}
}

func (em *emailerMock) SendWelcome(to []string, login string) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.err != nil {
		return em.err
	}
	em.sent = append(em.sent, login)

	return nil
}

// Fail makes every subsequent send return the given error.
func (em *emailerMock) Fail(err error) {
	em.mu.Lock()
	defer em.mu.Unlock()

	em.err = err
}

// Sent returns the logins welcomed so far.
func (em *emailerMock) Sent() []string {
	em.mu.Lock()
	defer em.mu.Unlock()

	return append([]string(nil), em.sent...)
}
