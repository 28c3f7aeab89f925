// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/memberhub/memberhub/members"
)

var _ members.Directory = (*directoryMock)(nil)

type directoryMock struct {
	mu      sync.Mutex
	known   map[string]bool
	err     error
	lookups int
}

// NewDirectory creates a member directory mock that recognizes the given
// salesforce IDs.
func NewDirectory(known ...string) *directoryMock {
	dm := &directoryMock{known: make(map[string]bool)}
	for _, id := range known {
		dm.known[id] = true
	}
	return dm
}

func (dm *directoryMock) Exists(ctx context.Context, salesforceID string) (bool, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	dm.lookups++
	if dm.err != nil {
		return false, dm.err
	}

	return dm.known[salesforceID], nil
}

// Fail makes every subsequent lookup return the given error.
func (dm *directoryMock) Fail(err error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	dm.err = err
}

// Lookups reports how many lookups were made.
func (dm *directoryMock) Lookups() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	return dm.lookups
}
