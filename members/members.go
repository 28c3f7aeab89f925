// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

// Package members provides the client for the external member directory.
// User creation references member organizations by salesforce id, and the
// directory confirms those organizations exist.
package members

import "context"

// Directory looks up member organizations.
type Directory interface {
	// Exists reports whether a member with the given salesforce id is
	// known to the directory.
	Exists(ctx context.Context, salesforceID string) (bool, error)
}
