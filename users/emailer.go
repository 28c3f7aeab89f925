// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users

// Emailer wrapper around the email.
type Emailer interface {
	// SendWelcome sends the account-created notification to a new user.
	SendWelcome(To []string, login string) error
}
