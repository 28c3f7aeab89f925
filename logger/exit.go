// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package logger

import "os"

// ExitWithError exits the service with the given code. Deferred right after
// logger setup so deferred cleanups still run before the process ends.
func ExitWithError(code *int) {
	os.Exit(*code)
}
