// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"encoding/json"
	"strings"

	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
)

// Status represents User status.
type Status uint8

// Possible User status values.
const (
	// EnabledStatus represents an active User.
	EnabledStatus Status = iota
	// DeletedStatus represents a soft-deleted User. Deleted users keep
	// their row for audit purposes but no longer occupy a uniqueness slot.
	DeletedStatus

	// AllStatus is used for querying purposes to list users irrespective
	// of their status. It is never stored in the database as the actual
	// User status and should always be the largest value in this
	// enumeration.
	AllStatus
)

// String representation of the possible status values.
const (
	Enabled = "enabled"
	Deleted = "deleted"
	All     = "all"
	Unknown = "unknown"
)

// String converts user status to string literal.
func (s Status) String() string {
	switch s {
	case EnabledStatus:
		return Enabled
	case DeletedStatus:
		return Deleted
	case AllStatus:
		return All
	default:
		return Unknown
	}
}

// ToStatus converts string value to a valid User status.
func ToStatus(status string) (Status, error) {
	switch status {
	case "", Enabled:
		return EnabledStatus, nil
	case Deleted:
		return DeletedStatus, nil
	case All:
		return AllStatus, nil
	}
	return Status(0), svcerr.ErrInvalidStatus
}

// MarshalJSON marshals the status as its string literal.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON unmarshals a string literal into a valid status.
func (s *Status) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), "\"")
	val, err := ToStatus(str)
	*s = val
	return err
}
