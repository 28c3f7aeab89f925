// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/memberhub/memberhub/pkg/authn"
	"github.com/memberhub/memberhub/pkg/errors"
	repoerr "github.com/memberhub/memberhub/pkg/errors/repository"
	svcerr "github.com/memberhub/memberhub/pkg/errors/service"
)

// Recognized CSV columns. Column matching is case-insensitive and unknown
// columns are ignored.
const (
	colLogin              = "login"
	colEmail              = "email"
	colFirstName          = "firstname"
	colLastName           = "lastname"
	colAuthorities        = "authorities"
	colSalesforceID       = "salesforceid"
	colParentSalesforceID = "parentsalesforceid"
)

// authoritiesDelimiter separates authority names within a single CSV cell.
const authoritiesDelimiter = ";"

var requiredColumns = []string{colLogin, colEmail, colSalesforceID}

var errEmptyUpload = errors.New("failed to read csv header")

// RowOutcome is the terminal state of one CSV row: either the id of the
// provisioned user or the reason the row was rejected.
type RowOutcome struct {
	Row    int    `json:"row"`
	Login  string `json:"login,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Ok reports whether the row was provisioned.
func (o RowOutcome) Ok() bool {
	return o.Error == ""
}

// BatchReport aggregates per-row outcomes of a CSV upload in input order.
type BatchReport struct {
	Total    int          `json:"total"`
	Created  int          `json:"created"`
	Outcomes []RowOutcome `json:"outcomes"`
}

// ProcessUpload reads the CSV stream and provisions one user per row
// through the same validate, member-check and persist path as single
// creation. Each row commits or fails on its own: there is no batch-wide
// transaction, and a rejected row never aborts the rows after it. Rows are
// handled sequentially so a duplicate login within the file fails on the
// second occurrence.
func (svc service) ProcessUpload(ctx context.Context, session authn.Session, r io.Reader) (BatchReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return BatchReport{}, errors.Wrap(svcerr.ErrMalformedEntity, errors.Wrap(errEmptyUpload, err))
	}

	columns := columnIndex(header)
	missing := missingColumns(columns)

	report := BatchReport{}
	for row := 0; ; row++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		report.Total++
		outcome := RowOutcome{Row: row}
		switch {
		case err != nil:
			outcome.Error = fmt.Sprintf("parse error: %s", err)
			// A malformed row is scoped to that row; anything else means
			// the stream itself failed and no further rows can arrive.
			var parseErr *csv.ParseError
			if !stderrors.As(err, &parseErr) {
				report.Outcomes = append(report.Outcomes, outcome)
				return report, nil
			}
		case len(missing) > 0:
			outcome.Error = fmt.Sprintf("parse error: missing required column(s): %s", strings.Join(missing, ", "))
		default:
			outcome = svc.provisionRow(ctx, session, row, userFromRecord(columns, record))
		}

		if outcome.Ok() {
			report.Created++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

// provisionRow runs one row through the single-user creation path and
// flattens the outcome into a rejection reason. Infrastructure failures
// reject the row without touching the rest of the batch.
func (svc service) provisionRow(ctx context.Context, session authn.Session, row int, candidate User) RowOutcome {
	outcome := RowOutcome{Row: row, Login: candidate.Login}

	created, vr, err := svc.CreateUser(ctx, session, candidate)
	switch {
	case err == nil:
		outcome.UserID = created.ID
	case errors.Contains(err, ErrValidation):
		outcome.Error = vr.Message()
	case errors.Contains(err, ErrMemberNotFound):
		outcome.Error = fmt.Sprintf("member not found: %s", candidate.SalesforceID)
	case errors.Contains(err, repoerr.ErrConflict):
		outcome.Error = "conflict"
	default:
		outcome.Error = err.Error()
	}

	return outcome
}

func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

func missingColumns(columns map[string]int) []string {
	missing := []string{}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func userFromRecord(columns map[string]int, record []string) User {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	user := User{
		Login:              cell(colLogin),
		Email:              cell(colEmail),
		FirstName:          cell(colFirstName),
		LastName:           cell(colLastName),
		SalesforceID:       cell(colSalesforceID),
		ParentSalesforceID: cell(colParentSalesforceID),
	}

	for _, a := range strings.Split(cell(colAuthorities), authoritiesDelimiter) {
		if a = strings.TrimSpace(a); a != "" {
			user.Authorities = append(user.Authorities, a)
		}
	}

	return user
}
