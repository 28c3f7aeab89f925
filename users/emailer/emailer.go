// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

// Package emailer contains the welcome-email implementation of users.Emailer.
package emailer

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/email"
	"github.com/memberhub/memberhub/users"
)

const subject = "Your account has been created"

var _ users.Emailer = (*emailer)(nil)

type emailer struct {
	portalURL string
	agent     *email.Agent
}

// New creates new emailer utility.
func New(url string, c *email.Config) (users.Emailer, error) {
	e, err := email.New(c)
	return &emailer{portalURL: url, agent: e}, err
}

func (e *emailer) SendWelcome(to []string, login string) error {
	content := fmt.Sprintf("An account with login %s has been created for you. Sign in at %s to get started.", login, e.portalURL)

	return e.agent.Send(to, "", subject, "", login, content, "")
}
