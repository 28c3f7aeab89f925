// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package members

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/memberhub/memberhub/pkg/errors"
)

var errFetchMember = errors.New("failed to fetch member from directory")

var _ Directory = (*client)(nil)

type client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Directory backed by the member-services HTTP API.
func NewClient(baseURL string, timeout time.Duration) Directory {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *client) Exists(ctx context.Context, salesforceID string) (bool, error) {
	url := fmt.Sprintf("%s/api/members/%s", c.baseURL, salesforceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.Wrap(errFetchMember, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.Wrap(errFetchMember, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, errors.Wrap(errFetchMember, errors.New(fmt.Sprintf("unexpected status code %d", resp.StatusCode)))
	}
}
