// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package members

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "member"

var _ Directory = (*directoryCache)(nil)

type directoryCache struct {
	directory Directory
	client    *redis.Client
	ttl       time.Duration
}

// NewCache returns a read-through cache decorator over the directory.
// Only positive answers are cached: a member that does not exist yet may
// be provisioned at any moment, so misses always reach the directory.
func NewCache(directory Directory, client *redis.Client, ttl time.Duration) Directory {
	return &directoryCache{
		directory: directory,
		client:    client,
		ttl:       ttl,
	}
}

func (c *directoryCache) Exists(ctx context.Context, salesforceID string) (bool, error) {
	key := fmt.Sprintf("%s:%s", keyPrefix, salesforceID)
	if _, err := c.client.Get(ctx, key).Result(); err == nil {
		return true, nil
	}

	exists, err := c.directory.Exists(ctx, salesforceID)
	if err != nil {
		return false, err
	}

	if exists {
		// Cache failures only cost an extra directory round trip.
		_ = c.client.Set(ctx, key, "1", c.ttl).Err()
	}

	return exists, nil
}
