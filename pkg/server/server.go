// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// StopWaitTime is the time to wait before shutdown.
const StopWaitTime = 5 * time.Second

// Server is an interface for servers to implement.
type Server interface {
	// Start starts the server.
	Start() error

	// Stop stops the server.
	Stop() error
}

// Config is a struct that contains server configuration.
type Config struct {
	Host     string `env:"HOST"        envDefault:""`
	Port     string `env:"PORT"        envDefault:""`
	CertFile string `env:"SERVER_CERT" envDefault:""`
	KeyFile  string `env:"SERVER_KEY"  envDefault:""`
}

// BaseServer is a base struct for all servers.
type BaseServer struct {
	Ctx      context.Context
	Cancel   context.CancelFunc
	Name     string
	Address  string
	Config   Config
	Logger   *slog.Logger
	Protocol string
}

// NewBaseServer returns a new base server.
func NewBaseServer(ctx context.Context, cancel context.CancelFunc, name string, config Config, logger *slog.Logger) BaseServer {
	return BaseServer{
		Ctx:     ctx,
		Cancel:  cancel,
		Name:    name,
		Address: fmt.Sprintf("%s:%s", config.Host, config.Port),
		Config:  config,
		Logger:  logger,
	}
}

// StopSignalHandler stops the server when a signal is received.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	var err error
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGABRT)
	select {
	case sig := <-c:
		defer cancel()
		for _, server := range servers {
			err = server.Stop()
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))
		return err
	case <-ctx.Done():
		return nil
	}
}
