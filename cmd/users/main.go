// Copyright (c) MemberHub
// SPDX-License-Identifier: Apache-2.0

// Package main contains users main function to start the users service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/memberhub/memberhub/internal/email"
	mhlog "github.com/memberhub/memberhub/logger"
	"github.com/memberhub/memberhub/members"
	"github.com/memberhub/memberhub/pkg/authn"
	pgclient "github.com/memberhub/memberhub/pkg/postgres"
	"github.com/memberhub/memberhub/pkg/prometheus"
	"github.com/memberhub/memberhub/pkg/server"
	httpserver "github.com/memberhub/memberhub/pkg/server/http"
	"github.com/memberhub/memberhub/pkg/uuid"
	"github.com/memberhub/memberhub/users"
	uapi "github.com/memberhub/memberhub/users/api"
	"github.com/memberhub/memberhub/users/emailer"
	umiddleware "github.com/memberhub/memberhub/users/middleware"
	upostgres "github.com/memberhub/memberhub/users/postgres"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "users"
	envPrefixDB   = "MH_USERS_DB_"
	envPrefixHTTP = "MH_USERS_HTTP_"
	defDB         = "users"
	defSvcPort    = "9002"
)

type config struct {
	LogLevel         string        `env:"MH_USERS_LOG_LEVEL"          envDefault:"info"`
	InstanceID       string        `env:"MH_USERS_INSTANCE_ID"        envDefault:""`
	PortalURL        string        `env:"MH_PORTAL_URL"               envDefault:"http://localhost"`
	TokenSecret      string        `env:"MH_USERS_TOKEN_SECRET"       envDefault:""`
	MembersURL       string        `env:"MH_MEMBER_SERVICES_URL"      envDefault:"http://localhost:9004"`
	MembersTimeout   time.Duration `env:"MH_MEMBER_SERVICES_TIMEOUT"  envDefault:"10s"`
	MembersCacheURL  string        `env:"MH_MEMBERS_CACHE_URL"        envDefault:"redis://localhost:6379/0"`
	MembersCacheTTL  time.Duration `env:"MH_MEMBERS_CACHE_TTL"        envDefault:"10m"`
	MembersCacheSkip bool          `env:"MH_MEMBERS_CACHE_SKIP"       envDefault:"false"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err.Error())
	}

	logger, err := mhlog.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err.Error())
	}

	var exitCode int
	defer mhlog.ExitWithError(&exitCode)

	if cfg.InstanceID == "" {
		if cfg.InstanceID, err = uuid.New().ID(); err != nil {
			logger.Error(fmt.Sprintf("failed to generate instanceID: %s", err))
			exitCode = 1
			return
		}
	}

	ec := email.Config{}
	if err := env.Parse(&ec); err != nil {
		logger.Error(fmt.Sprintf("failed to load email configuration : %s", err.Error()))
		exitCode = 1
		return
	}

	dbConfig := pgclient.Config{Name: defDB}
	if err := env.Parse(&dbConfig, env.Options{Prefix: envPrefixDB}); err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	db, err := pgclient.Setup(dbConfig, *upostgres.Migration())
	if err != nil {
		logger.Error(err.Error())
		exitCode = 1
		return
	}
	defer db.Close()

	directory := members.NewClient(cfg.MembersURL, cfg.MembersTimeout)
	if !cfg.MembersCacheSkip {
		cacheOpts, err := redis.ParseURL(cfg.MembersCacheURL)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to parse members cache URL: %s", err))
			exitCode = 1
			return
		}
		directory = members.NewCache(directory, redis.NewClient(cacheOpts), cfg.MembersCacheTTL)
	}

	svc, err := newService(db, directory, cfg, ec, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to setup service: %s", err))
		exitCode = 1
		return
	}

	httpServerConfig := server.Config{Port: defSvcPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err.Error()))
		exitCode = 1
		return
	}

	authenticator := authn.New(cfg.TokenSecret)
	httpSrv := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, uapi.MakeHandler(svc, authenticator, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return httpSrv.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, httpSrv)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("users service terminated: %s", err))
	}
}

func newService(db *sqlx.DB, directory members.Directory, c config, ec email.Config, logger *slog.Logger) (users.Service, error) {
	repo := upostgres.NewRepository(db)
	idp := uuid.New()

	emailerClient, err := emailer.New(c.PortalURL, &ec)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to configure e-mailing util: %s", err.Error()))
	}

	svc := users.NewService(repo, directory, emailerClient, idp, logger)
	svc = umiddleware.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = umiddleware.MetricsMiddleware(svc, counter, latency)

	return svc, nil
}
