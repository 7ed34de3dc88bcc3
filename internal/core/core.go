// Package core assembles the board's shared dependencies from a Config and
// starts sessions over them. Both the HTTP server and the terminal client
// are built on it.
package core

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/logboard/internal/auth"
	"github.com/dmitrijs2005/logboard/internal/backup"
	"github.com/dmitrijs2005/logboard/internal/board"
	"github.com/dmitrijs2005/logboard/internal/config"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/dmitrijs2005/logboard/internal/metrics"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/session"
	"github.com/dmitrijs2005/logboard/internal/store"
	"github.com/dmitrijs2005/logboard/internal/timex"
	"github.com/prometheus/client_golang/prometheus"
)

type Core struct {
	Store    *store.SQLStore
	Stamps   *timex.Formatter
	Admin    *auth.Passphrase
	Archiver backup.Archiver
	Metrics  *metrics.Recorder
	Logger   logging.Logger
}

// New opens and migrates the store, prepares the timestamp formatter and
// the admin passphrase, and selects the S3 archiver when a bucket is set.
// reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, log logging.Logger, reg prometheus.Registerer) (*Core, error) {
	stamps, err := timex.NewFormatter(cfg.DisplayZone, cfg.DisplayZoneLabel)
	if err != nil {
		return nil, fmt.Errorf("display zone: %w", err)
	}

	admin, err := auth.NewPassphrase(cfg.AdminPassphrase)
	if err != nil {
		return nil, err
	}
	if cfg.AdminPassphrase == "" {
		log.Warn(ctx, "admin passphrase is not set; delete operations are disabled")
	}

	var archiver backup.Archiver = backup.Nop{}
	if cfg.BackupsEnabled() {
		a, err := backup.NewS3Archiver(ctx, backup.S3Settings{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("backup init error: %w", err)
		}
		archiver = a
		log.Info(ctx, "pre-delete backups enabled", "bucket", cfg.S3Bucket)
	}

	s, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "store ready", "driver", cfg.DBDriver, "dialect", s.Dialect())

	var rec *metrics.Recorder
	if reg != nil {
		rec = metrics.New(reg)
	}

	return &Core{
		Store:    s,
		Stamps:   stamps,
		Admin:    admin,
		Archiver: archiver,
		Metrics:  rec,
		Logger:   log,
	}, nil
}

// Session starts a session for user with its own working set.
func (c *Core) Session(ctx context.Context, user models.User) (*session.Controller, error) {
	repo := board.New(c.Store, c.Stamps,
		board.WithArchiver(c.Archiver),
		board.WithMetrics(c.Metrics),
		board.WithLogger(c.Logger),
	)
	ctrl := session.New(ctx, repo, c.Admin,
		session.WithMetrics(c.Metrics),
		session.WithLogger(c.Logger),
	)
	if err := ctrl.Dispatch(ctx, session.SelectUser{User: user}); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Ping reports whether the database answers.
func (c *Core) Ping(ctx context.Context) error {
	return c.Store.DB().PingContext(ctx)
}

func (c *Core) Close() error {
	return c.Store.Close()
}
