// Package app wires the persistence layer together: configuration, the
// encrypted cluster secret, typed collections, and the domain services. It
// runs the server process and handles graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zalbum/albumdb/internal/blobstore"
	"github.com/zalbum/albumdb/internal/cluster"
	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/logging"
	"github.com/zalbum/albumdb/internal/services"
)

// App holds the wired services of one server process.
type App struct {
	config  *config.Config
	logger  logging.Logger
	cluster *cluster.Manager

	Collections *services.Collections
	Auth        *services.AuthService
	Media       *services.MediaService
	Posts       *services.PostService
	Channels    *services.ChannelService
	Profiles    *services.ProfileService
	Relations   *services.RelationService
	Albums      *services.AlbumService
}

// NewApp connects to the cluster using the stored encrypted secret and
// builds the service graph. It fails fast when the secret is missing or
// the cluster is unreachable: a persistence layer that cannot reach its
// store has nothing to offer.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	secrets := config.NewSecretStore(cfg.SecretPath)
	cm := cluster.NewManager(secrets)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()
	if err := cm.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("cluster connect: %w", err)
	}

	db, err := cm.Database(cfg.Database)
	if err != nil {
		return nil, err
	}

	cols := services.OpenCollections(db, cfg, logger)
	blobs := blobstore.NewS3Store(cfg)

	app := &App{
		config:      cfg,
		logger:      logger,
		cluster:     cm,
		Collections: cols,
		Auth:        services.NewAuthService(cols.Auth, cfg),
		Media:       services.NewMediaService(cols.Media, blobs),
		Posts:       services.NewPostService(cols.Channels, cols.Refs, services.NewPostOpener(db, logger)),
		Channels:    services.NewChannelService(cols.Channels, cols.Refs),
		Profiles:    services.NewProfileService(cols.Profiles, cols.Refs),
		Relations:   services.NewRelationService(cols.Relations, cols.Refs),
		Albums:      services.NewAlbumService(cols.Albums, cols.Refs),
	}
	return app, nil
}

// Run blocks until the process receives an interrupt, then disconnects
// from the cluster.
func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "persistence layer ready", "database", app.config.Database)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-sigs:
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.OperationTimeout)
	defer cancel()
	if err := app.cluster.Disconnect(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "disconnect failed", "err", err)
	}
}
