// Package server wires configuration, storage, services and the HTTP and
// gRPC transports into one runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/dmitrijs2005/healthkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/healthkeeper/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	repos     repomanager.RepositoryManager
	directory *services.Directory
	ledger    *services.Ledger
	intake    *services.Intake
	issuer    *auth.Issuer
}

// NewApp opens storage and builds the services. Logs go to w as JSON.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(c.LogLevel, w)
	if err != nil {
		return nil, err
	}

	repos, err := OpenRepositories(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	blobs, err := OpenBlobStore(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	ledger := services.NewLedger(repos.HealthFiles(), blobs, logger)

	return &App{
		config:    c,
		logger:    logger,
		repos:     repos,
		directory: services.NewDirectory(repos.Users(), logger),
		ledger:    ledger,
		intake:    services.NewIntake(ledger, blobs, logger),
		issuer:    auth.NewIssuer(c.SecretKey, c.SessionValidity),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.directory, app.ledger, app.intake, app.issuer,
		httpapi.Options{
			MaxUploadSize: app.config.MaxUploadSize,
			SecureCookie:  app.config.SecureCookie,
			LoginRate:     app.config.LoginRate,
			LoginBurst:    app.config.LoginBurst,
		})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.directory, app.ledger, app.issuer)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails, then releases storage.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "blob", app.config.Blob)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return app.repos.Close()
}
