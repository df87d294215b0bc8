// Package cli implements healthctl, the operator tool for HealthKeeper.
// Local commands work directly on the configured storage; remote commands
// talk to a running server over gRPC.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/rpcclient"
	"github.com/dmitrijs2005/healthkeeper/internal/server"
	"github.com/dmitrijs2005/healthkeeper/internal/server/config"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
)

// RemoteClient is the subset of rpcclient.Client used by remote commands.
type RemoteClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, age, sex, race string) (*models.User, error)
	ListFiles(ctx context.Context) ([]*models.HealthFile, error)
	DeleteFile(ctx context.Context, filename string) error
}

type local struct {
	directory *services.Directory
	ledger    *services.Ledger
	intake    *services.Intake
	close     func() error
}

type App struct {
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer

	config *config.Config
	logger logging.Logger

	dial func(addr string) (RemoteClient, func() error, error)
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		reader: bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		logger: logging.Nop(),
		dial:   dialRemote,
	}
}

func dialRemote(addr string) (RemoteClient, func() error, error) {
	return rpcclient.Dial(addr)
}

// Run executes the command line args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(a.reader)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root.ExecuteContext(ctx)
}

func (a *App) openLocal(ctx context.Context) (*local, error) {
	repos, err := server.OpenRepositories(ctx, a.config)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	blobs, err := server.OpenBlobStore(ctx, a.config)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	ledger := services.NewLedger(repos.HealthFiles(), blobs, a.logger)
	return &local{
		directory: services.NewDirectory(repos.Users(), a.logger),
		ledger:    ledger,
		intake:    services.NewIntake(ledger, blobs, a.logger),
		close:     repos.Close,
	}, nil
}

// withLocal opens storage for the duration of fn.
func (a *App) withLocal(ctx context.Context, fn func(*local) error) error {
	l, err := a.openLocal(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.close(); err != nil {
			a.logger.Warn(ctx, "close storage", "error", err)
		}
	}()
	return fn(l)
}
