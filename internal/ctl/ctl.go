// Package ctl implements the albumctl operator commands: storing the
// encrypted cluster connection secret, provisioning indexes up front, and
// bootstrapping accounts.
package ctl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/zalbum/albumdb/internal/cluster"
	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/logging"
	"github.com/zalbum/albumdb/internal/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	reader *bufio.Reader
}

func NewApp(cfg *config.Config, logger logging.Logger) *App {
	return &App{config: cfg, logger: logger, reader: bufio.NewReader(os.Stdin)}
}

// Run dispatches one subcommand and returns its error.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "set-connection":
		return a.SetConnection()
	case "ensure-indexes":
		return a.EnsureIndexes(ctx)
	case "add-user":
		return a.AddUser(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected set-connection, ensure-indexes, or add-user)", command)
	}
}

// SetConnection prompts for the cluster connection string and stores it
// encrypted. The prompt does not echo: connection strings embed
// credentials.
func (a *App) SetConnection() error {
	fmt.Println("Enter cluster connection string")
	connString, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	if len(connString) == 0 {
		return fmt.Errorf("empty connection string")
	}

	secrets := config.NewSecretStore(a.config.SecretPath)
	cm := cluster.NewManager(secrets)
	if err := cm.SetConnection(string(connString)); err != nil {
		return err
	}

	fmt.Printf("Connection secret written to %s\n", a.config.SecretPath)
	return nil
}

// EnsureIndexes connects and provisions the indexes of every configured
// collection, so unique constraints exist before the first insert.
func (a *App) EnsureIndexes(ctx context.Context) error {
	cols, cm, err := a.openCollections(ctx)
	if err != nil {
		return err
	}
	defer cm.Disconnect(ctx)

	opCtx, cancel := context.WithTimeout(ctx, a.config.OperationTimeout)
	defer cancel()
	if err := cols.EnsureIndexes(opCtx); err != nil {
		return err
	}

	fmt.Println("Indexes provisioned")
	return nil
}

// AddUser registers an account, prompting for the password without echo.
func (a *App) AddUser(ctx context.Context) error {
	fmt.Println("Enter user name")
	userid, err := a.reader.ReadString('\n')
	if err != nil {
		return err
	}
	userid = strings.TrimSpace(userid)
	if userid == "" {
		return fmt.Errorf("empty user name")
	}

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	cols, cm, err := a.openCollections(ctx)
	if err != nil {
		return err
	}
	defer cm.Disconnect(ctx)

	auth := services.NewAuthService(cols.Auth, a.config)
	opCtx, cancel := context.WithTimeout(ctx, a.config.OperationTimeout)
	defer cancel()
	if _, err := auth.AddUser(opCtx, userid, password); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

func (a *App) openCollections(ctx context.Context) (*services.Collections, *cluster.Manager, error) {
	secrets := config.NewSecretStore(a.config.SecretPath)
	cm := cluster.NewManager(secrets)

	connectCtx, cancel := context.WithTimeout(ctx, a.config.OperationTimeout)
	defer cancel()
	if err := cm.Connect(connectCtx); err != nil {
		return nil, nil, fmt.Errorf("cluster connect: %w", err)
	}

	db, err := cm.Database(a.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return services.OpenCollections(db, a.config, a.logger), cm, nil
}
