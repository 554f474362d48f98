package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/api"
	"github.com/nhle/monthcal/internal/app"
	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/store"
)

// cli holds the state shared by every command.
type cli struct {
	cfgPath string
	verbose bool

	cfg     *model.AppConfig
	logger  *slog.Logger
	store   *store.SQLiteStore
	service *app.Service

	out    io.Writer
	errOut io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, errOut: os.Stderr}
	err := c.rootCmd().ExecuteContext(ctx)
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "monthcal",
		Short:         "Month view of your calendars and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.loadConfig()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVar(&c.cfgPath, "config", model.DefaultConfigPath(), "Path to config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.calendarsCmd(),
		c.monthCmd(),
		c.eventCmd(),
		c.taskCmd(),
		c.memoCmd(),
		c.exportCmd(),
		c.themeCmd(),
	)
	return root
}

func (c *cli) loadConfig() error {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := model.LoadConfig(c.cfgPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// open builds the service on first use. Commands that only touch the
// config never open the keyring or the database.
func (c *cli) open() (*app.Service, error) {
	if c.service != nil {
		return c.service, nil
	}

	if err := os.MkdirAll(filepath.Dir(c.cfg.Store.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	st, err := store.NewSQLiteStore(c.cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}

	creds, err := credential.NewKeyringStore(credential.KeyringConfig{
		Backends:     c.cfg.Auth.KeyringBackends,
		FileDir:      c.cfg.Auth.KeyringDir,
		FilePassword: os.Getenv("MONTHCAL_KEYRING_PASSWORD"),
	}, c.logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	c.store = st
	c.service = app.New(c.cfg, st, creds, app.WithLogger(c.logger))
	return c.service, nil
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.service = nil
	return err
}

// describe renders an error for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, app.ErrSignedOut):
		return "not signed in; run `monthcal login`"
	case api.IsSessionEnding(err):
		return "session expired; run `monthcal login`"
	}
	if httpErr, ok := api.AsHTTPError(err); ok {
		return fmt.Sprintf("%s: %s", httpErr.Code, httpErr.Message)
	}
	return err.Error()
}
