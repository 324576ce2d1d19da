// Command storefront runs the WhatsApp catalog server and its maintenance
// tasks.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/config"
	"github.com/livefir/storefront/internal/database"
	"github.com/livefir/storefront/internal/logging"
	"github.com/livefir/storefront/internal/shop"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// skipConfig marks commands that run without a valid config file.
const skipConfig = "skip-config"

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "WhatsApp catalog storefront",
		Long: `storefront serves public product catalogs that close orders over WhatsApp,
plus the merchant panel used to maintain them.

Configuration comes from storefront.yaml (or --config) and STOREFRONT_*
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./"+config.FileName+" when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.seedCmd(),
		a.tokenCmd(),
		a.storeCmd(),
		a.configCmd(),
		a.browseCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		logger, err := logging.New("info", "console", logging.WithOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		a.logger = logger
		return nil
	}

	cfg, err := config.Load(a.configPath, a.overrides(cmd)...)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logging.WithOutput(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// overrides maps command line flags onto the config before validation.
func (a *app) overrides(cmd *cobra.Command) []func(*config.Config) {
	var out []func(*config.Config)
	if a.logLevel != "" {
		level := a.logLevel
		out = append(out, func(c *config.Config) { c.Log.Level = level })
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		addr := f.Value.String()
		out = append(out, func(c *config.Config) { c.Server.Addr = addr })
	}
	if f := cmd.Flags().Lookup("dev"); f != nil && f.Changed {
		dev := f.Value.String() == "true"
		out = append(out, func(c *config.Config) { c.Server.Dev = dev })
	}
	return out
}

// openDB opens the configured database, migrating it when the config asks
// for it and migrate is true.
func (a *app) openDB(ctx context.Context, migrate bool) (*sql.DB, error) {
	conn, err := database.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if migrate && a.cfg.Database.Migrate {
		if err := database.Migrate(ctx, conn, a.logger.Named("migrate")); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

func (a *app) openShop(ctx context.Context) (*sql.DB, *shop.Service, error) {
	conn, err := a.openDB(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	return conn, shop.NewService(conn, shop.WithLogger(a.logger.Named("shop"))), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
