package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jackut/backend/internal/social"
	"jackut/backend/internal/storage"
	"jackut/backend/pkg/config"
	"jackut/backend/pkg/logger"
)

func main() {
	c := &cli{}
	if err := c.execute(c.rootCmd()); err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by every command of one invocation
type cli struct {
	dataDir  string
	driver   string
	login    string
	password string
	verbose  bool

	log    *zap.Logger
	store  storage.RecordStore
	system *social.System
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jackut",
		Short: "Jackut social network command line",
		Long: `Runs one Jackut operation against the persisted state.

The state is loaded before the command and saved after it. Commands acting
on behalf of a user open a session with --login and --password.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data-dir", "", "directory of the record files (overrides DATA_DIR)")
	flags.StringVar(&c.driver, "driver", "", "storage driver: file, sqlite or memory (overrides STORAGE_DRIVER)")
	flags.StringVarP(&c.login, "login", "u", "", "login of the acting user")
	flags.StringVarP(&c.password, "password", "p", "", "password of the acting user")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log everything to stderr, not only errors")

	root.AddCommand(
		c.registerCmd(),
		c.attributeCmd(),
		c.friendCmd(),
		c.noteCmd(),
		c.communityCmd(),
		c.idolCmd(),
		c.crushCmd(),
		c.enemyCmd(),
		c.removeCmd(),
		c.resetCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	if c.driver != "" {
		cfg.StorageDriver = c.driver
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if c.verbose {
		if c.log, err = logger.New(cfg.Env); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	} else {
		c.log = logger.NewConsole(cmd.ErrOrStderr(), zap.ErrorLevel)
	}

	if c.store, err = storage.Open(cfg); err != nil {
		return err
	}
	c.system, err = social.Open(cmdContext(cmd), c.store, c.log)
	return err
}

// execute runs root and releases the store whatever the outcome. Cobra skips
// PersistentPostRunE when a command fails, so close alone would leak it.
func (c *cli) execute(root *cobra.Command) error {
	defer c.release()
	return root.Execute()
}

// close persists the state after a successful command
func (c *cli) close(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	defer c.release()
	return c.system.Shutdown(contextOr(ctx))
}

// release closes the store and flushes the logger; later calls are no-ops
func (c *cli) release() {
	if c.log != nil {
		_ = c.log.Sync()
	}
	if c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil && c.log != nil {
		c.log.Error("Failed to close storage", zap.Error(err))
	}
	c.store = nil
}

// session opens a session for the --login/--password pair
func (c *cli) session() (string, error) {
	return c.system.OpenSession(c.login, c.password)
}

func cmdContext(cmd *cobra.Command) context.Context {
	return contextOr(cmd.Context())
}

func contextOr(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
