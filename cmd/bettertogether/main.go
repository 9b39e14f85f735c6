package main

import (
	"fmt"
	"io"
	"os"

	"bettertogether/internal/adapter/kv"
	"bettertogether/internal/adapter/memory"
	"bettertogether/internal/adapter/postgres"
	"bettertogether/internal/adapter/sqlite"
	"bettertogether/internal/app"
	"bettertogether/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root, c := newRootCmd()
	if err := execute(root, c); err != nil {
		os.Exit(1)
	}
}

// execute runs root and releases the store and logger whether or not the
// command succeeded.
func execute(root *cobra.Command, c *cli) error {
	defer c.close()
	return root.Execute()
}

// backend is a kv.Backend that owns a connection.
type backend interface {
	kv.Backend
	io.Closer
}

// cli carries what every subcommand needs once the root has initialized.
type cli struct {
	cfgPath string
	verbose bool
	asJSON  bool

	open func(cfg *config.Config) (backend, error)

	cfg      *config.Config
	log      *zap.Logger
	db       backend
	gate     *app.AuthGate
	cycles   *app.CycleService
	calendar *app.CalendarService
	journal  *app.JournalService
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{open: openBackend}
	root := &cobra.Command{
		Use:   "bettertogether",
		Short: "Cycle and moon companion, guarded by a local PIN",
		Long: `bettertogether tracks menstrual cycles, predicts the next period,
ovulation and fertile window, and pairs each cycle phase with the moon.

Data stays on this machine (or your own Postgres) behind a PIN.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		c.serveCmd(),
		c.overviewCmd(),
		c.moonCmd(),
		c.calendarCmd(),
		c.eventCmd(),
		c.journalCmd(),
		c.cycleCmd(),
		c.pinCmd(),
		c.lockCmd(),
	)
	return root, c
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if c.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	c.log, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.db, err = c.open(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	c.log.Debug("store opened", zap.String("store", cfg.Store))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	store := kv.New(c.db)
	c.gate = app.NewAuthGate(store, c.log.Named("auth"))
	c.cycles = app.NewCycleService(store, loc, c.log.Named("cycle"))
	c.calendar = app.NewCalendarService(c.cycles, store, c.log.Named("calendar"))
	c.journal = app.NewJournalService(store, c.log.Named("journal"))
	return nil
}

// close is safe to call more than once.
func (c *cli) close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil && c.log != nil {
			c.log.Warn("close store", zap.Error(err))
		}
		c.db = nil
	}
	if c.log != nil {
		_ = c.log.Sync()
		c.log = nil
	}
}

func openBackend(cfg *config.Config) (backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.StoreMemory:
		return memory.New(), nil
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// ensureUnlocked runs the PIN gate over the command's stdin until the session
// is unlocked or input runs out.
func (c *cli) ensureUnlocked(cmd *cobra.Command) error {
	return unlockSession(cmd.Context(), c.gate, cmd.InOrStdin(), cmd.ErrOrStderr())
}
