package main

import (
	"fmt"
	"os"

	"github.com/ewill123/nec-callcenter/internal/config"
	"github.com/ewill123/nec-callcenter/internal/database"
	"github.com/ewill123/nec-callcenter/internal/incident"
	"github.com/ewill123/nec-callcenter/internal/logging"
	"github.com/ewill123/nec-callcenter/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

var (
	verbose     bool
	storeDriver string

	zlog *zap.Logger
	svc  *incident.Service
)

var rootCmd = &cobra.Command{
	Use:   "calllog",
	Short: "Operator tools for the NEC call-center incident log",
	Long: `calllog seeds, audits and exports incident reports directly against the
configured store, bypassing the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if storeDriver != "" {
			cfg.StoreDriver = storeDriver
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		zlog, err = logging.New(level, true)
		if err != nil {
			return err
		}

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		svc = incident.NewService(s, incident.Options{StoreTimeout: cfg.StoreTimeout, Logger: zlog})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}
	db, err := database.Open(cfg.DatabaseURL, logger.Silent)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store.NewGormStore(db), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Override STORE_DRIVER (postgres|memory)")

	rootCmd.AddCommand(seedCmd, auditCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
