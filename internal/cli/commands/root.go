// Package commands wires the manager core into the greasekit CLI.
package commands

import (
	"fmt"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/greasekit/greasekit/injector"
	"github.com/greasekit/greasekit/internal/cli/config"
	"github.com/greasekit/greasekit/internal/fetch"
	"github.com/greasekit/greasekit/internal/storage"
	"github.com/greasekit/greasekit/manager"
	"github.com/greasekit/greasekit/manifest"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "greasekit",
		Short: "Userscript and userstyle manager",
		Long: color.CyanString(`greasekit manages user-authored scripts and styles:
it parses their metadata blocks, keeps the pattern manifest consistent with
the files on disk, resolves which files inject on a given page URL, and
checks declared update URLs for newer versions.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewResolveCommand())
	rootCmd.AddCommand(NewToggleCommand())
	rootCmd.AddCommand(NewRmCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Print("greasekit version: ")
			fmt.Println(Version)
			fmt.Printf("Git commit: %s\n", GitCommit)
			fmt.Printf("Built:      %s\n", BuildDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
		},
	}
}

// runtimeEnv is everything a command needs: the manager, the resolver, and
// the logger built from config.
type runtimeEnv struct {
	cfg      *config.Config
	mgr      *manager.Manager
	resolver *injector.Resolver
	log      *zap.Logger
}

// buildEnv loads config and assembles the collaborators.
func buildEnv() (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := buildLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := storage.NewDirStorage(cfg.ScriptsDir)
	if err != nil {
		return nil, err
	}
	store := manifest.NewStore(st, cfg.ManifestName)
	fetcher := fetch.NewHTTPFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)

	return &runtimeEnv{
		cfg:      cfg,
		mgr:      manager.New(st, store, fetcher, log),
		resolver: injector.NewResolver(store, st, log),
		log:      log,
	}, nil
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if cfg.JSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
