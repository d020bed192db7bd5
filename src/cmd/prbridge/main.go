package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/pkg/config"
	"github.com/hv-doan/prbridge/src/pkg/github"
	"github.com/hv-doan/prbridge/src/pkg/trace"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootOptions carries state shared by every subcommand
type rootOptions struct {
	configPath string
	logLevel   string
	token      string
	traceOn    bool

	cfg      *config.Config
	shutdown func()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "prbridge",
		Short: "Work with one GitHub repository's pull requests from the terminal",
		Long: `prbridge binds to a single GitHub repository, taken from the
GITHUB_REPOSITORY environment variable, and exposes its pull requests,
comments, reviews, commits and diffs as subcommands.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Defaults.LogLevel = opts.logLevel
			}

			// Logging is configured here, once, before any command runs.
			level, err := log.ParseLevel(cfg.Defaults.LogLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			log.SetLevel(level)
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			log.SetOutput(os.Stderr)

			shutdown, err := trace.InitTracer("prbridge", opts.traceOn, cfg.Defaults.OutputDir)
			if err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}

			opts.cfg = cfg
			opts.shutdown = shutdown
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.shutdown != nil {
				opts.shutdown()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: .prbridge.yaml, then ~/.config/prbridge/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "GitHub token (overrides the configured token environment variable)")
	cmd.PersistentFlags().BoolVar(&opts.traceOn, "trace", false, "Record span timings and export performance-report.json to the output directory")

	cmd.AddCommand(newPRCommand(opts))
	cmd.AddCommand(newCommentsCommand(opts))
	cmd.AddCommand(newReviewsCommand(opts))
	cmd.AddCommand(newCommitCommand(opts))
	cmd.AddCommand(newReportCommand(opts))

	return cmd
}

// resolveToken picks the client credential: the --token flag first,
// then the configured token environment variable, then an App
// installation token when App credentials are configured.
func resolveToken(ctx context.Context, opts *rootOptions) (string, error) {
	if opts.token != "" {
		return opts.token, nil
	}
	if token := os.Getenv(opts.cfg.GitHub.TokenEnv); token != "" {
		return token, nil
	}
	if opts.cfg.GitHub.App.Configured() {
		return github.NewAppTokenSource(opts.cfg).Token(ctx)
	}
	return "", fmt.Errorf("GitHub token not found: set %s, pass --token, or configure github.app", opts.cfg.GitHub.TokenEnv)
}

// newClient builds the repository-bound client every subcommand uses
func newClient(ctx context.Context, opts *rootOptions) (*github.Client, error) {
	token, err := resolveToken(ctx, opts)
	if err != nil {
		return nil, err
	}
	return github.NewClient(ctx, opts.cfg, token)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
