package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/rxnkit/internal/logging"
	"github.com/cognicore/rxnkit/pkg/rxnkit/config"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store/sqlite"
)

// rootOptions holds global flags.
type rootOptions struct {
	ConfigPath     string
	VocabularyPath string
	LogLevel       string
	LogFormat      string
}

// env carries loaded configuration through the command tree.
type env struct {
	Components *config.Components
	Logger     logging.Logger
}

type envKey struct{}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rxnkit",
		Short: "Rank and classify reactions from HiPRGen and Kinetiscope runs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
				_ = e.Logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "workflow config file (YAML)")
	pf.StringVar(&opts.VocabularyPath, "vocabulary", "", "classification vocabulary file (YAML)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		newTopCmd(),
		newClassifyCmd(),
		newRankPathwaysCmd(),
		newTestsetCmd(),
		newRunsCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *rootOptions) error {
	loader := config.Loader{WorkflowPath: opts.ConfigPath, VocabularyPath: opts.VocabularyPath}
	comp, err := loader.Load()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logCfg := comp.Workflow.Log
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		logCfg.Format = opts.LogFormat
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, envKey{}, &env{Components: comp, Logger: logger}))
	return nil
}

func getEnv(cmd *cobra.Command) (*env, error) {
	e, ok := cmd.Context().Value(envKey{}).(*env)
	if !ok {
		return nil, fmt.Errorf("command context not initialized")
	}
	return e, nil
}

// openStore opens the results archive at path. An empty path yields a nil
// store and a no-op cleanup.
func openStore(ctx context.Context, path string) (store.Store, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, func() { st.Close() }, nil
}
