package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/config"
)

type configKeyType struct{}
type loggerKeyType struct{}

var (
	configKey = configKeyType{}
	loggerKey = loggerKeyType{}
)

var rootCmd = &cobra.Command{
	Use:   "interviewer",
	Short: "AI mock interview backend",
	Long: `interviewer runs the AI mock interview API: it parses uploaded resumes
into structured data, conducts LLM-driven interviews with per-answer feedback
and scores, and stores finished interviews in PostgreSQL.`,
	SilenceUsage: true,
}

// Execute runs the command line with cfg and log available to every command.
func Execute(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, log)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(dbCheckCmd)
	rootCmd.AddCommand(versionCmd)
}
