package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/data/store"
	"github.com/akolanti/docqa/internal/rag"
	"github.com/akolanti/docqa/internal/rag/strategies"
	"github.com/akolanti/docqa/pkg/logger_i"
)

// newService builds the pipeline used by every command. Tests replace it.
var newService = func(ctx context.Context, cfg config.Pipeline) rag.Service {
	indexes := store.InitInMemoryIndexStore(config.IndexStoreTTL)
	indexes.StartSweeper(ctx, config.IndexStoreSweepInterval)
	return rag.NewService(cfg, strategies.NewProduction(ctx, cfg), indexes)
}

type rootOptions struct {
	configPath string
}

// NewRootCmd returns the docqa command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about your documents",
		Long: `docqa indexes PDF, DOCX and TXT files and answers questions about them,
citing the page and chunk every answer is based on.

The pipeline (embedding, vector_store, llm, chunk_size, ...) is read from a
YAML file. API keys come from the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// stdout carries answers and the MCP protocol
			logger_i.InitStderr()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "docqa.yaml", "pipeline config file")

	cmd.AddCommand(newAskCmd(opts), newMCPCmd(opts))
	return cmd
}

func (o *rootOptions) loadService(cmd *cobra.Command) (rag.Service, error) {
	cfg, err := config.LoadPipeline(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return newService(cmd.Context(), cfg), nil
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
