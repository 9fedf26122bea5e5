package cli

import (
	"github.com/spf13/cobra"

	"github.com/akolanti/docqa/internal/mcpserver"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Start the Model Context Protocol server over stdio. It offers two tools:
index_files builds an index over local files and ask answers questions from it.

Client configuration:
  {
    "mcpServers": {
      "docqa": {
        "command": "/path/to/docqa",
        "args": ["mcp", "--config", "/path/to/docqa.yaml"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd, root)
		},
	}
}

func runMCP(cmd *cobra.Command, root *rootOptions) error {
	service, err := root.loadService(cmd)
	if err != nil {
		return err
	}
	server, err := mcpserver.NewServer(service)
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
