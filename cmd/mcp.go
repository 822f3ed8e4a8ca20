package cmd

import (
	"github.com/huangsam/caudal/internal/contract"
	"github.com/huangsam/caudal/internal/iocache"
	"github.com/huangsam/caudal/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Caudal MCP server",
	Long:  `Launch an MCP server that allows AI agents to run cycle and daily reports via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// Input files arrive per tool call, so only the ambient config is validated here.
		if err := loadConfigFile(); err != nil {
			return err
		}
		if err := viper.Unmarshal(input); err != nil {
			return err
		}
		backend, err := contract.ValidateBackend(input.CacheBackend, input.CacheDBConnect)
		if err != nil {
			return err
		}
		cfg.CacheBackend = backend
		cfg.CacheDBConnect = input.CacheDBConnect
		cfg.Precision = input.Precision
		if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			return err
		}
		cacheManager = iocache.Manager
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
