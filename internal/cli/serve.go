package cli

import (
	"github.com/spf13/cobra"

	"github.com/garunski/api-explorer/pkg/explorer"
)

var (
	servePort    string
	serveData    string
	serveStorage string
	serveRedis   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the explorer page",
	Example: `  # serve on the default port with badger storage
  explorer serve

  # keep the saved URL in redis
  explorer serve --storage redis --redis-addr localhost:6379`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "HTTP port (overrides configuration)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "badger data directory (overrides configuration)")
	serveCmd.Flags().StringVar(&serveStorage, "storage", "", "URL storage backend: badger, redis or memory")
	serveCmd.Flags().StringVar(&serveRedis, "redis-addr", "", "redis address for the redis backend")
}

func serveConfig() (explorer.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveData != "" {
		cfg.DataPath = serveData
	}
	if serveStorage != "" {
		cfg.Storage = serveStorage
	}
	if serveRedis != "" {
		cfg.Redis.Addr = serveRedis
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serveConfig()
	if err != nil {
		return err
	}
	return explorer.Run(cmd.Context(), cfg)
}
