package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	apperrors "github.com/garunski/api-explorer/pkg/explorer/errors"
)

var (
	fetchURL      string
	fetchEndpoint string
	fetchTimeout  time.Duration
	fetchRetries  int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch API endpoints and print the formatted responses",
	Long: `Fetch one endpoint, or every endpoint in order when --endpoint is not
given. Timed out requests are retried with a growing delay; HTTP errors
and network failures are reported right away.`,
	Example: `  # fetch root, ping, healthz and info
  explorer fetch --url http://localhost:3000

  # fetch a single endpoint without retries
  explorer fetch --url http://localhost:3000 --endpoint healthz --retries 0`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "base API URL")
	fetchCmd.Flags().StringVarP(&fetchEndpoint, "endpoint", "e", "", "endpoint name (root, ping, healthz or info)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 0, "request timeout (overrides configuration)")
	fetchCmd.Flags().IntVar(&fetchRetries, "retries", -1, "retries after a failed request (overrides configuration)")
	_ = fetchCmd.MarkFlagRequired("url")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	var path string
	if fetchEndpoint != "" {
		ep, ok := controller.EndpointByName(fetchEndpoint)
		if !ok {
			return fmt.Errorf("%w: unknown endpoint %q", apperrors.ErrNotFound, fetchEndpoint)
		}
		path = ep.Path
	}

	run, err := newTerminalRun(cmd, fetchURL, fetchTimeout, fetchRetries)
	if err != nil {
		return err
	}
	defer run.close()

	if path != "" {
		run.ctrl.FetchEndpoint(run.ctx, path)
	} else {
		run.ctrl.FetchAllEndpoints(run.ctx)
	}
	return run.result()
}
