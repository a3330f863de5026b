package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	checkURL     string
	checkTimeout time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the connection to an API",
	Long: `Request {url}/ping once and report whether the API answered with a
2xx status. The request is never retried.`,
	Example: `  explorer check --url http://localhost:3000`,
	Args:    cobra.NoArgs,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkURL, "url", "u", "", "base API URL")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "request timeout (overrides configuration)")
	_ = checkCmd.MarkFlagRequired("url")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	run, err := newTerminalRun(cmd, checkURL, checkTimeout, -1)
	if err != nil {
		return err
	}
	defer run.close()

	run.ctrl.TestConnection(run.ctx)
	return run.result()
}
