package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/garunski/api-explorer/pkg/explorer/controller"
	"github.com/garunski/api-explorer/pkg/explorer/storage"
	"github.com/garunski/api-explorer/pkg/explorer/view"
)

// terminalRun wires a controller to a terminal display for one command.
type terminalRun struct {
	ctrl  *controller.Controller
	term  *view.Terminal
	ctx   context.Context
	close func()
}

func newTerminalRun(cmd *cobra.Command, url string, timeout time.Duration, retries int) (*terminalRun, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}
	if retries >= 0 {
		cfg.MaxRetries = retries
	}

	logger, closeLogs, err := commandLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	term := view.NewTerminal(cmd.OutOrStdout(), url, controller.SlotNames())
	ctrl := controller.New(term, storage.NewMemoryStore(0), logger, cfg.ControllerOptions())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return &terminalRun{
		ctrl: ctrl,
		term: term,
		ctx:  ctx,
		close: func() {
			stop()
			ctrl.Close()
			closeLogs()
		},
	}, nil
}

// result turns printed failures into the command error.
func (r *terminalRun) result() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	if n := r.term.Failures(); n > 0 {
		return fmt.Errorf("%d check(s) failed", n)
	}
	return nil
}
