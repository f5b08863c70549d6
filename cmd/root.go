package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(wireOptions{}).ExecuteContext(ctx)
}

func newRootCmd(opts wireOptions) *cobra.Command {
	var once bool

	rootCmd := &cobra.Command{
		Use:   "checkin",
		Short: "PiggyCell daily check-in bot",
		Long: "checkin signs every configured PiggyCell account in once a day. " +
			"It runs a pass immediately, then daily at sign_in_time until interrupted. " +
			"Use --once for a single pass.",
		SilenceUsage: true,
		// Anything other than --once starts the scheduler.
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.console = consoleWriter(cmd)
			app, err := wireApp(opts)
			if err != nil {
				return err
			}
			defer app.close()

			if once {
				app.runOnce(cmd.Context())
				return nil
			}

			return app.runScheduled(cmd.Context())
		},
	}

	rootCmd.Flags().BoolVar(&once, "once", false, "run a single check-in pass and exit")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountsCmd(opts),
	)

	return rootCmd
}

// consoleWriter returns nil for the real stdout so logging can wrap it for colour support.
func consoleWriter(cmd *cobra.Command) io.Writer {
	if out := cmd.OutOrStdout(); out != os.Stdout {
		return out
	}
	return nil
}
