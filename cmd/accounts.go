package cmd

import (
	"fmt"

	statusadapter "github.com/bnema/checkin-bot/internal/adapters/render/status"
	"github.com/bnema/checkin-bot/internal/application"
	"github.com/spf13/cobra"
)

func newAccountsCmd(opts wireOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Show configured accounts and their token state",
		Long:  "Show every configured account with an offline token check. No requests are sent.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.console = cmd.ErrOrStderr()
			app, err := wireApp(opts)
			if err != nil {
				return err
			}
			defer app.close()

			accounts, err := app.repo.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list accounts: %w", err)
			}

			rows := make([]statusadapter.AccountRow, 0, len(accounts))
			for _, account := range accounts {
				assessment, needsProbe := app.validator.Inspect(account)
				rows = append(rows, statusadapter.AccountRow{
					Account:    account,
					Assessment: assessment,
					NeedsProbe: needsProbe,
				})
			}

			now := app.rt.Clock.Now()
			rendered, err := app.renderer(rows, statusadapter.RenderOptions{
				Now:     now,
				NextRun: application.NextRun(now, app.cfg.SignInTime),
				Proxies: app.rt.Proxies.Len(),
			})
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
