package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newEnvCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved client configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			rows := []struct {
				key   string
				value any
			}{
				{"API_BASE_URL", cfg.APIBaseURL},
				{"API_VERSION", cfg.APIVersion},
				{"API_TIMEOUT", cfg.Timeout},
				{"APP_TITLE", cfg.AppTitle},
				{"APP_ENV", cfg.AppEnv},
				{"IS_DEV", cfg.IsDev},
				{"IS_PROD", cfg.IsProd},
				{"ENABLE_MOCK_DATA", cfg.EnableMockData},
				{"LOG_LEVEL", cfg.LogLevel},
				{"REGISTER_ENDPOINT", cfg.Endpoint(cfg.AuthPath("register"))},
			}
			for _, row := range rows {
				if _, err := fmt.Fprintf(w, "%s\t%v\n", row.key, row.value); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
