package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bricksvaluation/web/internal/form"
	"github.com/bricksvaluation/web/internal/view"
)

// ErrReported is returned once a failure has been rendered to the output.
var ErrReported = errors.New("command failed")

func newRegisterCommand(a *app) *cobra.Command {
	var input form.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a BricksValuation account",
		Long: `Create a BricksValuation account.

Examples:
  bricks register --username alice --email a@x.io --password Secret123! --confirm-password Secret123!

  # Against the in-process mock API
  bricks --mock register -u alice -e a@x.io -p Secret123! -c Secret123!`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			v := view.NewRegisterView(s.auth, s.notifications)
			v.Form.Username = input.Username
			v.Form.Email = input.Email
			v.Form.Password = input.Password
			v.Form.ConfirmPassword = input.ConfirmPassword

			out := cmd.OutOrStdout()
			resp, err := v.Submit(cmd.Context())
			if err != nil {
				if rerr := v.Render(out); rerr != nil {
					return rerr
				}
				return ErrReported
			}

			for _, n := range s.notifications.List() {
				fmt.Fprintln(out, n.Message)
			}
			fmt.Fprintf(out, "id=%d username=%s email=%s\n", resp.ID, resp.Username, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&input.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&input.ConfirmPassword, "confirm-password", "c", "", "password confirmation")
	return cmd
}
