package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/view"
)

func newLoginCommand(a *app) *cobra.Command {
	var (
		req         dto.LoginRequest
		showProfile bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and optionally print the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			user, err := s.auth.Login(cmd.Context(), req)
			if err != nil {
				if rerr := view.NewErrorState(s.auth.State().Error).Render(out); rerr != nil {
					return rerr
				}
				return ErrReported
			}
			fmt.Fprintf(out, "logged in as %s (id=%d)\n", user.Username, user.ID)

			if !showProfile {
				return nil
			}
			profile, err := s.auth.FetchProfile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				fmt.Fprintln(out, "no active session")
				return nil
			}
			fmt.Fprintf(out, "email=%s", profile.Email)
			if profile.CreatedAt != nil {
				fmt.Fprintf(out, " created_at=%s", profile.CreatedAt.Format(time.RFC3339))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&showProfile, "profile", false, "fetch the profile after signing in")
	return cmd
}
