package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/form"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/view"
)

// credentials sign in before commands that need a session.
type credentials struct {
	username string
	password string
}

func newBrickSetsCommand(a *app) *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:     "bricksets",
		Aliases: []string{"sets"},
		Short:   "Browse, add, value and like brick sets",
	}
	cmd.PersistentFlags().StringVarP(&creds.username, "username", "u", "", "sign in as this user first")
	cmd.PersistentFlags().StringVarP(&creds.password, "password", "p", "", "password for --username")

	cmd.AddCommand(
		newBrickSetsListCommand(a),
		newBrickSetsShowCommand(a),
		newBrickSetsAddCommand(a, &creds),
		newBrickSetsValueCommand(a, &creds),
		newBrickSetsLikeCommand(a, &creds),
		newBrickSetsMineCommand(a, &creds),
	)
	return cmd
}

func newBrickSetsListCommand(a *app) *cobra.Command {
	filters := dto.DefaultBrickSetFilters()
	var status, completeness string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List brick sets matching the filters",
		Long: `List brick sets matching the filters.

Examples:
  bricks --mock bricksets list --status RETIRED --ordering -total_likes
  bricks bricksets list -q 101 --box --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			filters.ProductionStatus = dto.ProductionStatus(status)
			filters.Completeness = dto.Completeness(completeness)
			page := filters.Page
			filters.Page = 1
			s.catalog.SetFilters(filters)
			filters = s.catalog.State().Filters
			filters.Page = page
			s.catalog.SetFilters(filters)

			list := view.NewBrickSetList(s.catalog)
			searchErr := s.catalog.Search(cmd.Context())
			if err := list.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			if searchErr != nil {
				return ErrReported
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filters.Q, "query", "q", "", "part of the set number")
	flags.StringVar(&status, "status", "", "production status: ACTIVE or RETIRED")
	flags.StringVar(&completeness, "completeness", "", "COMPLETE or INCOMPLETE")
	flags.BoolVar(&filters.HasInstructions, "instructions", false, "only sets with instructions")
	flags.BoolVar(&filters.HasBox, "box", false, "only sets with the box")
	flags.BoolVar(&filters.IsFactorySealed, "sealed", false, "only factory sealed sets")
	flags.StringVar(&filters.Ordering, "ordering", dto.DefaultOrdering, "sort order, e.g. number or -total_likes")
	flags.IntVar(&filters.Page, "page", 1, "page number")
	flags.IntVar(&filters.PageSize, "page-size", dto.DefaultPageSize, "results per page")
	return cmd
}

func newBrickSetsShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a brick set with its valuations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			detail, err := s.catalog.FetchBrickSet(cmd.Context(), id)
			if err != nil {
				return reportState(out, s.catalog.State().Error)
			}
			return view.RenderBrickSetDetail(out, detail, time.Now())
		},
	}
}

func newBrickSetsAddCommand(a *app, creds *credentials) *cobra.Command {
	var input form.BrickSetForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a brick set to the catalog",
		Long: `Add a brick set to the catalog.

Examples:
  bricks --mock bricksets add -u demo -p Demo1234! --number 10270 --status ACTIVE --completeness COMPLETE --box`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !input.Validate() {
				if err := view.RenderFieldErrors(out, input.FieldErrors()); err != nil {
					return err
				}
				return ErrReported
			}

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			if err := signIn(cmd, s, creds); err != nil {
				return err
			}

			item, err := s.catalog.CreateBrickSet(cmd.Context(), input.Request())
			if err != nil {
				if fields := serverFieldErrors(err); len(fields) > 0 {
					if rerr := view.RenderFieldErrors(out, fields); rerr != nil {
						return rerr
					}
					return ErrReported
				}
				return reportState(out, s.catalog.State().Error)
			}
			fmt.Fprintf(out, "created brick set %d (id=%d)\n", item.Number, item.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Number, "number", "", "set number")
	flags.StringVar(&input.ProductionStatus, "status", "", "production status: ACTIVE or RETIRED")
	flags.StringVar(&input.Completeness, "completeness", "", "COMPLETE or INCOMPLETE")
	flags.BoolVar(&input.HasInstructions, "instructions", false, "instructions included")
	flags.BoolVar(&input.HasBox, "box", false, "box included")
	flags.BoolVar(&input.IsFactorySealed, "sealed", false, "factory sealed")
	flags.StringVar(&input.OwnerInitialEstimate, "estimate", "", "owner's estimate in PLN")
	return cmd
}

func newBrickSetsValueCommand(a *app, creds *credentials) *cobra.Command {
	var input form.ValuationForm

	cmd := &cobra.Command{
		Use:   "value ID",
		Short: "Value a brick set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !input.Validate() {
				if err := view.RenderFieldErrors(out, input.FieldErrors()); err != nil {
					return err
				}
				return ErrReported
			}

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			if err := signIn(cmd, s, creds); err != nil {
				return err
			}

			v, err := s.catalog.CreateValuation(cmd.Context(), id, input.Request())
			if err != nil {
				return reportState(out, s.catalog.State().Error)
			}
			fmt.Fprintf(out, "valued brick set %d at %s (valuation id=%d)\n", id, view.FormatCurrency(v.Value), v.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Value, "value", "", "value in PLN")
	cmd.Flags().StringVar(&input.Comment, "comment", "", "optional comment")
	return cmd
}

func newBrickSetsLikeCommand(a *app, creds *credentials) *cobra.Command {
	return &cobra.Command{
		Use:   "like VALUATION_ID",
		Short: "Like another user's valuation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			if err := signIn(cmd, s, creds); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := s.catalog.LikeValuation(cmd.Context(), id); err != nil {
				return reportState(out, s.catalog.State().Error)
			}
			fmt.Fprintf(out, "liked valuation %d\n", id)
			return nil
		},
	}
}

func newBrickSetsMineCommand(a *app, creds *credentials) *cobra.Command {
	var (
		ordering   string
		page       int
		valuations bool
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your brick sets or valuations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			if err := signIn(cmd, s, creds); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if valuations {
				res, err := s.catalog.MyValuations(cmd.Context(), page)
				if err != nil {
					return reportState(out, s.catalog.State().Error)
				}
				for _, v := range res.Results {
					fmt.Fprintf(out, "[%d] #%05d  %d %s  %d %s\n", v.ID, v.BrickSet.Number, v.Value, v.Currency, v.LikesCount, view.T("bricksets.likes"))
				}
				return nil
			}

			res, err := s.catalog.MyBrickSets(cmd.Context(), ordering, page)
			if err != nil {
				return reportState(out, s.catalog.State().Error)
			}
			for _, b := range res.Results {
				fmt.Fprintf(out, "[%d] #%05d  %d %s, %d %s  editable=%t\n", b.ID, b.Number,
					b.ValuationsCount, view.T("bricksets.valuations"), b.TotalLikes, view.T("bricksets.likes"), b.Editable)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ordering, "ordering", "", "sort order of your sets, e.g. -total_likes")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&valuations, "valuations", false, "list your valuations instead of your sets")
	return cmd
}

// signIn logs in when credentials were given. Without them the request goes
// out anonymously and the API decides.
func signIn(cmd *cobra.Command, s *session, creds *credentials) error {
	if creds.username == "" {
		return nil
	}
	if _, err := s.auth.Login(cmd.Context(), dto.LoginRequest{Username: creds.username, Password: creds.password}); err != nil {
		return reportState(cmd.OutOrStdout(), s.auth.State().Error)
	}
	return nil
}

func reportState(w io.Writer, message string) error {
	if err := view.NewErrorState(message).Render(w); err != nil {
		return err
	}
	return ErrReported
}

// serverFieldErrors extracts the field errors of a 400 response.
func serverFieldErrors(err error) map[string]string {
	var respErr *httpclient.ResponseError
	if !errors.As(err, &respErr) || respErr.Status() != http.StatusBadRequest {
		return nil
	}
	var body dto.ValidationErrorBody
	if respErr.Decode(&body) != nil {
		return nil
	}
	out := make(map[string]string, len(body.Errors))
	for field, msgs := range body.Errors {
		if len(msgs) > 0 {
			out[field] = msgs[0]
		}
	}
	return out
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
