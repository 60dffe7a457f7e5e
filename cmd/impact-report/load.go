package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
	impactrepo "impactlog/internal/services/impact/repo"
)

func (a *app) loadCmd() *cobra.Command {
	var (
		from    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "load <project>",
		Short: "Copy a project's exports into the postgres catalog",
		Long: `Copy every export a project has in --from into the impact_exports table
of the postgres catalog named by --base-url. Earlier uploads are replaced in one transaction.`,
		Example: `  impact-report load acme --from file:///srv/exports --base-url postgres://impact@localhost/impact`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project := args[0]

			target := a.options().BaseURL
			if !impactrepo.IsPostgres(target) {
				return perr.WithField(perr.InvalidArgf("load needs a postgres base url, got %q", target), "base-url")
			}

			src, err := impactrepo.FromBaseURL(from, impactrepo.Options{Timeout: timeout})
			if err != nil {
				return perr.WithField(err, "from")
			}

			st, err := a.openStore(ctx, target)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			apps, err := impactrepo.Copy(ctx, st.PG, src, project, timeout)
			if err != nil {
				return err
			}

			logger.Named("report").Info().
				Str("project", project).
				Int("exports", len(apps)).
				Msg("exports loaded")
			if a.format == "json" {
				return writeJSON(a.out, map[string]any{"project": project, "loaded": apps})
			}
			_, err = fmt.Fprintf(a.out, "loaded %d exports for %s: %v\n", len(apps), project, apps)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "catalog to read exports from (file:// or http(s)://)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "fetch and statement timeout")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
