// Command impact-report prints automation impact for the projects an export catalog holds
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"impactlog/internal/core/version"
	modkit "impactlog/internal/modkit"
	"impactlog/internal/platform/config"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
	"impactlog/internal/platform/store"
	impactmod "impactlog/internal/services/impact/module"
	impactrepo "impactlog/internal/services/impact/repo"
	impactsvc "impactlog/internal/services/impact/service"
)

// app carries the flags every subcommand shares
type app struct {
	root config.Conf
	out  io.Writer

	baseURL string
	rules   string
	format  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout belongs to the report
	lo := logger.FromEnv()
	lo.Writer = os.Stderr
	lo.Component = "report"
	logger.Init(lo)

	if err := newRoot(config.New(), os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRoot(root config.Conf, out io.Writer) *cobra.Command {
	a := &app{root: root, out: out}

	cmd := &cobra.Command{
		Use:   "impact-report",
		Short: "Automation impact metrics from Asana, Jira, Zapier, HubSpot and Microsoft 365 exports",
		Long: `impact-report reads the same export catalog as the API and prints its metrics.

The catalog defaults to CORE_IMPACT_BASE_URL:
  file:///srv/exports      one directory per project
  https://host/prefix      remote export server
  postgres://...           impact_exports table, filled by "load"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch a.format {
			case "table", "json":
				return nil
			}
			return perr.WithField(perr.InvalidArgf("unknown format %q, want table or json", a.format), "format")
		},
	}
	cmd.SetOut(out)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.baseURL, "base-url", "", "export catalog, overrides CORE_IMPACT_BASE_URL")
	pf.StringVar(&a.rules, "rules", "", "YAML rule overrides, overrides CORE_IMPACT_RULES_FILE")
	pf.StringVarP(&a.format, "format", "f", "table", "output format (table, json)")

	cmd.AddCommand(a.projectsCmd(), a.metricsCmd(), a.loadCmd(), a.versionCmd())
	return cmd
}

// options resolves CORE_IMPACT_* and applies the persistent flags
func (a *app) options() impactmod.Options {
	o := impactmod.FromConfig(a.root.Prefix("CORE_"))
	if a.baseURL != "" {
		o.BaseURL = a.baseURL
	}
	if a.rules != "" {
		o.RulesFile = a.rules
	}
	return o
}

// openStore connects to postgres for url; SERVICE_PGSQL_* tunes the pool
func (a *app) openStore(ctx context.Context, url string) (*store.Store, error) {
	return store.Open(ctx,
		store.Config{
			AppName: "impact-report",
			PG:      store.PGConfigFrom(a.root.Prefix("SERVICE_PGSQL_"), url, 2),
		},
		store.WithLogger(*logger.Named("report")),
	)
}

// service builds the impact service over the configured catalog
// the returned close func releases the store when one was opened
func (a *app) service(ctx context.Context) (*impactsvc.Svc, func(), error) {
	o := a.options()
	deps := modkit.Deps{Log: *logger.Named("report"), Cfg: a.root.Prefix("CORE_")}
	closer := func() {}

	if impactrepo.IsPostgres(o.BaseURL) {
		st, err := a.openStore(ctx, o.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		deps.PG = st.PG
		closer = func() { _ = st.Close(context.Background()) }
	}

	svc, _, err := impactmod.Open(deps, o)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return svc, closer, nil
}

func (a *app) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the projects the catalog holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			res, err := svc.Projects(cmd.Context())
			if err != nil {
				return err
			}
			if a.format == "json" {
				return writeJSON(a.out, res)
			}
			return renderProjects(a.out, res)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			bi := version.Info()
			if a.format == "json" {
				return writeJSON(a.out, bi)
			}
			_, err := fmt.Fprintf(a.out, "impact-report %s (commit: %s, built: %s)\n", bi.Version, bi.Commit, bi.Date)
			return err
		},
	}
}
