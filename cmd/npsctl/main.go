package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/npspulse/internal/config"
	"github.com/soaringjerry/npspulse/internal/db"
	"github.com/soaringjerry/npspulse/internal/logging"
	"github.com/soaringjerry/npspulse/internal/services"
	"github.com/soaringjerry/npspulse/internal/utils"
)

type globalFlags struct {
	configPath string
	dataPath   string
	driver     string
	lang       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "npsctl",
		Short: "Collect and score Net Promoter Score survey responses",
		Long: `npsctl works directly on the response store used by the NPS server.

It can record a response, print the current NPS with its interpretation,
list the guidance table and export every response as CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (default $NPS_CONFIG)")
	root.PersistentFlags().StringVar(&g.dataPath, "data", "", "override the CSV data file or SQLite database path")
	root.PersistentFlags().StringVar(&g.driver, "driver", "", "override the store driver (csv|sqlite)")
	root.PersistentFlags().StringVar(&g.lang, "lang", "en", "language for user-facing messages (en|zh)")

	root.AddCommand(submitCmd(g))
	root.AddCommand(reportCmd(g))
	root.AddCommand(insightsCmd())
	root.AddCommand(exportCmd(g))
	return root
}

// openStore resolves config the same way the server does, then applies CLI overrides.
func openStore(ctx context.Context, g *globalFlags, stderr io.Writer) (db.Store, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.driver != "" {
		cfg.Store.Driver = g.driver
	}
	if g.dataPath != "" {
		if cfg.Store.Driver == config.DriverSQLite {
			cfg.Store.SQLitePath = g.dataPath
		} else {
			cfg.Store.DataPath = g.dataPath
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logCfg := cfg.Logging
	if logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	logger := logging.NewWithWriter(logCfg, stderr)
	store, err := db.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, logger, nil
}

func submitCmd(g *globalFlags) *cobra.Command {
	var req services.SubmitRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record one survey response",
		Long: `Record one survey response.

Examples:
  npsctl submit --name "Ada" --email ada@example.com --score 9 --feedback "fast support"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, logger, err := openStore(ctx, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()
			stored, err := services.NewResponseService(store, logger).Submit(ctx, req)
			if err != nil {
				return userError(g.lang, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.T(g.lang, "submit.thanks"))
			fmt.Fprintf(cmd.OutOrStdout(), "segment: %s\n", stored.Segment)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "respondent name")
	cmd.Flags().StringVar(&req.Email, "email", "", "respondent email")
	cmd.Flags().IntVar(&req.Score, "score", -1, "likelihood to recommend, 0-10")
	cmd.Flags().StringVar(&req.Feedback, "feedback", "", "optional free-text feedback")
	return cmd
}

func reportCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the NPS, segment counts and recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()
			rs, err := store.LoadAll(ctx)
			if err != nil {
				return userError(g.lang, err)
			}
			summary, err := services.Summarize(rs)
			if err != nil {
				return userError(g.lang, err)
			}
			rep, err := services.BuildReport(rs)
			if err != nil {
				return userError(g.lang, err)
			}
			printReport(cmd.OutOrStdout(), g.lang, rep, summary)
			return nil
		},
	}
}

func insightsCmd() *cobra.Command {
	var nps float64
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show the guidance table, or the entry for --nps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("nps") {
				printInsight(cmd.OutOrStdout(), services.ResolveInsight(nps))
				return nil
			}
			for _, in := range services.Insights() {
				printInsight(cmd.OutOrStdout(), in)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&nps, "nps", 0, "NPS value to interpret")
	return cmd
}

func exportCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every response as CSV",
		Long: `Write every response as CSV (name, email, score, feedback, segment, timestamp).

Examples:
  npsctl export --out nps_survey_responses.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, _, err := openStore(ctx, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()
			res, err := services.NewExportService(store).ExportCSV(ctx)
			if err != nil {
				return userError(g.lang, err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(res.Data)
				return err
			}
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d responses to %s\n", res.Rows, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

// userError replaces service errors with the localized message a user can act on.
func userError(lang string, err error) error {
	switch services.KindOf(err) {
	case services.KindInvalid:
		if errors.Is(err, services.ErrMissingContact) {
			return errors.New(utils.T(lang, "submit.contact"))
		}
		return errors.New(utils.T(lang, "submit.score"))
	case services.KindStorage:
		return fmt.Errorf("%s (%v)", utils.T(lang, "error.storage"), err)
	}
	return err
}
