package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rfp-service/internal/catalog"
	"rfp-service/internal/config"
	"rfp-service/internal/matching"
	"rfp-service/internal/pricing"
	"rfp-service/internal/proposal/model"
	"rfp-service/internal/proposal/service"
)

const toolVersion = "0.3.0"

var (
	flagCatalog      string
	flagTests        string
	flagRequirements string
	flagOpportunity  string
	flagOutput       string
	flagTopK         int
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "quote",
	Short: "Match RFP requirements to the cable catalog and price the bid",
	Long: `quote ranks catalog items for every requirement line of an RFP,
selects the best match per line and prices the bid including mandatory
test fees.

Catalog, test-fee and requirement sources may be CSV, XLS or XLSX;
requirements may also be a JSON array.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyEnvDefaults(cmd, config.Load())
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a full proposal and write it as JSON",
	Long: `Build a full proposal and write it as JSON.

Examples:
  quote run --requirements scope.csv --opportunity rfp.json --output rfp_response.json
  quote run -r scope.json -o - --top-k 5`,
	RunE: runProposal,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Print the ranked shortlist for every requirement",
	RunE:  runMatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "quote", toolVersion)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagCatalog, "catalog", "c", "", "Product catalog file (default $CATALOG_FILE)")
	pf.StringVarP(&flagTests, "tests", "t", "", "Test-fee schedule file (default $TEST_FEES_FILE)")
	pf.StringVarP(&flagRequirements, "requirements", "r", "", "Requirement list (JSON, CSV, XLS or XLSX)")
	pf.IntVarP(&flagTopK, "top-k", "k", 0, "Candidates kept per requirement (default $TOP_K)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")

	runCmd.Flags().StringVar(&flagOpportunity, "opportunity", "", "Opportunity metadata JSON file")
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "rfp_response.json", "Output file ('-' for stdout)")

	rootCmd.AddCommand(runCmd, matchCmd, versionCmd)
}

// applyEnvDefaults fills the flags the user did not set from the
// environment. It runs once a command is chosen, not at package load.
func applyEnvDefaults(cmd *cobra.Command, cfg config.Config) {
	set := cmd.Flags().Changed
	if !set("catalog") {
		flagCatalog = cfg.CatalogFile
	}
	if !set("tests") {
		flagTests = cfg.TestFeesFile
	}
	if !set("top-k") {
		flagTopK = cfg.TopK
	}
}

func newLogger() zerolog.Logger {
	lvl := zerolog.WarnLevel
	if flagVerbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func buildService(log zerolog.Logger) (*service.Service, []matching.Requirement, error) {
	if flagRequirements == "" {
		return nil, nil, errors.New("--requirements is required")
	}
	store, err := catalog.LoadFile(flagCatalog)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	sched, err := pricing.LoadScheduleFile(flagTests)
	if err != nil {
		return nil, nil, fmt.Errorf("test fees: %w", err)
	}
	reqs, err := matching.LoadRequirementsFile(flagRequirements)
	if err != nil {
		return nil, nil, fmt.Errorf("requirements: %w", err)
	}
	log.Debug().Int("items", store.Len()).Int("requirements", len(reqs)).Msg("inputs loaded")
	return service.New(store, sched, service.WithTopK(flagTopK), service.WithLogger(log)), reqs, nil
}

func runProposal(cmd *cobra.Command, args []string) error {
	log := newLogger()
	svc, reqs, err := buildService(log)
	if err != nil {
		return err
	}

	var opp model.Opportunity
	if flagOpportunity != "" {
		b, err := os.ReadFile(flagOpportunity)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &opp); err != nil {
			return fmt.Errorf("opportunity: %w", err)
		}
	}

	p, err := svc.Run(context.Background(), service.Request{Opportunity: opp, Requirements: reqs, TopK: flagTopK})
	if err != nil {
		return err
	}

	if flagOutput == "-" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	if err := service.WriteJSON(flagOutput, p); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), p)
	fmt.Fprintf(cmd.OutOrStdout(), "\nResponse saved to %s\n", flagOutput)
	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	svc, reqs, err := buildService(newLogger())
	if err != nil {
		return err
	}
	ranked, err := svc.Match(context.Background(), reqs, flagTopK)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for i, r := range reqs {
		fmt.Fprintf(w, "%s\n", r.Name)
		fmt.Fprintln(w, "RANK\tSKU\tSCORE\tUNIT PRICE\tLEAD TIME")
		for _, c := range ranked[i] {
			fmt.Fprintf(w, "%d\t%s\t%.1f%%\t%s\t%dd\n", c.Rank, c.SKU, c.Score, c.UnitPrice, c.LeadTimeDays)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func printSummary(out io.Writer, p model.Proposal) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RFP:\t%s\n", p.ProjectName)
	fmt.Fprintf(w, "Client:\t%s\n", p.ClientName)
	fmt.Fprintf(w, "Due:\t%s\n", p.DueDate)
	fmt.Fprintf(w, "Strategic fit:\t%.0f%%\n", p.StrategicFitScore)
	for _, r := range p.Recommendations {
		fmt.Fprintf(w, "  %s\t-> %s (%.1f%%)\n", r.Product, r.SelectedSKU, r.SelectedScore)
	}
	fmt.Fprintf(w, "Material cost:\t%s\n", p.Pricing.MaterialCost.StringFixed(2))
	fmt.Fprintf(w, "Test cost:\t%s\n", p.Pricing.TestCost.StringFixed(2))
	fmt.Fprintf(w, "Grand total:\t%s\n", p.Pricing.GrandTotal.StringFixed(2))
	_ = w.Flush()
}
