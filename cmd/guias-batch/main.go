package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dfelipe-rojas/guias-tracker/constants"
	"github.com/dfelipe-rojas/guias-tracker/internal/export"
	"github.com/dfelipe-rojas/guias-tracker/internal/ingest"
	"github.com/dfelipe-rojas/guias-tracker/internal/repository"
	"github.com/dfelipe-rojas/guias-tracker/internal/risk"
)

var (
	flagDB            string
	flagOut           string
	flagForcedCarrier string
	flagRiskRules     string
	flagVerbose       bool
)

func main() {
	root := &cobra.Command{
		Use:           "guias-batch",
		Short:         "Parse pasted tracking text into classified shipment records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagDB, "db", ":memory:", "shipment store path (\":memory:\" for one-shot runs)")
	root.PersistentFlags().StringVar(&flagRiskRules, "risk-rules", "", "YAML file overriding risk thresholds")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	parseCmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Ingest paste files (or stdin) and print one line per shipment",
		Args:  cobra.ArbitraryArgs,
		RunE:  runParse,
	}
	parseCmd.Flags().StringVar(&flagOut, "out", "", "write an XLSX report to this path")
	parseCmd.Flags().StringVar(&flagForcedCarrier, "carrier", "", "force a carrier for detailed pastes (e.g. TCC)")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Dump an existing shipment store to XLSX",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&flagOut, "out", "guias.xlsx", "output XLSX path")

	root.AddCommand(parseCmd, exportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildService(ctx context.Context) (*ingest.Service, error) {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	db, err := repository.Open(ctx, flagDB, logger)
	if err != nil {
		return nil, err
	}
	repo := repository.NewShipmentRepository(db, logger)

	cfg, err := risk.LoadConfig(flagRiskRules)
	if err != nil {
		return nil, err
	}
	return ingest.NewService(repo, risk.New(cfg), logger), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := buildService(ctx)
	if err != nil {
		return err
	}

	pastes, err := readPastes(args)
	if err != nil {
		return err
	}

	for name, text := range pastes {
		if err := ingestPaste(ctx, svc, name, text); err != nil {
			return err
		}
	}

	shipments, err := svc.Shipments(ctx)
	if err != nil {
		return err
	}
	if len(shipments) == 0 {
		fmt.Println("no shipments detected")
		return nil
	}

	for _, s := range shipments {
		riskCol := ""
		if s.RiskAnalysis != nil {
			riskCol = fmt.Sprintf("%s (%s)", s.RiskAnalysis.Level, s.RiskAnalysis.Reason)
		}
		fmt.Printf("%-20s %-18s %-12s %s\n", s.ID, s.Carrier, s.Status, riskCol)
	}

	if flagOut != "" {
		return writeXLSX(ctx, svc, flagOut)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if flagDB == ":memory:" {
		return fmt.Errorf("export needs --db pointing at an existing store")
	}
	svc, err := buildService(ctx)
	if err != nil {
		return err
	}
	return writeXLSX(ctx, svc, flagOut)
}

// readPastes returns named paste texts from the file arguments, or a single
// stdin paste when no files are given.
func readPastes(args []string) (map[string]string, error) {
	pastes := make(map[string]string)
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		pastes["stdin"] = string(data)
		return pastes, nil
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		pastes[path] = string(data)
	}
	return pastes, nil
}

func ingestPaste(ctx context.Context, svc *ingest.Service, name, text string) error {
	switch ingest.SniffFormat(text) {
	case ingest.FormatDetailed:
		opts := ingest.DetailedOptions{}
		if flagForcedCarrier != "" {
			opts.ForcedCarrier = constants.Carrier(flagForcedCarrier)
		}
		_, err := svc.IngestDetailed(ctx, text, opts)
		return err
	case ingest.FormatSummary:
		_, err := svc.IngestSummary(ctx, text)
		return err
	case ingest.FormatPhones:
		_, _, err := svc.MergePhones(ctx, text)
		return err
	default:
		return fmt.Errorf("%s: format not recognized", name)
	}
}

func writeXLSX(ctx context.Context, svc *ingest.Service, path string) error {
	data, err := export.NewService(svc, slog.Default()).ShipmentsXLSX(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", path)
	return nil
}
