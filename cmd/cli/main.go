package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"statkit/adapters/excel"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/analysis"
	"statkit/internal/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statkit-cli",
		Short: "Run adaptive statistical analyses from the command line",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var alpha float64
	var confidence float64
	var format string

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Analyze grouped data from an Excel, CSV, or JSON file",
		Long: `Analyze grouped numeric data. For Excel and CSV files each column is one
group: the header cell is the group label, the cells below are observations.
A .json file uses the API request shape: {"groups": [[...]], "labels": [...]}.

Example: statkit-cli analyze measurements.xlsx --alpha 0.01 --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], alpha, confidence, format)
		},
	}

	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "confidence level for intervals")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or markdown")
	return cmd
}

// jsonGroupFile mirrors the API request body so a saved request can be
// analyzed directly from disk
type jsonGroupFile struct {
	Groups [][]float64 `json:"groups"`
	Labels []string    `json:"labels"`
}

func loadGroups(path string) ([][]float64, []core.GroupLabel, error) {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		var file jsonGroupFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, nil, fmt.Errorf("invalid JSON data file: %w", err)
		}
		labels := make([]core.GroupLabel, len(file.Labels))
		for i, l := range file.Labels {
			labels[i] = core.GroupLabel(l)
		}
		return file.Groups, labels, nil
	}

	groupData, err := excel.NewDataReader().ReadGroups(path)
	if err != nil {
		return nil, nil, err
	}
	groups := make([][]float64, len(groupData))
	labels := make([]core.GroupLabel, len(groupData))
	for i, g := range groupData {
		groups[i] = g.Values
		labels[i] = g.Label
	}
	return groups, labels, nil
}

func runAnalyze(cmd *cobra.Command, path string, alpha, confidence float64, format string) error {
	groups, labels, err := loadGroups(path)
	if err != nil {
		return err
	}

	options := stats.DefaultOptions()
	options.Alpha = alpha
	options.Confidence = confidence

	request, err := stats.NewAnalysisRequest(groups, labels, options)
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(internal.DefaultLogger)
	result, err := engine.Analyze(cmd.Context(), request)
	if err != nil {
		return err
	}

	switch format {
	case "markdown":
		fmt.Print(report.NewGenerator().Markdown(result))
	case "json":
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	default:
		return fmt.Errorf("unknown format %q (use json or markdown)", format)
	}
	return nil
}
