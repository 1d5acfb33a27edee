// Command timefit builds time index tables and fits latent temporal
// processes from CSV observation files.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	timefit "github.com/kmaguire4/go-timefit"
	"github.com/kmaguire4/go-timefit/process"
	"github.com/kmaguire4/go-timefit/timeindex"
	"github.com/kmaguire4/go-timefit/timevalue"
)

var errColumnNotFound = errors.New("column not found in csv header")

var (
	flagFile        string
	flagTimeCol     string
	flagValueCol    string
	flagCategorical bool
	flagExtra       []string
	flagProcess     string
	flagRho         float64
	flagFixRho      bool
	flagLevel       float64
	flagPlot        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "timefit",
		Short:         "Fit latent temporal processes to gapped time series",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "csv file with one observation per row")
	rootCmd.PersistentFlags().StringVar(&flagTimeCol, "time-col", "time", "name of the time column")
	rootCmd.PersistentFlags().BoolVar(&flagCategorical, "categorical", false, "treat time values as category labels instead of numbers")
	rootCmd.PersistentFlags().StringSliceVar(&flagExtra, "extra", nil, "extra time values to step through without observations")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Build and print the time index table for a csv file",
		RunE:  runIndex,
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a latent process and print the tidy parameter and state tables",
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&flagValueCol, "value-col", "value", "name of the observation column")
	fitCmd.Flags().StringVar(&flagProcess, "process", "rw", "latent process type: iid, rw, or ar1")
	fitCmd.Flags().Float64Var(&flagRho, "rho", 0.5, "ar(1) coefficient, starting point unless --fix-rho")
	fitCmd.Flags().BoolVar(&flagFixRho, "fix-rho", false, "hold the ar(1) coefficient fixed at --rho")
	fitCmd.Flags().Float64Var(&flagLevel, "level", timefit.DefaultConfidenceLevel, "confidence level for reported intervals")
	fitCmd.Flags().StringVar(&flagPlot, "plot", "", "write an html plot of the fit to this path")

	rootCmd.AddCommand(indexCmd, fitCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	rows, header, err := readCSV(flagFile)
	if err != nil {
		return err
	}
	observed, err := parseColumn(rows, header, flagTimeCol)
	if err != nil {
		return err
	}
	extra, err := parseValues(flagExtra)
	if err != nil {
		return err
	}

	table, err := timeindex.Build(observed, append(observed, extra...))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "index\ttime\textra\n")
	for _, r := range table.Records() {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%t\n", r.Index, r.Value, r.Extra)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d steps, %d extra\n", table.Len(), table.NumExtra())
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	rows, header, err := readCSV(flagFile)
	if err != nil {
		return err
	}
	t, err := parseColumn(rows, header, flagTimeCol)
	if err != nil {
		return err
	}
	y, err := parseFloatColumn(rows, header, flagValueCol)
	if err != nil {
		return err
	}
	extra, err := parseValues(flagExtra)
	if err != nil {
		return err
	}
	typ, err := process.ParseType(flagProcess)
	if err != nil {
		return err
	}

	opt := timefit.NewDefaultOptions()
	opt.Process = &process.Options{
		Type:        typ,
		Rho:         flagRho,
		EstimateRho: !flagFixRho,
		ObsSD:       1,
		ProcSD:      1,
	}
	opt.ExtraTimes = extra
	opt.ConfidenceLevel = flagLevel

	f, err := timefit.New(opt)
	if err != nil {
		return err
	}
	if err := f.Fit(t, y); err != nil {
		return err
	}

	m, err := f.Model()
	if err != nil {
		return err
	}
	if err := m.TablePrint(cmd.OutOrStdout()); err != nil {
		return err
	}

	if flagPlot != "" {
		if err := f.PlotFit(flagPlot); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nplot written to %s\n", flagPlot)
	}
	return nil
}

func readCSV(path string) ([][]string, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("csv %s needs a header and at least one row", path)
	}
	return records[1:], records[0], nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q, %w", name, errColumnNotFound)
}

func parseColumn(rows [][]string, header []string, name string) ([]timevalue.Value, error) {
	col, err := columnIndex(header, name)
	if err != nil {
		return nil, err
	}
	raw := make([]string, 0, len(rows))
	for _, row := range rows {
		raw = append(raw, row[col])
	}
	return parseValues(raw)
}

func parseFloatColumn(rows [][]string, header []string, name string) ([]float64, error) {
	col, err := columnIndex(header, name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", i+1, name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseValues(raw []string) ([]timevalue.Value, error) {
	out := make([]timevalue.Value, 0, len(raw))
	for i, s := range raw {
		if flagCategorical {
			out = append(out, timevalue.Category(s))
			continue
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("time value %d %q is not numeric; use --categorical for labeled time values: %w", i+1, s, err)
		}
		out = append(out, timevalue.Num(n))
	}
	return out, nil
}
