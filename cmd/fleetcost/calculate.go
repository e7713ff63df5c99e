package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rshade/fleetcost/internal/api"
	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/engine"
	"github.com/rshade/fleetcost/internal/seed"
)

type calculateOptions struct {
	catalogPath string
	distance    float64
	days        float64
	margin      float64
	co2Price    float64
	vehicle     string
	format      string
}

func newCalculateCmd() *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate costs for a scenario from a catalog file",
		Long: `Calculate and rank the cost of every active energy of a seed catalog.

Examples:
  # Rank the reference catalog for 450 km/day over 22 days
  fleetcost calculate --catalog database/seed-data.json --distance 450 --days 22

  # Override the margin and CO2 price, print JSON
  fleetcost calculate --catalog fleet.yaml --margin 0.15 --co2-price 95 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogPath, "catalog", "database/seed-data.json", "Seed catalog file (JSON or YAML)")
	flags.Float64Var(&opts.distance, "distance", 0, "Distance per day; 0 uses the catalog default")
	flags.Float64Var(&opts.days, "days", 0, "Operating days per month; 0 uses the catalog default")
	flags.Float64Var(&opts.margin, "margin", 0, "Margin override as a fraction")
	flags.Float64Var(&opts.co2Price, "co2-price", 0, "CO2 price per ton override")
	flags.StringVar(&opts.vehicle, "vehicle", string(catalog.VehicleTrailer), "Vehicle configuration (Trailer, Dolly)")
	flags.StringVar(&opts.format, "format", "table", "Output format (table, json)")
	return cmd
}

func runCalculate(cmd *cobra.Command, opts calculateOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q, expected table or json", opts.format)
	}
	vehicle, err := catalog.ParseVehicleConfiguration(opts.vehicle)
	if err != nil {
		return err
	}

	f, err := seed.Load(opts.catalogPath)
	if err != nil {
		return err
	}
	built, err := seed.Build(f)
	if err != nil {
		return err
	}
	params, err := catalog.NewParameterSet(built.Parameters)
	if err != nil {
		return err
	}

	for _, issue := range engine.UnorderedCombinedDependencies(built.Energies) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue)
	}

	scenario := engine.Scenario{
		DistancePerDay: decimal.NewFromFloat(opts.distance),
		DaysPerMonth:   decimal.NewFromFloat(opts.days),
		Vehicle:        vehicle,
	}
	if cmd.Flags().Changed("margin") {
		scenario.MarginOverride = decimal.NewNullDecimal(decimal.NewFromFloat(opts.margin))
	}
	if cmd.Flags().Changed("co2-price") {
		scenario.CO2PricePerTonOverride = decimal.NewNullDecimal(decimal.NewFromFloat(opts.co2Price))
	}

	summary, err := engine.Calculate(scenario, built.Energies, params)
	if err != nil {
		return err
	}

	resp := api.NewCalculationResponse(summary)
	if opts.format == "json" {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	return writeTable(cmd.OutOrStdout(), resp)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeTable(w io.Writer, resp api.CalculationResponse) error {
	sc := resp.Scenario
	if _, err := fmt.Fprintf(w, "Distance/day: %g  Days/month: %g  Monthly distance: %g  Margin: %g  CO2 price/t: %g  Vehicle: %s\n\n",
		sc.DistancePerDay, sc.DaysPerMonth, sc.MonthlyDistance, sc.Margin, sc.CO2PricePerTon, sc.Vehicle); err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		_, err := fmt.Fprintln(w, "No results: the monthly distance is zero.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{"#", "CODE", "MODE", "ENERGY/D", "CARBON/D", "OPERATING/D", "TOTAL/D", "PER DAY", "TARIFF", "KG CO2/D", "VS DIESEL", "CO2 VS DIESEL", "VS DUO GASOIL"}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return err
	}
	for i, r := range resp.Results {
		row := []string{
			fmt.Sprint(i + 1),
			r.EnergyCode,
			r.Mode,
			fmt.Sprintf("%.4f", r.EnergyCostPerDistance),
			fmt.Sprintf("%.4f", r.CarbonCostPerDistance),
			fmt.Sprintf("%.4f", r.OperatingCostPerDistance),
			fmt.Sprintf("%.4f", r.TotalCostPerDistance),
			fmt.Sprintf("%.2f", r.CostPerDay),
			fmt.Sprintf("%.2f", r.SuggestedTariff),
			fmt.Sprintf("%.4f", r.EmissionsPerDistance),
			percent(&r.ExtraCostVsBaseline),
			percent(r.EmissionReductionVsBaseline),
			percent(r.ExtraCostVsCombinedBaseline),
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", *v*100)
}
