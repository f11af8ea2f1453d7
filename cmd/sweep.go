package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/sim"
	"github.com/kilianp07/bessim/infra/logger"
	"github.com/kilianp07/bessim/infra/seriesio"
)

var sweepStrategies []string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare dispatch strategies over the same inputs",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().StringSliceVar(&sweepStrategies, "strategies",
		[]string{"baseline", "price_arbitrage"}, "strategies to compare")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	in, err := seriesio.Load(cfg.Input)
	if err != nil {
		return fmt.Errorf("load input series: %w", err)
	}

	scenarios := make([]sim.Scenario, len(sweepStrategies))
	for i, name := range sweepStrategies {
		stratCfg := cfg.Strategy
		stratCfg.Name = name
		scenarios[i] = sim.Scenario{
			Name:     name,
			Battery:  cfg.Battery,
			Strategy: stratCfg,
		}
	}

	results := sim.Sweep(scenarios, in, sim.Options{
		StepHours:   cfg.Simulation.StepHours,
		GridLimitKW: cfg.Simulation.GridLimitKW,
		Log:         logger.New("sweep"),
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "scenario\tnet cost\timport kWh\texport kWh\tcycles\tfinal soc")
	var failed bool
	for _, r := range results {
		if r.Err != nil {
			failed = true
			fmt.Fprintf(w, "%s\terror: %v\n", r.Scenario.Name, r.Err)
			continue
		}
		s := r.Summary
		fmt.Fprintf(w, "%s\t%.2f\t%.1f\t%.1f\t%.2f\t%.3f\n",
			r.Scenario.Name, s.NetCost, s.GridImportKWh, s.GridExportKWh,
			s.EquivalentCycles, s.FinalSoC)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("one or more scenarios failed")
	}
	return nil
}
