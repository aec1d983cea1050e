package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cocochain/internal/config"
	"cocochain/internal/sim"
	"cocochain/internal/utils"
)

func main() {
	root := &cobra.Command{
		Use:           "cocochain",
		Short:         "Concept-level consensus simulator with semantic payload verification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand())
	root.AddCommand(multiDomainCommand())
	root.AddCommand(sweepCommand())

	if err := root.Execute(); err != nil {
		log.Fatalf("cocochain failed: %v", err)
	}
}

func runCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Run the single-domain consensus simulation",
		RunE:  runFunc,
	}
	f := c.Flags()
	f.String("config", "", "path to a YAML configuration file")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.Int("nodes", 0, "number of nodes")
	f.Int("rounds", 0, "number of simulation rounds")
	f.Uint64("seed", 0, "base random seed")
	f.Float64("adversarial", 0, "fraction of adversarial nodes")
	f.Int("runs", 1, "number of seeded runs to aggregate")
	f.Bool("no-verify", false, "disable semantic verification")
	return c
}

func runFunc(c *cobra.Command, _ []string) error {
	f := c.Flags()
	path, err := f.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.LoadSimConfig(path)
	if err != nil {
		return err
	}
	if err := applySimOverrides(cfg, f); err != nil {
		return err
	}
	runs, err := f.GetInt("runs")
	if err != nil {
		return err
	}

	logx := utils.NewManager(cfg.LogLevel)
	defer logx.Sync()

	if runs <= 1 {
		m, err := sim.Run(cfg, logx)
		if err != nil {
			return err
		}
		printRun(m)
		return nil
	}

	series, err := sim.RunSeries(cfg, seedRange(cfg.Seed, runs), logx)
	if err != nil {
		return err
	}
	printSeries(series)
	return nil
}

// applySimOverrides copies changed flags over the loaded configuration and
// re-validates, so flags always win over the file.
func applySimOverrides(cfg *config.SimConfig, f *pflag.FlagSet) error {
	if f.Changed("nodes") {
		v, err := f.GetInt("nodes")
		if err != nil {
			return err
		}
		cfg.Nodes = v
	}
	if f.Changed("rounds") {
		v, err := f.GetInt("rounds")
		if err != nil {
			return err
		}
		cfg.Rounds = v
	}
	if f.Changed("seed") {
		v, err := f.GetUint64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = v
	}
	if f.Changed("adversarial") {
		v, err := f.GetFloat64("adversarial")
		if err != nil {
			return err
		}
		cfg.AdversarialFraction = v
	}
	if f.Changed("log-level") {
		v, err := f.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	if f.Changed("no-verify") {
		cfg.Verifier.Enabled = false
	}
	return cfg.Validate()
}

func multiDomainCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "multidomain",
		Short: "Run the hybrid multi-domain IoV simulation",
		RunE:  multiDomainFunc,
	}
	f := c.Flags()
	f.String("config", "", "path to a YAML configuration file")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.Float64("duration", 0, "simulated duration in seconds")
	f.Uint64("seed", 0, "base random seed")
	f.Bool("compare", false, "run with and without semantic sync and print both")
	return c
}

func multiDomainFunc(c *cobra.Command, _ []string) error {
	f := c.Flags()
	path, err := f.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.LoadMultiDomainConfig(path)
	if err != nil {
		return err
	}
	if f.Changed("duration") {
		v, err := f.GetFloat64("duration")
		if err != nil {
			return err
		}
		cfg.Duration = v
	}
	if f.Changed("seed") {
		v, err := f.GetUint64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = v
	}
	if f.Changed("log-level") {
		v, err := f.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	compare, err := f.GetBool("compare")
	if err != nil {
		return err
	}

	logx := utils.NewManager(cfg.LogLevel)
	defer logx.Sync()

	if !compare {
		dm, err := sim.RunMultiDomain(cfg, logx)
		if err != nil {
			return err
		}
		printDomainResults(dm)
		return nil
	}

	fmt.Println("Hybrid Multi-Domain Simulation")
	fmt.Println(strings.Repeat("=", 50))

	fmt.Println("\n1. Running simulation WITH semantic sync...")
	withCfg := *cfg
	withCfg.SemanticSync = true
	withSync, err := sim.RunMultiDomain(&withCfg, logx)
	if err != nil {
		return err
	}

	fmt.Println("\n2. Running simulation WITHOUT semantic sync...")
	withoutCfg := *cfg
	withoutCfg.SemanticSync = false
	withoutSync, err := sim.RunMultiDomain(&withoutCfg, logx)
	if err != nil {
		return err
	}

	printComparison(withSync, withoutSync)
	return nil
}

func sweepCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the adversarial fraction across seeded runs",
		RunE:  sweepFunc,
	}
	f := c.Flags()
	f.String("config", "", "path to a YAML configuration file")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("adversarial", "0.0:0.2:0.02", "adversarial fraction sweep as start:end:step")
	f.Int("runs", 10, "seeded runs per sweep point")
	return c
}

func sweepFunc(c *cobra.Command, _ []string) error {
	f := c.Flags()
	path, err := f.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.LoadSimConfig(path)
	if err != nil {
		return err
	}
	if f.Changed("log-level") {
		v, err := f.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = v
	}
	spec, err := f.GetString("adversarial")
	if err != nil {
		return err
	}
	fractions, err := utils.SweepValues(spec)
	if err != nil {
		return err
	}
	runs, err := f.GetInt("runs")
	if err != nil {
		return err
	}
	if runs < 1 {
		runs = 1
	}

	logx := utils.NewManager(cfg.LogLevel)
	defer logx.Sync()

	seeds := seedRange(cfg.Seed, runs)

	fmt.Println("CoCoChain Adversary Variation Testing")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Testing adversarial fractions: %v\n", fractions)

	results := make([]*sim.Series, 0, len(fractions))
	for _, frac := range fractions {
		fmt.Printf("\n--- Testing with %.0f%% adversaries ---\n", frac*100)
		pointCfg := *cfg
		pointCfg.AdversarialFraction = frac
		series, err := sim.RunSeries(&pointCfg, seeds, logx)
		if err != nil {
			return err
		}
		results = append(results, series)
		fmt.Printf("DMC=%.1f, FPR=%.1f%%, Throughput=%.1f tx/s over %d runs\n",
			series.AvgMalformed, series.AvgFPR, series.AvgThroughput, runs)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Adversary Sweep Summary")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("%-12s %-10s %-10s %-10s %-10s %-12s\n",
		"Adversarial", "DMC", "DMC Std", "FPR (%)", "FPR Std", "Latency (s)")
	fmt.Println(strings.Repeat("-", 66))
	for i, frac := range fractions {
		s := results[i]
		fmt.Printf("%-12.2f %-10.1f %-10.1f %-10.1f %-10.1f %-12.4f\n",
			frac, s.AvgMalformed, s.StdMalformed, s.AvgFPR, s.StdFPR, s.AvgLatency)
	}
	return nil
}

func seedRange(base uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = base + uint64(i)
	}
	return seeds
}

func printRun(m sim.Metrics) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("CoCoChain Simulation Results")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("%-30s %d\n", "Nodes", m.Nodes)
	fmt.Printf("%-30s %d\n", "Adversarial nodes", m.Adversaries)
	fmt.Printf("%-30s %d\n", "Rounds", m.Rounds)
	fmt.Printf("%-30s %d\n", "Transactions created", m.Created)
	fmt.Printf("%-30s %d\n", "Transactions confirmed", m.Confirmed)
	fmt.Printf("%-30s %d\n", "Votes sent", m.VotesSent)
	fmt.Printf("%-30s %d\n", "Expired transactions", m.Expired)
	fmt.Println(strings.Repeat("-", 54))
	fmt.Printf("%-30s %.4f\n", "End-to-end latency (s)", m.AvgLatency)
	fmt.Printf("%-30s %.1f\n", "Throughput (tx/s)", m.Throughput)
	fmt.Printf("%-30s %d\n", "Consensus overhead (msgs)", m.Overhead)
	fmt.Printf("%-30s %d\n", "DMC (count)", m.Malformed)
	fmt.Printf("%-30s %.1f\n", "FPR (%)", m.FalsePositiveRate)
}

func printSeries(s *sim.Series) {
	fmt.Println("CoCoChain Simulation Test")
	fmt.Println(strings.Repeat("=", 50))
	for i, m := range s.Runs {
		fmt.Printf("Seed %d: Latency=%.4fs, Throughput=%.1f tx/s, Overhead=%d msgs, DMC=%d, FPR=%.1f%%\n",
			s.Seeds[i], m.AvgLatency, m.Throughput, m.Overhead, m.Malformed, m.FalsePositiveRate)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("CoCoChain Test Results Summary")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("%-30s %-12s %-12s\n", "Metric", "Mean", "Std Dev")
	fmt.Println(strings.Repeat("-", 54))
	fmt.Printf("%-30s %-12.4f %-12.4f\n", "End-to-end latency (s)", s.AvgLatency, s.StdLatency)
	fmt.Printf("%-30s %-12.1f %-12.1f\n", "Throughput (tx/s)", s.AvgThroughput, s.StdThroughput)
	fmt.Printf("%-30s %-12.0f %-12.0f\n", "Consensus overhead (msgs)", s.AvgOverhead, s.StdOverhead)
	fmt.Printf("%-30s %-12.0f %-12.0f\n", "DMC (count)", s.AvgMalformed, s.StdMalformed)
	fmt.Printf("%-30s %-12.1f %-12.1f\n", "FPR (%)", s.AvgFPR, s.StdFPR)
}

func printDomainResults(dm *sim.DomainMetrics) {
	state := "DISABLED"
	if dm.SemanticSync {
		state = "ENABLED"
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Multi-Domain Simulation Results")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Semantic sync %s, %d rounds, %d events\n", state, dm.Rounds, dm.Events)

	fmt.Println("\n--- Domain Topology ---")
	for _, name := range dm.Order {
		st := dm.PerDomain[name]
		fmt.Printf("  %-12s %d RSUs + edge (%d validators), %d vehicles, %d events, %d confirmed\n",
			name+":", st.RSUs, st.Validators, st.Vehicles, st.Events, st.Confirmed)
	}

	fmt.Println("\n--- Cross-Domain Finality Time (CDFT) ---")
	for _, name := range dm.Order {
		st := dm.PerDomain[name]
		fmt.Printf("  %-12s Mean=%.4fs, Std=%.4fs, Samples=%d\n",
			name+":", st.CDFTMean, st.CDFTStd, st.CDFTSamples)
	}

	fmt.Println("\n--- Bandwidth Usage (MB) per Domain ---")
	for _, name := range dm.Order {
		st := dm.PerDomain[name]
		fmt.Printf("  %-12s Intra=%.4f, Inter=%.4f, IO=%.4f\n",
			name+":", st.IntraMB, st.InterMB, st.InteropMB)
	}

	if dm.SemanticSync {
		fmt.Println("\n--- SAE Reconstruction Error (RMSE) ---")
		for _, name := range dm.Order {
			st := dm.PerDomain[name]
			fmt.Printf("  %-12s %.4f over %d decodes\n", name+":", st.ReconError, st.ReconSamples)
		}
	}

	fmt.Printf("\nTotal interoperability overhead: %.4f MB\n", dm.TotalInteropMB)
	fmt.Printf("Total consensus messages: %d\n", dm.TotalMessages)
}

func printComparison(with, without *sim.DomainMetrics) {
	cases := []struct {
		label string
		dm    *sim.DomainMetrics
	}{
		{"WITH semantic sync", with},
		{"WITHOUT semantic sync", without},
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Hybrid Multi-Domain Simulation Results")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Println("\n--- Cross-Domain Finality Time (CDFT) ---")
	for _, cs := range cases {
		fmt.Printf("\n%s:\n", cs.label)
		for _, name := range cs.dm.Order {
			st := cs.dm.PerDomain[name]
			fmt.Printf("  %-12s Mean=%.4fs, Std=%.4fs, Samples=%d\n",
				name+":", st.CDFTMean, st.CDFTStd, st.CDFTSamples)
		}
	}

	fmt.Println("\n--- Bandwidth Usage (MB) per Domain ---")
	for _, cs := range cases {
		fmt.Printf("\n%s:\n", cs.label)
		for _, name := range cs.dm.Order {
			st := cs.dm.PerDomain[name]
			fmt.Printf("  %-12s Intra=%.4f, Inter=%.4f, IO=%.4f\n",
				name+":", st.IntraMB, st.InterMB, st.InteropMB)
		}
	}

	fmt.Println("\n--- Interoperability Overhead (IO) ---")
	fmt.Printf("WITH semantic sync:    %.4f MB\n", with.TotalInteropMB)
	fmt.Printf("WITHOUT semantic sync: %.4f MB\n", without.TotalInteropMB)
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
}
