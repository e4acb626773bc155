// Package main runs the headless balance scenarios and exits non-zero when any fails.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/domain/catalog"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/config"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/logger"
	"github.com/MRamiBalles/CommitClicker/server/internal/platform/numfmt"
	"github.com/MRamiBalles/CommitClicker/server/internal/sim"
)

var (
	balanceFile string
	only        []string
	listOnly    bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "balance-runner",
	Short: "Play the balance scenarios against a catalog",
	Long: `balance-runner plays scripted bots against the progression engine on simulated
time and checks each scenario's goal and the game invariants.

Examples:
  balance-runner                              Run every scenario on the default catalog
  balance-runner --balance balance.yaml       Run against a tuned catalog
  balance-runner -s opening -s bug-swarm      Run two scenarios`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&balanceFile, "balance", "", "Balance YAML overriding the default catalog")
	rootCmd.Flags().StringSliceVarP(&only, "scenario", "s", nil, "Run only the named scenarios")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "List scenarios and exit")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log scenario progress")
}

func run(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	scenarios := sim.DefaultScenarios()

	if listOnly {
		for _, sc := range scenarios {
			fmt.Fprintf(out, "%-14s %s\n", sc.Name, sc.Description)
		}
		return nil
	}

	if len(only) > 0 {
		picked := make([]sim.Scenario, 0, len(only))
		for _, name := range only {
			sc, ok := sim.Find(scenarios, name)
			if !ok {
				return fmt.Errorf("unknown scenario %q", name)
			}
			picked = append(picked, sc)
		}
		scenarios = picked
	}

	cat := catalog.Default()
	if balanceFile != "" {
		var err error
		if cat, err = config.LoadBalance(balanceFile); err != nil {
			return err
		}
	}

	log := logger.Discard()
	if verbose {
		log = logger.NewLogger()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintln(out, "COMMIT CLICKER - BALANCE SUITE")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	start := time.Now()
	results := sim.NewRunner(cat, log).RunAll(ctx, scenarios)
	failed := report(out, results)
	fmt.Fprintf(out, "\nPlayed %d scenarios in %s\n", len(results), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	if len(results) < len(scenarios) {
		return fmt.Errorf("interrupted after %d of %d scenarios", len(results), len(scenarios))
	}
	return nil
}

func report(out io.Writer, results []sim.Result) int {
	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	failed := 0
	for _, r := range results {
		verdict := pass("PASS")
		if !r.Passed {
			verdict = fail("FAIL")
			failed++
		}
		fmt.Fprintf(out, "\n%s %s\n", verdict, r.ScenarioName)
		fmt.Fprintf(out, "   expected: %s\n", r.Expected)
		fmt.Fprintf(out, "   actual:   %s\n", r.Actual)
		fmt.Fprintf(out, "   %s\n", r.Reason)

		t := r.Trace
		fmt.Fprintln(out, dim(fmt.Sprintf("   %s steps, %s actions, peak production %s/s, max bugs %d",
			humanize.Comma(int64(t.Steps)), humanize.Comma(int64(totalActions(t))),
			numfmt.Format(t.PeakProduction), t.MaxBugs)))
		for _, v := range t.Violations {
			fmt.Fprintf(out, "   %s %s\n", fail("!"), v)
		}
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(out, "   passed: %d\n", len(results)-failed)
	fmt.Fprintf(out, "   failed: %d\n", failed)
	return failed
}

func totalActions(t *sim.Trace) int {
	n := 0
	for _, c := range t.Actions {
		n += c
	}
	return n
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
