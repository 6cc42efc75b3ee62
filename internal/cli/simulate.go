package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/sim"
	"github.com/soyeahso/scoredeck/internal/tui"
)

func newSimulateCmd() *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario simulation against the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if count == 0 {
				count = cfg.Simulation.DefaultCount
			}
			if count < 1 || count > cfg.Simulation.MaxCount {
				return fmt.Errorf("count must be 1-%d", cfg.Simulation.MaxCount)
			}
			if !cmd.Flags().Changed("seed") {
				seed = cfg.Simulation.Seed
			}

			health := domain.PortfolioHealth{
				AvailableCapital:          cfg.Portfolio.AvailableCapital,
				DelinquencyRate:           cfg.Portfolio.DelinquencyRate,
				MonthlyDisbursementTarget: cfg.Portfolio.MonthlyDisbursementTarget,
			}

			ctx := cmd.Context()
			invoker, cleanup, err := buildInvoker(ctx, cfg)
			if err != nil {
				return fmt.Errorf("building agent client: %w", err)
			}
			defer cleanup()

			engine := sim.NewEngine(invoker, cfg.Simulation.Concurrency, log)
			result, err := engine.Run(ctx, count, seed, health, func(p sim.Progress) {
				fmt.Printf("\r%d/%d evaluated", p.Completed, p.Total)
			})
			fmt.Println()
			if err != nil {
				return err
			}

			render := tui.NewRenderer()
			out, err := render(tui.SimulationMarkdown(result))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of synthetic applicants (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from config)")

	return cmd
}
