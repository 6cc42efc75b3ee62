package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/domain"
	"github.com/soyeahso/scoredeck/internal/tui"
)

func newEvaluateCmd() *cobra.Command {
	var (
		age             float64
		income          float64
		employmentYears float64
		debtToIncome    float64
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a single applicant through the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			applicant := domain.Applicant{
				Age:             age,
				AnnualIncome:    income,
				EmploymentYears: employmentYears,
				DebtToIncome:    debtToIncome,
			}
			if err := applicant.Validate(); err != nil {
				return err
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

			eval, err := invoker.Evaluate(ctx, applicant, health)
			if err != nil {
				return err
			}

			render := tui.NewRenderer()
			out, err := render(tui.EvaluationMarkdown(eval))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().Float64Var(&age, "age", 35, "applicant age")
	cmd.Flags().Float64Var(&income, "income", 45000, "annual income")
	cmd.Flags().Float64Var(&employmentYears, "employment-years", 4, "years of employment")
	cmd.Flags().Float64Var(&debtToIncome, "debt-to-income", 0.3, "debt-to-income ratio (0-1)")

	return cmd
}
