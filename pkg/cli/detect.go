package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DaoSolary/Desaparecidos/pkg/cli/config"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

func cmdDetect() *cli.Command {
	var threshold float64
	var actor string
	var repoCfg config.Repository
	var scoringCfg config.Scoring
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Similarity threshold override for this run (configured default when unset)",
			Destination: &threshold,
		},
		&cli.StringFlag{
			Name:        "actor",
			Usage:       "Identity recorded as the detector of found pairs",
			Value:       "scheduler",
			Sources:     cli.EnvVars("DESAPARECIDOS_DETECT_ACTOR"),
			Destination: &actor,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, scoringCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "detect",
		Aliases: []string{"d"},
		Usage:   "Run a single duplicate detection pass over approved cases",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load scoring configuration
			scoringConfig, err := scoringCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load scoring configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithScoringConfig(scoringConfig),
			}

			// Initialize Slack notifier if configured
			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
			}

			uc := usecase.New(repo, ucOpts...)

			var override *float64
			if c.IsSet("threshold") {
				override = &threshold
			}

			result, err := uc.Duplicates.RunDetection(ctx, override, actor)
			if err != nil {
				return goerr.Wrap(err, "detection run failed")
			}

			printDetectionSummary(result)
			return nil
		},
	}
}

// printDetectionSummary writes the run outcome to stdout for operators
// invoking the command by hand. Structured logs carry the same numbers.
func printDetectionSummary(result *usecase.DetectionResult) {
	bold := color.New(color.Bold)
	bold.Printf("Detection finished (threshold %.2f)\n", result.Threshold)

	fmt.Printf("  Cases scanned: %d\n", result.CasesScanned)
	fmt.Printf("  Comparisons:   %d\n", result.Comparisons)

	if len(result.Pairs) > 0 {
		color.Green("  New pairs:     %d", len(result.Pairs))
		for _, p := range result.Pairs {
			fmt.Printf("    %s  cases %d/%d  score %.3f\n", p.ID, p.FirstCaseID, p.SecondCaseID, p.SimilarityScore)
		}
	} else {
		fmt.Printf("  New pairs:     0\n")
	}

	if result.SkippedKnown > 0 {
		fmt.Printf("  Known pairs:   %d\n", result.SkippedKnown)
	}
	if result.Failed > 0 {
		color.Red("  Failed:        %d", result.Failed)
	}
}
