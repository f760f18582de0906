package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/hysteria-cli/internal/parser"
	"github.com/KaramelBytes/hysteria-cli/internal/reactor"
	"github.com/KaramelBytes/hysteria-cli/internal/runlog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	repMinStep   uint32
	repMaxStep   uint32
	repTolerance uint32
	repOut       runOutputs
)

var reportsCmd = &cobra.Command{
	Use:     "reports [file]",
	Aliases: []string{"reactor"},
	Short:   "Count safe and unsafe reactor reports",
	Long: `Each line of the input is one report: a sequence of levels. A report is safe
when its levels move strictly in one direction with every step inside
[min-step, max-step], after removing at most --tolerance levels.
Use "-" to read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		bounds, err := resolveBounds(c.MinStep, c.MaxStep, c.ErrorTolerance, cmd.Flags())
		if err != nil {
			return err
		}
		path, err := inputPath(args, c.ReportsInput)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		run := runlog.New(runlog.KindReports, fileLabel(path))
		var tally reactor.Tally
		err = parseInput(cmd.InOrStdin(), path, parser.ParseLevels, parser.Handler[[]int32]{
			Record: func(line int, levels []int32) {
				res := reactor.Analyze(levels, bounds)
				tally.Record(res.Status)
				run.Records++
				logger.Debug("classified report", "line", line, "status", res.Status, "removed", res.Removed)
				if repOut.verbose {
					fmt.Fprintln(out, levels, res.Status)
				}
			},
			Skip: func(err error) {
				run.Skipped++
				if errors.Is(err, parser.ErrEmptyRecord) {
					tally.Record(reactor.Undetermined)
					var le *parser.LineError
					if errors.As(err, &le) {
						logger.Warn("reactor status could not be determined: list is empty", "line", le.Line)
						return
					}
				}
				logSkip(err)
			},
		})
		if err != nil {
			return err
		}
		run.Reports = &runlog.ReportsResult{Bounds: bounds, Tally: tally}
		return finishRun(out, run, repOut, c.RecordRuns, c.RunsDir)
	},
}

// resolveBounds applies explicitly set flags over the configured bounds.
func resolveBounds(minStep, maxStep, tolerance uint32, f *pflag.FlagSet) (reactor.Bounds, error) {
	b := reactor.Bounds{MinStep: minStep, MaxStep: maxStep, ErrorTolerance: tolerance}
	if f.Changed("min-step") {
		b.MinStep = repMinStep
	}
	if f.Changed("max-step") {
		b.MaxStep = repMaxStep
	}
	if f.Changed("tolerance") {
		b.ErrorTolerance = repTolerance
	}
	if err := b.Validate(); err != nil {
		return reactor.Bounds{}, err
	}
	return b, nil
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	d := reactor.DefaultBounds()
	reportsCmd.Flags().Uint32Var(&repMinStep, "min-step", d.MinStep, "smallest allowed step between adjacent levels (overrides config)")
	reportsCmd.Flags().Uint32Var(&repMaxStep, "max-step", d.MaxStep, "largest allowed step between adjacent levels (overrides config)")
	reportsCmd.Flags().Uint32VarP(&repTolerance, "tolerance", "t", d.ErrorTolerance, "levels that may be removed to make a report safe (overrides config)")
	repOut.bind(reportsCmd)
}
