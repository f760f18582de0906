package cmd

import (
	"fmt"

	"github.com/KaramelBytes/hysteria-cli/internal/locations"
	"github.com/KaramelBytes/hysteria-cli/internal/parser"
	"github.com/KaramelBytes/hysteria-cli/internal/runlog"
	"github.com/spf13/cobra"
)

var locOut runOutputs

var locationsCmd = &cobra.Command{
	Use:     "locations [file]",
	Aliases: []string{"historian"},
	Short:   "Compute total distance and similarity between two location-ID lists",
	Long: `Each line of the input holds two location IDs separated by whitespace.
The left and right columns are sorted independently and paired by rank to
compute the total distance; the similarity score weights every left ID by how
often it appears on the right. Use "-" to read from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		path, err := inputPath(args, c.LocationsInput)
		if err != nil {
			return err
		}

		run := runlog.New(runlog.KindLocations, fileLabel(path))
		var lists locations.Lists
		err = parseInput(cmd.InOrStdin(), path, parser.ParsePair, parser.Handler[locations.Pair]{
			Record: func(_ int, p locations.Pair) { lists.Add(p) },
			Skip: func(err error) {
				run.Skipped++
				logSkip(err)
			},
		})
		if err != nil {
			return err
		}
		run.Records = lists.Len()

		res := &runlog.LocationsResult{Similarity: lists.Similarity()}
		if d, err := lists.Distance(); err != nil {
			logger.Error("error while calculating locationID distance", "err", err)
			res.DistanceError = err.Error()
		} else {
			res.Distance = &d
		}
		run.Locations = res

		out := cmd.OutOrStdout()
		if locOut.verbose {
			if rows, err := locations.Pairings(lists.Left, lists.Right); err == nil {
				for _, r := range rows {
					fmt.Fprintf(out, "%d %d %d\n", r.Left, r.Right, r.Distance)
				}
			}
			for _, part := range locations.Breakdown(lists.Left, lists.Right) {
				fmt.Fprintf(out, "%d x%d (seen %d on the right) = %d\n", part.ID, part.LeftCount, part.RightCount, part.Score)
			}
		}
		return finishRun(out, run, locOut, c.RecordRuns, c.RunsDir)
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locOut.bind(locationsCmd)
}
