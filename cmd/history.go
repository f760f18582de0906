package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/hysteria-cli/internal/runlog"
	"github.com/KaramelBytes/hysteria-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		dir, err := utils.ExpandHome(c.RunsDir)
		if err != nil {
			return err
		}
		runs, err := runlog.List(dir, func(path string, err error) {
			logger.Warn("skipping unreadable run", "path", path, "err", err)
		})
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(runs) > historyLimit {
			runs = runs[:historyLimit]
		}
		out := cmd.OutOrStdout()
		switch strings.ToLower(historyFormat) {
		case "json":
			if runs == nil {
				runs = []*runlog.Run{}
			}
			b, err := utils.PrettyJSON(runs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "yaml", "yml":
			b, err := yaml.Marshal(runs)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Fprint(out, string(b))
		case "", "text":
			if len(runs) == 0 {
				fmt.Fprintln(out, "(no runs)")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "- %s %s %s (%s)\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Kind, r.Input)
				for _, line := range r.Headline() {
					fmt.Fprintf(out, "    %s\n", line)
				}
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use text|json|yaml)", historyFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyFormat, "format", "text", "output format: text | json | yaml")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n runs (0 = all)")
}
