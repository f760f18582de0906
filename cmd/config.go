package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/hysteria-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set hysteria configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "min_step: %d\n", c.MinStep)
		fmt.Fprintf(out, "max_step: %d\n", c.MaxStep)
		fmt.Fprintf(out, "error_tolerance: %d\n", c.ErrorTolerance)
		fmt.Fprintf(out, "locations_input: %s\n", c.LocationsInput)
		fmt.Fprintf(out, "reports_input: %s\n", c.ReportsInput)
		fmt.Fprintf(out, "runs_dir: %s\n", c.RunsDir)
		fmt.Fprintf(out, "record_runs: %t\n", c.RecordRuns)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "min_step", "max_step", "error_tolerance":
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid unsigned int for %s: %v", key, val)
			}
			next := *cfg
			switch key {
			case "min_step":
				next.MinStep = uint32(n)
			case "max_step":
				next.MaxStep = uint32(n)
			default:
				next.ErrorTolerance = uint32(n)
			}
			if _, err := next.Bounds(); err != nil {
				return err
			}
			*cfg = next
		case "locations_input":
			cfg.LocationsInput = val
		case "reports_input":
			cfg.ReportsInput = val
		case "runs_dir":
			cfg.RunsDir = val
		case "record_runs":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for record_runs: %w", err)
			}
			cfg.RecordRuns = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
