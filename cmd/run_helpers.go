package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/KaramelBytes/hysteria-cli/internal/parser"
	"github.com/KaramelBytes/hysteria-cli/internal/runlog"
	"github.com/KaramelBytes/hysteria-cli/internal/utils"
	"github.com/spf13/cobra"
)

// runOutputs are the flags shared by the pipeline commands.
type runOutputs struct {
	verbose bool
	output  string
	save    bool
}

func (o *runOutputs) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "print every record as it is reduced")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "optional path to write a Markdown run summary")
	cmd.Flags().BoolVar(&o.save, "save", false, "record this run in the history (also enabled by record_runs)")
}

// inputPath picks the positional argument or the configured default.
func inputPath(args []string, fallback string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if fallback == "" {
		return "", errors.New("no input file given and none configured")
	}
	return fallback, nil
}

// parseInput runs parse over the file at path, or over in when path is "-".
func parseInput[T any](in io.Reader, path string, parse parser.LineParser[T], h parser.Handler[T]) error {
	if path == parser.StdinPath {
		parser.ParseReader(fileLabel(path), in, parse, h)
		return nil
	}
	return parser.ParseFile(path, parse, h)
}

// logSkip reports a line that did not contribute to any accumulator.
func logSkip(err error) {
	var le *parser.LineError
	var re *parser.ReadError
	switch {
	case errors.As(err, &le):
		logger.Warn("skipping line", "line", le.Line, "text", le.Text, "err", le.Err)
	case errors.As(err, &re):
		logger.Error("read failed", "path", re.Path, "after_line", re.Line, "err", re.Err)
	default:
		logger.Warn("skipping input", "err", err)
	}
}

// finishRun prints the result lines and handles --output and --save.
func finishRun(out io.Writer, run *runlog.Run, o runOutputs, recordRuns bool, runsDir string) error {
	for _, line := range run.Headline() {
		fmt.Fprintln(out, line)
	}
	if o.output != "" {
		if err := utils.SafeWriteFile(o.output, []byte(run.Markdown())); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("wrote run summary", "path", o.output)
	}
	if o.save || recordRuns {
		dir, err := utils.ExpandHome(runsDir)
		if err != nil {
			return err
		}
		path, err := run.Save(dir)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Debug("saved run", "id", run.ID, "path", path)
	}
	return nil
}

// fileLabel is the input name recorded in run summaries.
func fileLabel(path string) string {
	if path == parser.StdinPath {
		return "<stdin>"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
