package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/hysteria-cli/internal/reactor"
	"github.com/KaramelBytes/hysteria-cli/internal/utils"
	"github.com/google/uuid"
)

// Kind names the pipeline that produced a run.
type Kind string

const (
	KindLocations Kind = "locations"
	KindReports   Kind = "reports"
)

// Run is the persisted summary of one pipeline invocation.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Input     string    `json:"input" yaml:"input"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	// Records counts lines that contributed; Skipped counts diagnostics.
	Records int `json:"records" yaml:"records"`
	Skipped int `json:"skipped" yaml:"skipped"`

	Locations *LocationsResult `json:"locations,omitempty" yaml:"locations,omitempty"`
	Reports   *ReportsResult   `json:"reports,omitempty" yaml:"reports,omitempty"`
}

// LocationsResult holds the pair-list aggregator outputs. Distance is nil
// when the lists could not be paired.
type LocationsResult struct {
	Distance      *uint64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	DistanceError string  `json:"distance_error,omitempty" yaml:"distance_error,omitempty"`
	Similarity    uint64  `json:"similarity" yaml:"similarity"`
}

// ReportsResult holds the reactor analyzer outputs.
type ReportsResult struct {
	Bounds reactor.Bounds `json:"bounds" yaml:"bounds"`
	Tally  reactor.Tally  `json:"tally" yaml:"tally"`
}

// New starts a run record with a fresh ID.
func New(kind Kind, input string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
}

// Save writes the run as <dir>/<id>.json using atomic write.
func (r *Run) Save(dir string) (string, error) {
	if r.ID == "" {
		return "", errors.New("run id not set")
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.ID+".json")
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a single run file.
func Load(path string) (*Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// List loads every run in dir, newest first. A missing dir yields no runs.
// Unreadable run files are passed to onSkip, when set, and left out.
func List(dir string, onSkip func(path string, err error)) ([]*Run, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read runs dir: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		r, err := Load(path)
		if err != nil {
			if onSkip != nil {
				onSkip(path, err)
			}
			continue
		}
		runs = append(runs, r)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// Headline returns the user-facing result lines for the run.
func (r *Run) Headline() []string {
	var lines []string
	if l := r.Locations; l != nil {
		if l.Distance != nil {
			lines = append(lines, fmt.Sprintf("The total distance between the lists is: %d", *l.Distance))
		}
		lines = append(lines, fmt.Sprintf("The total similarity between the lists is: %d", l.Similarity))
	}
	if rep := r.Reports; rep != nil {
		lines = append(lines, fmt.Sprintf("Finished analyzing reactors: %d safe, %d unsafe", rep.Tally.Safe, rep.Tally.Unsafe))
	}
	return lines
}

// Markdown renders a short human-readable summary.
func (r *Run) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", r.ID)
	sb.WriteString("[RUN]\n")
	fmt.Fprintf(&sb, "- kind: %s\n", r.Kind)
	fmt.Fprintf(&sb, "- input: %s\n", r.Input)
	fmt.Fprintf(&sb, "- started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- records: %d\n", r.Records)
	fmt.Fprintf(&sb, "- skipped lines: %d\n\n", r.Skipped)

	if l := r.Locations; l != nil {
		sb.WriteString("[LOCATIONS]\n")
		if l.Distance != nil {
			fmt.Fprintf(&sb, "- total distance: %d\n", *l.Distance)
		} else {
			fmt.Fprintf(&sb, "- total distance: unavailable (%s)\n", l.DistanceError)
		}
		fmt.Fprintf(&sb, "- similarity score: %d\n\n", l.Similarity)
	}
	if rep := r.Reports; rep != nil {
		sb.WriteString("[REPORTS]\n")
		fmt.Fprintf(&sb, "- bounds: %s\n", rep.Bounds)
		fmt.Fprintf(&sb, "- safe: %d\n", rep.Tally.Safe)
		fmt.Fprintf(&sb, "- unsafe: %d\n", rep.Tally.Unsafe)
		if rep.Tally.Undetermined > 0 {
			fmt.Fprintf(&sb, "- undetermined: %d\n", rep.Tally.Undetermined)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
