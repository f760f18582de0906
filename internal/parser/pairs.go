package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/KaramelBytes/hysteria-cli/internal/locations"
)

var pairPattern = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s*$`)

// ParsePair parses a line holding two unsigned location IDs separated by
// whitespace, with optional surrounding whitespace.
func ParsePair(line string) (locations.Pair, error) {
	m := pairPattern.FindStringSubmatch(line)
	if m == nil {
		return locations.Pair{}, ErrNoPair
	}
	left, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return locations.Pair{}, fmt.Errorf("parse left number: %w", err)
	}
	right, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return locations.Pair{}, fmt.Errorf("parse right number: %w", err)
	}
	return locations.Pair{Left: uint32(left), Right: uint32(right)}, nil
}
