package parser

import (
	"fmt"
	"regexp"
	"strconv"
)

var levelPattern = regexp.MustCompile(`\b\d+\b`)

// ParseLevels extracts every standalone decimal integer on the line, in order.
// A line with none yields ErrEmptyRecord.
func ParseLevels(line string) ([]int32, error) {
	toks := levelPattern.FindAllString(line, -1)
	if len(toks) == 0 {
		return nil, ErrEmptyRecord
	}
	levels := make([]int32, 0, len(toks))
	for _, tok := range toks {
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse level %q: %w", tok, err)
		}
		levels = append(levels, int32(v))
	}
	return levels, nil
}
