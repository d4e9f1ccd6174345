// Package schedule turns operator input like "friday 8pm" into series start
// times.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrUnrecognizedTime = errors.New("could not recognize time")

// "932pm" -> "9:32 pm"
var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s*(am|pm)\b`)

type Parser struct {
	loc *time.Location
	now func() time.Time
	w   *when.Parser
}

// NewParser interprets relative input in loc. A nil loc means UTC.
func NewParser(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Parser{loc: loc, now: now, w: w}
}

// Parse accepts RFC 3339 timestamps and English phrases such as
// "tomorrow 5 pm" or "next friday at 20:00". The result is in UTC.
func (p *Parser) Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty input: %w", ErrUnrecognizedTime)
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	normalized := compactClock.ReplaceAllString(strings.ToLower(input), "$1:$2 $3")
	r, err := p.w.Parse(normalized, p.now().In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%q: %w", input, ErrUnrecognizedTime)
	}
	return r.Time.In(p.loc).Truncate(time.Minute).UTC(), nil
}
