package pipelineservice

import (
	"log/slog"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// DefaultSlotRule is the placeholder interview slot. There is no
// availability or conflict checking.
const DefaultSlotRule = "tomorrow at 10am"

const fallbackSlotHour = 10

// SlotPicker turns a natural-language rule into the next interview slot.
type SlotPicker struct {
	rule   string
	loc    *time.Location
	parser *when.Parser
	logger *slog.Logger
}

// NewSlotPicker creates a SlotPicker. An empty rule uses DefaultSlotRule and
// a nil location means UTC.
func NewSlotPicker(rule string, loc *time.Location, logger *slog.Logger) *SlotPicker {
	if strings.TrimSpace(rule) == "" {
		rule = DefaultSlotRule
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := when.New(nil)
	w.Add(en.All...)
	return &SlotPicker{rule: strings.ToLower(rule), loc: loc, parser: w, logger: logger}
}

// Next returns the slot for a transition at now, in UTC. Rules that do not
// parse or do not land in the future fall back to the next day at 10:00.
func (p *SlotPicker) Next(now time.Time) time.Time {
	base := now.In(p.loc)

	r, err := p.parser.Parse(p.rule, base)
	if err != nil {
		p.logger.Warn("Failed to parse interview slot rule", slog.String("rule", p.rule), slog.Any("error", err))
	}
	if r != nil {
		slot := r.Time.In(p.loc).Truncate(time.Minute)
		if slot.After(base) {
			return slot.UTC()
		}
	}

	next := base.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), fallbackSlotHour, 0, 0, 0, p.loc).UTC()
}
