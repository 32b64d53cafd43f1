// Package countdown tracks the time left before a departure and which
// planning milestones are due.
package countdown

import (
	"context"
	"errors"
	"sort"
	"time"
)

// TickInterval is how often Run reports.
const TickInterval = time.Second

type Milestone struct {
	Label      string `json:"label"`
	DaysBefore int    `json:"days_before"`
}

// DefaultMilestones is the standard cruise planning timeline.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{"Final payment due", 90},
		{"Book shore excursions", 60},
		{"Check passports and documents", 45},
		{"Online check-in", 30},
		{"Arrange airport or port transfer", 14},
		{"Start packing", 7},
		{"Print luggage tags", 2},
	}
}

type Countdown struct {
	Label      string      `json:"label"`
	Target     time.Time   `json:"target"`
	Milestones []Milestone `json:"milestones"`
}

// Default has no target; Remaining reports Done until one is set.
func Default() Countdown {
	return Countdown{Milestones: DefaultMilestones()}
}

func (c *Countdown) Check() error {
	for _, m := range c.Milestones {
		if m.DaysBefore < 0 {
			return errors.New("milestone days must not be negative")
		}
	}
	return nil
}

type Remaining struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Done    bool `json:"done"`
}

func (c Countdown) Remaining(now time.Time) Remaining {
	if c.Target.IsZero() {
		return Remaining{Done: true}
	}
	d := c.Target.Sub(now)
	if d <= 0 {
		return Remaining{Done: true}
	}
	secs := int64(d / time.Second)
	return Remaining{
		Days:    int(secs / 86400),
		Hours:   int(secs % 86400 / 3600),
		Minutes: int(secs % 3600 / 60),
		Seconds: int(secs % 60),
	}
}

type Status struct {
	Milestone
	Completed bool `json:"completed"`
}

// MilestoneStatus orders milestones from furthest to nearest. A milestone is
// completed once the days remaining reach its threshold; nothing else is
// stored. Without a target every milestone is upcoming.
func (c Countdown) MilestoneStatus(now time.Time) []Status {
	r := c.Remaining(now)
	set := !c.Target.IsZero()
	out := make([]Status, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		out = append(out, Status{Milestone: m, Completed: set && (r.Done || r.Days <= m.DaysBefore)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysBefore > out[j].DaysBefore })
	return out
}

// Next is the first milestone not yet completed.
func (c Countdown) Next(now time.Time) (Milestone, bool) {
	for _, s := range c.MilestoneStatus(now) {
		if !s.Completed {
			return s.Milestone, true
		}
	}
	return Milestone{}, false
}

// Run calls fn immediately and then every interval until ctx is done or
// the target is reached. now supplies the clock.
func Run(ctx context.Context, c Countdown, now func() time.Time, interval time.Duration, fn func(Remaining)) {
	r := c.Remaining(now())
	fn(r)
	if r.Done {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r := c.Remaining(now())
			fn(r)
			if r.Done {
				return
			}
		}
	}
}
