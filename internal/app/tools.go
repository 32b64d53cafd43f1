package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"essex_travel/internal/adapters/observability"
	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/tools"
	"essex_travel/internal/tools/budget"
	"essex_travel/internal/tools/compare"
	"essex_travel/internal/tools/countdown"
	"essex_travel/internal/tools/packing"
)

const (
	ToolBudget    = "budget"
	ToolPacking   = "packing"
	ToolCountdown = "countdown"
	ToolCompare   = "compare"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrInvalidState = errors.New("invalid tool state")
)

// Tools lists the tool names accepted by ToolService.
func Tools() []string {
	return []string{ToolBudget, ToolPacking, ToolCountdown, ToolCompare}
}

type BudgetView struct {
	Planner    budget.Planner   `json:"planner"`
	Categories map[string]int64 `json:"category_totals"`
	GrandTotal int64            `json:"grand_total_cents"`
	PerPerson  int64            `json:"per_person_cents"`
	Formatted  string           `json:"grand_total"`
	Currencies []string         `json:"currencies"`
}

type PackingView struct {
	Checklist packing.Checklist `json:"checklist"`
	Done      int               `json:"done"`
	Total     int               `json:"total"`
}

type CountdownView struct {
	Countdown  countdown.Countdown `json:"countdown"`
	Remaining  countdown.Remaining `json:"remaining"`
	Milestones []countdown.Status  `json:"milestones"`
}

type CompareView struct {
	Selection compare.Selection `json:"selection"`
	Table     compare.Table     `json:"table"`
}

// ToolService moves tool state between visitors and the KV store. Storage
// trouble never reaches the visitor: reads fall back to defaults and
// failed writes are logged and counted.
type ToolService struct {
	kv  domain.KVStore
	cat *catalog.Catalog
	now func() time.Time
}

func NewToolService(kv domain.KVStore, c *catalog.Catalog) *ToolService {
	return &ToolService{kv: kv, cat: c, now: time.Now}
}

// Get returns the stored state of tool plus its derived values.
func (s *ToolService) Get(ctx context.Context, session, tool string) (any, error) {
	key := tools.Key(session, tool)
	switch tool {
	case ToolBudget:
		p, err := tools.Load(ctx, s.kv, key, budget.Default)
		s.loadFailed(tool, err)
		return budgetView(p), nil
	case ToolPacking:
		c, err := tools.Load(ctx, s.kv, key, packing.Default)
		s.loadFailed(tool, err)
		return packingView(c), nil
	case ToolCountdown:
		c, err := tools.Load(ctx, s.kv, key, countdown.Default)
		s.loadFailed(tool, err)
		return s.countdownView(c), nil
	case ToolCompare:
		sel, err := tools.Load(ctx, s.kv, key, compare.Default)
		s.loadFailed(tool, err)
		return s.compareView(sel), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
}

// Put replaces the state of tool with body and returns the new view.
func (s *ToolService) Put(ctx context.Context, session, tool string, body []byte) (any, error) {
	key := tools.Key(session, tool)
	switch tool {
	case ToolBudget:
		var p budget.Planner
		if err := decodeState(body, &p); err != nil {
			return nil, err
		}
		s.save(ctx, tool, key, p)
		return budgetView(p), nil
	case ToolPacking:
		var c packing.Checklist
		if err := decodeState(body, &c); err != nil {
			return nil, err
		}
		c.Regenerate(c.Inputs)
		s.save(ctx, tool, key, c)
		return packingView(c), nil
	case ToolCountdown:
		var c countdown.Countdown
		if err := decodeState(body, &c); err != nil {
			return nil, err
		}
		if len(c.Milestones) == 0 {
			c.Milestones = countdown.DefaultMilestones()
		}
		s.save(ctx, tool, key, c)
		return s.countdownView(c), nil
	case ToolCompare:
		var in compare.Selection
		if err := decodeState(body, &in); err != nil {
			return nil, err
		}
		sel := compare.Default()
		for _, slug := range in.Ships {
			if err := sel.Add(s.cat, slug); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
		}
		s.save(ctx, tool, key, sel)
		return s.compareView(sel), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
}

// Reset drops the stored state and returns the default view.
func (s *ToolService) Reset(ctx context.Context, session, tool string) (any, error) {
	if !knownTool(tool) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	if err := tools.Reset(ctx, s.kv, tools.Key(session, tool)); err != nil {
		observability.ObserveToolFailure(tool, "reset")
		log.Warn().Err(err).Str("tool", tool).Msg("tool state reset failed")
	}
	return s.Get(ctx, session, tool)
}

// Countdown loads the stored countdown for streaming.
func (s *ToolService) Countdown(ctx context.Context, session string) countdown.Countdown {
	c, err := tools.Load(ctx, s.kv, tools.Key(session, ToolCountdown), countdown.Default)
	s.loadFailed(ToolCountdown, err)
	return c
}

// Now is the clock used for derived countdown values.
func (s *ToolService) Now() time.Time { return s.now() }

func knownTool(tool string) bool {
	for _, t := range Tools() {
		if t == tool {
			return true
		}
	}
	return false
}

func decodeState(body []byte, dst tools.Checker) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if err := dst.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return nil
}

func (s *ToolService) loadFailed(tool string, err error) {
	if err == nil {
		return
	}
	observability.ObserveToolFailure(tool, "load")
	log.Warn().Err(err).Str("tool", tool).Msg("tool state unreadable, using defaults")
}

func (s *ToolService) save(ctx context.Context, tool, key string, v any) {
	if err := tools.Save(ctx, s.kv, key, v); err != nil {
		observability.ObserveToolFailure(tool, "save")
		log.Warn().Err(err).Str("tool", tool).Msg("tool state not persisted")
	}
}

func budgetView(p budget.Planner) BudgetView {
	v := BudgetView{
		Planner:    p,
		Categories: make(map[string]int64, len(p.Categories)),
		GrandTotal: p.GrandTotal(),
		PerPerson:  p.PerPerson(),
		Currencies: budget.Currencies(),
	}
	for _, c := range p.Categories {
		v.Categories[c.ID] = c.Total()
	}
	v.Formatted, _ = budget.Format(v.GrandTotal, p.Currency)
	return v
}

func packingView(c packing.Checklist) PackingView {
	done, total := c.Progress()
	return PackingView{Checklist: c, Done: done, Total: total}
}

func (s *ToolService) countdownView(c countdown.Countdown) CountdownView {
	now := s.now()
	return CountdownView{Countdown: c, Remaining: c.Remaining(now), Milestones: c.MilestoneStatus(now)}
}

func (s *ToolService) compareView(sel compare.Selection) CompareView {
	return CompareView{Selection: sel, Table: compare.Build(s.cat, sel)}
}
