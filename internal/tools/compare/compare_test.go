package compare_test

import (
	"errors"
	"testing"

	"essex_travel/internal/catalog"
	"essex_travel/internal/domain"
	"essex_travel/internal/tools/compare"
)

func TestSelection_Limits(t *testing.T) {
	c := catalog.MustDefault()
	ships := c.Entities(domain.KindCruiseShip)
	if len(ships) <= compare.MaxShips {
		t.Fatalf("catalog needs more than %d ships for this test", compare.MaxShips)
	}

	s := compare.Default()
	for _, e := range ships[:compare.MaxShips] {
		if err := s.Add(c, e.Slug); err != nil {
			t.Fatalf("Add(%s): %v", e.Slug, err)
		}
	}
	if err := s.Add(c, ships[compare.MaxShips].Slug); !errors.Is(err, compare.ErrFull) {
		t.Fatalf("got %v, want ErrFull", err)
	}
	if err := s.Add(c, ships[0].Slug); !errors.Is(err, compare.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
	if err := s.Add(c, "titanic"); !errors.Is(err, compare.ErrUnknown) {
		t.Fatalf("got %v, want ErrUnknown", err)
	}
	if !s.Remove(ships[1].Slug) || len(s.Ships) != 2 {
		t.Fatalf("Remove failed: %+v", s)
	}
	s.Clear()
	if len(s.Ships) != 0 {
		t.Fatalf("Clear left %v", s.Ships)
	}
}

func TestBuild_Columns(t *testing.T) {
	c := catalog.MustDefault()
	s := compare.Selection{Ships: []string{"symphony-of-the-seas", "retired-ship", "norwegian-breakaway"}}
	table := compare.Build(c, s)

	if len(table.Ships) != 2 || table.Slugs[1] != "norwegian-breakaway" {
		t.Fatalf("columns %+v", table.Slugs)
	}
	for _, row := range table.Rows {
		if len(row.Values) != 2 {
			t.Fatalf("row %s has %d values", row.Attribute, len(row.Values))
		}
	}
	symphony, _ := c.Entity(domain.KindCruiseShip, "symphony-of-the-seas")
	if table.Rows[0].Values[0] != symphony.Ship.Line {
		t.Fatalf("line %q", table.Rows[0].Values[0])
	}
	if last := table.Rows[len(table.Rows)-1]; last.Values[1] != "-" {
		t.Fatalf("unrated ship should show '-', got %q", last.Values[1])
	}
}

func TestSelection_Check(t *testing.T) {
	bad := compare.Selection{Ships: []string{"a", "a"}}
	if err := bad.Check(); !errors.Is(err, compare.ErrDuplicate) {
		t.Fatalf("got %v", err)
	}
	tooMany := compare.Selection{Ships: []string{"a", "b", "c", "d"}}
	if err := tooMany.Check(); !errors.Is(err, compare.ErrFull) {
		t.Fatalf("got %v", err)
	}
}
