package view_test

import (
	"testing"

	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/ranking"
	"github.com/okian/techrank/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

// dataset normalizes a small table: Go and Rust spread 2, Nim 1, Zig 0.
func dataset() model.Dataset {
	table := model.RawTable{
		Periods: []string{"2022", "2023", "2024"},
		Rows: []model.Row{
			{Name: "Rust", Values: []model.Value{model.Present(3), model.Present(1), model.Present(2)}},
			{Name: "Go", Values: []model.Value{model.Present(1), model.Present(3), model.Present(1)}},
			{Name: "Zig", Values: []model.Value{model.Missing(), model.Missing(), model.Missing()}},
			{Name: "Nim", Values: []model.Value{model.Present(2), model.Present(2), model.Present(3)}},
		},
	}
	ds, err := ranking.NormalizeTable(table)
	if err != nil {
		panic(err)
	}
	ds.ID = "test"
	return ds
}

func TestState(t *testing.T) {
	Convey("Given a state with threshold 2", t, func() {
		s := view.NewState(2)

		Convey("Then entities meeting the threshold should be visible", func() {
			So(s.Visible("Go", 2), ShouldBeTrue)
			So(s.Visible("Go", 5), ShouldBeTrue)
			So(s.Visible("Zig", 1), ShouldBeFalse)
		})

		Convey("When a hidden entity is checked", func() {
			next := s.Toggle("Zig", true, 1)

			Convey("Then it should be forced visible", func() {
				So(next.Visible("Zig", 1), ShouldBeTrue)
			})

			Convey("And the original state should not change", func() {
				So(s.Visible("Zig", 1), ShouldBeFalse)
				So(s.Forced, ShouldBeEmpty)
			})

			Convey("And unchecking it again should hide it without a block", func() {
				back := next.Toggle("Zig", false, 1)
				So(back.Visible("Zig", 1), ShouldBeFalse)
				So(back.Blocked["Zig"], ShouldBeFalse)
			})
		})

		Convey("When a default-visible entity is unchecked", func() {
			next := s.Toggle("Go", false, 3)

			Convey("Then it should be blocked", func() {
				So(next.Visible("Go", 3), ShouldBeFalse)
				So(next.Blocked["Go"], ShouldBeTrue)
			})

			Convey("And checking it again should lift the block", func() {
				again := next.Toggle("Go", true, 3)
				So(again.Visible("Go", 3), ShouldBeTrue)
				So(again.Blocked["Go"], ShouldBeFalse)
			})
		})

		Convey("When a new threshold is applied", func() {
			forced := s.Toggle("Zig", true, 0).Toggle("Go", false, 3)
			reset := view.NewState(0)

			Convey("Then overrides should be cleared", func() {
				So(forced.Forced, ShouldNotBeEmpty)
				So(reset.Forced, ShouldBeEmpty)
				So(reset.Blocked, ShouldBeEmpty)
				So(reset.Visible("Go", 3), ShouldBeTrue)
			})
		})
	})

	Convey("Given a negative threshold", t, func() {
		Convey("Then it should be clamped to zero", func() {
			So(view.NewState(-4).MinRankChange, ShouldEqual, 0)
		})
	})

	Convey("Given a zero-value state", t, func() {
		var s view.State

		Convey("Then toggling should not panic on nil maps", func() {
			So(func() { s.Toggle("A", true, 0) }, ShouldNotPanic)
			So(func() { s.Toggle("A", false, 0) }, ShouldNotPanic)
		})
	})
}

func TestItems(t *testing.T) {
	Convey("Given a dataset and a threshold of 1", t, func() {
		ds := dataset()
		items := view.Items(ds, view.NewState(1))

		Convey("Then visible entities should come first, by name", func() {
			So(len(items), ShouldEqual, 4)
			So(items[0].Entity, ShouldEqual, "Go")
			So(items[1].Entity, ShouldEqual, "Nim")
			So(items[2].Entity, ShouldEqual, "Rust")
			So(items[3].Entity, ShouldEqual, "Zig")
			So(items[2].Visible, ShouldBeTrue)
			So(items[3].Visible, ShouldBeFalse)
		})

		Convey("And spreads should come from the normalized points", func() {
			So(items[0].RankSpread, ShouldEqual, 2)
			So(items[1].RankSpread, ShouldEqual, 1)
			So(items[3].RankSpread, ShouldEqual, 0)
		})

		Convey("And colors should follow first-seen input order", func() {
			So(items[2].Color, ShouldEqual, view.Palette[0]) // Rust first in input
			So(items[0].Color, ShouldEqual, view.Palette[1])
			So(items[1].Color, ShouldEqual, view.Palette[3])
		})
	})

	Convey("Given an entity name", t, func() {
		ds := dataset()

		Convey("Then SpreadOf should read the normalized spread", func() {
			spread, ok := view.SpreadOf(ds, "Nim")
			So(ok, ShouldBeTrue)
			So(spread, ShouldEqual, 1)

			_, ok = view.SpreadOf(ds, "Cobol")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given more entities than palette colors", t, func() {
		Convey("Then colors should cycle", func() {
			So(view.ColorOf(len(view.Palette)), ShouldEqual, view.Palette[0])
			So(view.ColorOf(len(view.Palette)+3), ShouldEqual, view.Palette[3])
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given a dataset", t, func() {
		ds := dataset()

		Convey("When filtering with threshold 2", func() {
			out := view.Apply(ds, view.NewState(2))

			Convey("Then only visible entities should remain", func() {
				So(out.Entities, ShouldResemble, []string{"Rust", "Go"})
				So(len(out.Points), ShouldEqual, 6)
			})

			Convey("And ranks and spreads should be untouched", func() {
				for _, p := range out.Points {
					for _, q := range ds.Points {
						if p.Entity == q.Entity && p.Period == q.Period {
							So(p.Rank, ShouldEqual, q.Rank)
							So(p.RankSpread, ShouldEqual, q.RankSpread)
						}
					}
				}
			})

			Convey("And the source dataset should not be modified", func() {
				So(len(ds.Points), ShouldEqual, 12)
				So(ranking.Verify(ds), ShouldBeNil)
			})
		})

		Convey("When nothing is visible", func() {
			out := view.Apply(ds, view.NewState(99))

			Convey("Then the result should be empty but keep the periods", func() {
				So(out.Entities, ShouldBeEmpty)
				So(out.Points, ShouldBeEmpty)
				So(out.Periods, ShouldResemble, ds.Periods)
				So(out.ID, ShouldEqual, "test")
			})
		})
	})
}
