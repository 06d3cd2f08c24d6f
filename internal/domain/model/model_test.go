package model_test

import (
	"math"
	"testing"

	model "github.com/okian/techrank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseValue(t *testing.T) {
	convey.Convey("Given raw cells", t, func() {
		convey.Convey("When the cell is a bare number", func() {
			v := model.ParseValue("12")

			convey.Convey("Then it should be present", func() {
				convey.So(v.Present, convey.ShouldBeTrue)
				convey.So(v.Number, convey.ShouldEqual, 12.0)
			})
		})

		convey.Convey("When the cell has surrounding whitespace", func() {
			v := model.ParseValue("  3.5\t")

			convey.Convey("Then it should be trimmed and parsed", func() {
				convey.So(v.Present, convey.ShouldBeTrue)
				convey.So(v.Number, convey.ShouldEqual, 3.5)
			})
		})

		convey.Convey("When the cell is empty or non-numeric", func() {
			for _, cell := range []string{"", "   ", "n/a", "-", "12abc", "NaN", "Inf", "-Inf"} {
				convey.So(model.ParseValue(cell).Present, convey.ShouldBeFalse)
			}
		})
	})
}

func TestPresent(t *testing.T) {
	convey.Convey("Given non-finite numbers", t, func() {
		convey.Convey("Then they should be treated as missing", func() {
			convey.So(model.Present(math.NaN()).Present, convey.ShouldBeFalse)
			convey.So(model.Present(math.Inf(1)).Present, convey.ShouldBeFalse)
			convey.So(model.Present(math.Inf(-1)).Present, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a finite number", t, func() {
		convey.Convey("Then it should be present", func() {
			v := model.Present(-4)
			convey.So(v.Present, convey.ShouldBeTrue)
			convey.So(v.Number, convey.ShouldEqual, -4.0)
		})
	})
}

func TestDataset(t *testing.T) {
	convey.Convey("Given a dataset with points out of period order", t, func() {
		ds := model.Dataset{
			Periods:  []string{"2020", "2021", "2022"},
			Entities: []string{"Go", "Rust"},
			Points: []model.RankedPoint{
				{Entity: "Go", Period: "2022", Rank: 1},
				{Entity: "Rust", Period: "2020", Rank: 2},
				{Entity: "Go", Period: "2020", Rank: 1},
				{Entity: "Go", Period: "2021", Rank: 3},
			},
		}

		convey.Convey("When collecting the points of one entity", func() {
			pts := ds.PointsOf("Go")

			convey.Convey("Then they should come back in period order", func() {
				convey.So(len(pts), convey.ShouldEqual, 3)
				convey.So(pts[0].Period, convey.ShouldEqual, "2020")
				convey.So(pts[1].Period, convey.ShouldEqual, "2021")
				convey.So(pts[2].Period, convey.ShouldEqual, "2022")
			})
		})

		convey.Convey("Then MaxRank should report the largest rank", func() {
			convey.So(ds.MaxRank(), convey.ShouldEqual, 3)
			convey.So(model.Dataset{}.MaxRank(), convey.ShouldEqual, 0)
		})
	})
}
