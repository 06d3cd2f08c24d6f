package ranking_test

import (
	"errors"
	"testing"

	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(x float64) *float64 { return &x }

func validDataset() model.Dataset {
	return model.Dataset{
		Periods:  []string{"p1", "p2"},
		Entities: []string{"A", "B"},
		Points: []model.RankedPoint{
			{Entity: "A", Period: "p1", Rank: 1, RawValue: floatPtr(1), RankSpread: 1},
			{Entity: "B", Period: "p1", Rank: 2, RawValue: floatPtr(2), RankSpread: 1},
			{Entity: "B", Period: "p2", Rank: 1, RawValue: floatPtr(7), RankSpread: 1},
			{Entity: "A", Period: "p2", Rank: 2, RankSpread: 1},
		},
	}
}

func TestVerify(t *testing.T) {
	Convey("Given a valid dataset", t, func() {
		ds := validDataset()

		Convey("Then it should verify", func() {
			So(ranking.Verify(ds), ShouldBeNil)
		})

		Convey("When a point is dropped", func() {
			ds.Points = ds.Points[:3]
			So(errors.Is(ranking.Verify(ds), ranking.ErrInvariant), ShouldBeTrue)
		})

		Convey("When ranks have a gap", func() {
			ds.Points[1].Rank = 3
			err := ranking.Verify(ds)
			So(errors.Is(err, ranking.ErrInvariant), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "ranks are not")
		})

		Convey("When a missing value is ranked above a present one", func() {
			ds.Points[2].Rank, ds.Points[3].Rank = 2, 1
			So(errors.Is(ranking.Verify(ds), ranking.ErrInvariant), ShouldBeTrue)
		})

		Convey("When present values are out of order", func() {
			ds.Points[0].RawValue = floatPtr(5)
			So(ranking.Verify(ds).Error(), ShouldContainSubstring, "lower raw value")
		})

		Convey("When a spread is inconsistent", func() {
			ds.Points[3].RankSpread = 0
			So(ranking.Verify(ds).Error(), ShouldContainSubstring, "spread")
		})

		Convey("When a point names an unknown period", func() {
			ds.Points[3].Period = "p9"
			So(ranking.Verify(ds).Error(), ShouldContainSubstring, "unknown period")
		})

		Convey("When an entity has two points in one period", func() {
			ds.Points[3].Period = "p1"
			So(errors.Is(ranking.Verify(ds), ranking.ErrInvariant), ShouldBeTrue)
		})
	})

	Convey("Given an empty dataset", t, func() {
		Convey("Then it should verify", func() {
			So(ranking.Verify(model.Dataset{}), ShouldBeNil)
		})
	})
}
