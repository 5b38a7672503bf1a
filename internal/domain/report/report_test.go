package report_test

import (
	"testing"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/report"
	"github.com/mkabbani/evround/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given a record and the catalog it was scored against", t, func() {
		catalog, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
			{ID: "g2", Number: 2, Name: "الأرضيات", NameEN: "Floors", MaxScore: 10, Category: types.General, IsActive: true},
			{ID: "g1", Number: 1, Name: "نظافة السجاد", NameEN: "Carpet cleanliness", MaxScore: 6, Category: types.General, IsActive: true},
		})
		So(err, ShouldBeNil)

		ts := time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC)
		rec := model.NewRecord("EVS-20240307-1234", "أمل", "قسم التغذية", types.General, ts,
			catalog.ItemsFor(types.General),
			map[string]int{"g1": 4, "g2": 10},
			map[string]string{"g1": "بقع قرب المدخل"},
			map[string][]string{"g1": {"بقع"}},
		)

		Convey("When building in Arabic", func() {
			doc := report.Build(rec, catalog, types.Arabic)

			Convey("Then lines are ordered by item number with joined presentation", func() {
				So(doc.Lines, ShouldHaveLength, 2)
				So(doc.Lines[0].Number, ShouldEqual, 1)
				So(doc.Lines[0].Name, ShouldEqual, "نظافة السجاد")
				So(doc.Lines[0].Score, ShouldEqual, 4)
				So(doc.Lines[0].Note, ShouldEqual, "بقع قرب المدخل")
				So(doc.Lines[0].Observations, ShouldResemble, []string{"بقع"})
				So(doc.Lines[1].Number, ShouldEqual, 2)
				So(doc.Lines[1].MaxScore, ShouldEqual, 10)
			})

			Convey("Then the stored totals carry over untouched", func() {
				So(doc.TotalScore, ShouldEqual, 14)
				So(doc.MaxPossible, ShouldEqual, 16)
				So(doc.Percentage, ShouldAlmostEqual, 87.5, 0.0001)
				So(doc.Band, ShouldEqual, types.BandAcceptable)
			})

			Convey("Then the category label follows the language", func() {
				So(doc.CategoryLabel, ShouldEqual, types.General.Label(types.Arabic))
				en := report.Build(rec, catalog, types.English)
				So(en.CategoryLabel, ShouldEqual, types.General.Label(types.English))
			})
		})

		Convey("When an item was removed from the catalog after submission", func() {
			trimmed, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "g1", Number: 1, Name: "نظافة السجاد", MaxScore: 6, Category: types.General, IsActive: true},
			})
			So(err, ShouldBeNil)

			doc := report.Build(rec, trimmed, types.Arabic)

			Convey("Then the orphaned score line is skipped but totals survive", func() {
				So(doc.Lines, ShouldHaveLength, 1)
				So(doc.TotalScore, ShouldEqual, 14)
				So(doc.MaxPossible, ShouldEqual, 16)
			})
		})
	})
}
