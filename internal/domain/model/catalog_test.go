package model_test

import (
	"errors"
	"testing"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleCatalog() *model.Catalog {
	c, err := model.NewCatalog(
		[]model.Inspector{
			{ID: "1", DisplayName: "أمل", Username: "amal", AllowedZones: []types.Category{types.HighRisk, types.MedRisk, types.General}, IsActive: true},
			{ID: "2", DisplayName: "صالح", Username: "saleh", AllowedZones: []types.Category{types.General}, IsActive: false},
		},
		[]model.Zone{
			{ID: "z1", Name: "جناح 5", Category: types.HighRisk},
			{ID: "z2", Name: "قسم التغذية", Category: types.General},
			{ID: "z3", Name: "العلاج الطبيعي", Category: types.MedRisk},
		},
		[]model.ChecklistItem{
			{ID: "g2", Number: 2, Name: "الأرضيات والبلاط", MaxScore: 10, Category: types.General, IsActive: true},
			{ID: "g1", Number: 1, Name: "نظافة السجاد", MaxScore: 6, Category: types.General, IsActive: true, Observations: []string{"غبار", "بقع"}},
			{ID: "g3", Number: 3, Name: "بند ملغي", MaxScore: 4, Category: types.General, IsActive: false},
			{ID: "h1", Number: 1, Name: "الأرضيات والسلالم", MaxScore: 6, Category: types.HighRisk, IsActive: true},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

func TestCatalogValidation(t *testing.T) {
	Convey("Given catalog collections", t, func() {
		Convey("When every invariant holds", func() {
			So(sampleCatalog(), ShouldNotBeNil)
		})

		Convey("When a zone carries an unknown category", func() {
			_, err := model.NewCatalog(nil, []model.Zone{{ID: "z1", Name: "x", Category: "LOW_RISK"}}, nil)
			So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When an item has a negative max score", func() {
			_, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "g1", Number: 1, Name: "x", MaxScore: -1, Category: types.General, IsActive: true},
			})
			So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When two active items of one category share a number", func() {
			_, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "g1", Number: 1, Name: "a", MaxScore: 5, Category: types.General, IsActive: true},
				{ID: "g2", Number: 1, Name: "b", MaxScore: 5, Category: types.General, IsActive: true},
			})
			So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When the duplicate number belongs to an inactive item", func() {
			_, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "g1", Number: 1, Name: "a", MaxScore: 5, Category: types.General, IsActive: true},
				{ID: "g2", Number: 1, Name: "b", MaxScore: 5, Category: types.General, IsActive: false},
			})
			So(err, ShouldBeNil)
		})

		Convey("When duplicate numbers live in different categories", func() {
			_, err := model.NewCatalog(nil, nil, []model.ChecklistItem{
				{ID: "g1", Number: 1, Name: "a", MaxScore: 5, Category: types.General, IsActive: true},
				{ID: "h1", Number: 1, Name: "b", MaxScore: 5, Category: types.HighRisk, IsActive: true},
			})
			So(err, ShouldBeNil)
		})

		Convey("When an inspector allows an unknown category", func() {
			_, err := model.NewCatalog([]model.Inspector{
				{ID: "1", DisplayName: "x", AllowedZones: []types.Category{"NOPE"}},
			}, nil, nil)
			So(errors.Is(err, model.ErrInvalidCatalog), ShouldBeTrue)
		})
	})
}

func TestCatalogLookups(t *testing.T) {
	Convey("Given a populated catalog", t, func() {
		c := sampleCatalog()

		Convey("Then ItemsFor should return only active items, ordered by number", func() {
			items := c.ItemsFor(types.General)
			So(items, ShouldHaveLength, 2)
			So(items[0].ID, ShouldEqual, "g1")
			So(items[1].ID, ShouldEqual, "g2")
		})

		Convey("Then ItemsFor on an empty category should return nothing", func() {
			So(c.ItemsFor(types.MedRisk), ShouldBeEmpty)
		})

		Convey("Then ActiveInspectors should drop inactive ones", func() {
			active := c.ActiveInspectors()
			So(active, ShouldHaveLength, 1)
			So(active[0].ID, ShouldEqual, "1")
		})

		Convey("Then ZonesFor should filter by category", func() {
			zones := c.ZonesFor(types.HighRisk)
			So(zones, ShouldHaveLength, 1)
			So(zones[0].ID, ShouldEqual, "z1")
		})

		Convey("Then lookups by id should behave", func() {
			z, ok := c.ZoneByID("z2")
			So(ok, ShouldBeTrue)
			So(z.Name, ShouldEqual, "قسم التغذية")

			_, ok = c.ZoneByID("z99")
			So(ok, ShouldBeFalse)

			item, ok := c.ItemByID("g3")
			So(ok, ShouldBeTrue)
			So(item.IsActive, ShouldBeFalse)

			insp, ok := c.InspectorByID("2")
			So(ok, ShouldBeTrue)
			So(insp.IsActive, ShouldBeFalse)
		})

		Convey("Then Clone should be independent of the original", func() {
			clone := c.Clone()
			clone.Zones[0].Name = "changed"
			clone.Checklists[0].Observations = append(clone.Checklists[0].Observations, "extra")
			So(c.Zones[0].Name, ShouldEqual, "جناح 5")
			So(c.Checklists[0].Observations, ShouldHaveLength, 0)
		})
	})
}

func TestCatalogImportExport(t *testing.T) {
	Convey("Given the import parser", t, func() {
		Convey("When the document is not valid JSON", func() {
			_, err := model.ParseCatalog([]byte(`{"inspectors": [`))
			So(errors.Is(err, model.ErrImport), ShouldBeTrue)
		})

		Convey("When the document is a JSON array instead of an object", func() {
			_, err := model.ParseCatalog([]byte(`[1, 2, 3]`))
			So(errors.Is(err, model.ErrImport), ShouldBeTrue)
		})

		Convey("When the checklists collection is missing", func() {
			_, err := model.ParseCatalog([]byte(`{"inspectors": [], "zones": []}`))
			So(errors.Is(err, model.ErrImport), ShouldBeTrue)
		})

		Convey("When the document violates a catalog invariant", func() {
			doc := `{"inspectors": [], "zones": [{"id": "z1", "name": "x", "type_code": "NOPE"}], "checklists": []}`
			_, err := model.ParseCatalog([]byte(doc))
			So(errors.Is(err, model.ErrImport), ShouldBeTrue)
		})

		Convey("When exporting and re-importing a catalog", func() {
			c := sampleCatalog()
			data, err := c.Export()
			So(err, ShouldBeNil)

			back, err := model.ParseCatalog(data)
			So(err, ShouldBeNil)

			Convey("Then the round trip should reproduce the catalog in order", func() {
				So(back.Inspectors, ShouldResemble, c.Inspectors)
				So(back.Zones, ShouldResemble, c.Zones)
				So(back.Checklists, ShouldResemble, c.Checklists)
			})
		})
	})
}
