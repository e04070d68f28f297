package models

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEventTypes(t *testing.T) {
	Convey("Given the event type enum", t, func() {
		Convey("It holds the nine types in display order", func() {
			So(len(EventTypes), ShouldEqual, 9)
			So(EventTypes[0], ShouldEqual, Taxi)
			So(EventTypes[6], ShouldEqual, CheckIn)
			So(EventTypes[8], ShouldEqual, Restaurant)
		})

		Convey("Matching is case-sensitive", func() {
			So(IsEventType("Check-in"), ShouldBeTrue)
			So(IsEventType("check-in"), ShouldBeFalse)
			So(IsEventType(""), ShouldBeFalse)
		})
	})
}

func TestPoint(t *testing.T) {
	Convey("Given the empty point", t, func() {
		p := EmptyPoint()

		Convey("It has a valid type and neutral values", func() {
			So(p.Type, ShouldEqual, Taxi)
			So(p.Cost, ShouldEqual, 0)
			So(p.Offers, ShouldBeEmpty)
			So(p.CityInformation.Photos, ShouldBeEmpty)
			So(p.Validate(), ShouldBeNil)
		})

		Convey("Each call returns an independent value", func() {
			p.Offers = append(p.Offers, 1)
			So(EmptyPoint().Offers, ShouldBeEmpty)
		})
	})

	Convey("When validating points", t, func() {
		start := time.Date(2019, 7, 10, 22, 55, 0, 0, time.UTC)
		p := Point{ID: "p1", Type: Flight, Cost: 120, DateStart: start, DateEnd: start.Add(time.Hour)}

		Convey("A well-formed point passes", func() {
			So(p.Validate(), ShouldBeNil)
		})

		Convey("An unknown type fails", func() {
			p.Type = "Rocket"
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("The event type rule registers and is enforced", func() {
			var v interface{ Struct(interface{}) error }
			So(func() { v = newValidator() }, ShouldNotPanic)
			p.Type = "Rocket"
			So(v.Struct(p), ShouldNotBeNil)
			p.Type = Taxi
			So(v.Struct(p), ShouldBeNil)
		})

		Convey("A negative cost fails", func() {
			p.Cost = -1
			So(p.Validate(), ShouldNotBeNil)
		})

		Convey("An end before the start fails", func() {
			p.DateEnd = start.Add(-time.Minute)
			So(p.Validate(), ShouldNotBeNil)
		})
	})

	Convey("HasOffer reports selected offer ids", t, func() {
		p := Point{Offers: []int{2, 5}}
		So(p.HasOffer(2), ShouldBeTrue)
		So(p.HasOffer(3), ShouldBeFalse)
	})
}

func TestDestinationModel(t *testing.T) {
	Convey("Given a destination model", t, func() {
		dests := []Destination{
			{ID: 1, CityName: "Amsterdam"},
			{ID: 2, CityName: "Geneva", Photos: []Photo{{Src: "img/1.jpg", Description: "Lake"}}},
		}
		dm := NewDestinationModel(dests)

		Convey("List returns every destination in catalog order", func() {
			list := dm.List()
			So(len(list), ShouldEqual, 2)
			So(list[0].CityName, ShouldEqual, "Amsterdam")
			So(list[1].CityName, ShouldEqual, "Geneva")
		})

		Convey("GetByID finds a known id", func() {
			d, ok := dm.GetByID(2)
			So(ok, ShouldBeTrue)
			So(d.CityName, ShouldEqual, "Geneva")
		})

		Convey("GetByID reports absence for an unknown id", func() {
			d, ok := dm.GetByID(42)
			So(ok, ShouldBeFalse)
			So(d, ShouldResemble, Destination{})
		})

		Convey("Load replaces the catalog without touching earlier List results", func() {
			before := dm.List()
			dm.Load([]Destination{{ID: 3, CityName: "Chamonix"}})
			So(len(before), ShouldEqual, 2)
			So(len(dm.List()), ShouldEqual, 1)
			_, ok := dm.GetByID(1)
			So(ok, ShouldBeFalse)
		})

		Convey("Loading does not alias the caller's slice", func() {
			dests[0].CityName = "Changed"
			So(dm.List()[0].CityName, ShouldEqual, "Amsterdam")
		})

		Convey("Snapshot copies the photos", func() {
			d, _ := dm.GetByID(2)
			info := d.Snapshot()
			info.Photos[0].Src = "other.jpg"
			d2, _ := dm.GetByID(2)
			So(d2.Photos[0].Src, ShouldEqual, "img/1.jpg")
			So(info.CityName, ShouldEqual, "Geneva")
		})
	})
}

func TestPointsModel(t *testing.T) {
	Convey("Given a points model", t, func() {
		t0 := time.Date(2019, 7, 10, 0, 0, 0, 0, time.UTC)
		pm := NewPointsModel([]Point{
			{ID: "b", DateStart: t0.Add(time.Hour)},
			{ID: "a", DateStart: t0},
		})

		Convey("List orders by start date", func() {
			list := pm.List()
			So(len(list), ShouldEqual, 2)
			So(list[0].ID, ShouldEqual, "a")
			So(list[1].ID, ShouldEqual, "b")
		})

		Convey("Upsert replaces by id", func() {
			pm.Upsert(Point{ID: "a", Cost: 10, DateStart: t0})
			p, ok := pm.GetByID("a")
			So(ok, ShouldBeTrue)
			So(p.Cost, ShouldEqual, 10)
			So(len(pm.List()), ShouldEqual, 2)
		})

		Convey("Delete removes a point", func() {
			So(pm.Delete("a"), ShouldBeTrue)
			So(pm.Delete("a"), ShouldBeFalse)
			_, ok := pm.GetByID("a")
			So(ok, ShouldBeFalse)
		})
	})
}
