package point_views

import (
	"testing"
	"time"

	"tripedit/models"
	"tripedit/server/fastview"

	. "github.com/smartystreets/goconvey/convey"
)

type callbackLog struct {
	submitted []*models.Point
	resets    int
	rollups   int
}

func (cl *callbackLog) onSubmit(p *models.Point) { cl.submitted = append(cl.submitted, p) }
func (cl *callbackLog) onReset()                 { cl.resets++ }
func (cl *callbackLog) onRollup()                { cl.rollups++ }

// eventFor returns an event addressed to the first element of the view matching match.
func eventFor(v *EditView, match fastview.Matcher, eventType string) *fastview.Event {
	target := v.Element().Find(match)
	So(target, ShouldNotBeNil)
	key, ok := target.Get(fastview.KeyAttr)
	So(ok, ShouldBeTrue)
	return &fastview.Event{Target: key, Type: eventType}
}

// recordingElement wraps a mount to count listener registrations.
type recordingElement struct {
	*fastview.Mount
	added []string
}

func (re *recordingElement) AddEventListener(target *fastview.Node, eventType string, h fastview.Handler) error {
	re.added = append(re.added, eventType)
	return re.Mount.AddEventListener(target, eventType, h)
}

func TestEditView(t *testing.T) {
	Convey("Given an edit view of a taxi point", t, func() {
		point := taxiPoint()
		cl := &callbackLog{}
		var element *recordingElement
		v, err := NewEditView(EditViewParams{
			ID:            "edit",
			Point:         &point,
			PointOffers:   []models.Offer{{ID: 1, Type: models.Taxi, Title: "Meet on arrival", Price: 10}},
			Destinations:  models.NewDestinationModel(testDestinations()),
			OnSubmitClick: cl.onSubmit,
			OnResetClick:  cl.onReset,
			Mount: func(id string, tmpl *fastview.Node) Element {
				element = &recordingElement{Mount: fastview.NewMount(id, tmpl)}
				return element
			},
		})
		So(err, ShouldBeNil)

		Convey("Exactly three listeners are attached on construction", func() {
			So(element.added, ShouldResemble, []string{fastview.EventClick, fastview.EventClick, fastview.EventSubmit})
			So(v.Element().FindAll(fastview.ByAttr(fastview.OnAttr, fastview.EventClick)), ShouldHaveLength, 2)
			So(v.Element().FindAll(fastview.ByAttr(fastview.OnAttr, fastview.EventSubmit)), ShouldHaveLength, 1)
		})

		Convey("The element reflects the template", func() {
			So(v.ID(), ShouldEqual, "edit")
			key, _ := v.Element().Get(fastview.KeyAttr)
			So(key, ShouldEqual, "edit")
			inputs := checked(v.Element().FindAll(fastview.ByClass(TypeInputClass)))
			So(len(inputs), ShouldEqual, 1)
			So(v.Template().Find(fastview.ByAttr(fastview.KeyAttr, "edit")), ShouldBeNil)
		})

		Convey("The reset control calls OnResetClick once and nothing else", func() {
			ev := eventFor(v, fastview.ByClass(ResetButtonClass), fastview.EventClick)
			So(v.Dispatch(ev), ShouldBeTrue)
			So(ev.DefaultPrevented(), ShouldBeTrue)
			So(cl.resets, ShouldEqual, 1)
			So(cl.submitted, ShouldBeEmpty)
		})

		Convey("The rollup control calls OnResetClick once and nothing else", func() {
			ev := eventFor(v, fastview.ByClass(RollupButtonClass), fastview.EventClick)
			So(v.Dispatch(ev), ShouldBeTrue)
			So(ev.DefaultPrevented(), ShouldBeTrue)
			So(cl.resets, ShouldEqual, 1)
			So(cl.submitted, ShouldBeEmpty)
		})

		Convey("Submit passes the held point itself, once", func() {
			ev := eventFor(v, fastview.ByTag("form"), fastview.EventSubmit)
			ev.Form = map[string][]string{PriceField: {"999"}}
			So(v.Dispatch(ev), ShouldBeTrue)
			So(ev.DefaultPrevented(), ShouldBeTrue)
			So(len(cl.submitted), ShouldEqual, 1)
			So(cl.submitted[0], ShouldEqual, &point)
			So(cl.submitted[0].Cost, ShouldEqual, 0)
			So(cl.resets, ShouldEqual, 0)
		})

		Convey("Events for unbound elements or types are not handled", func() {
			So(v.Dispatch(eventFor(v, fastview.ByClass(SaveButtonClass), fastview.EventClick)), ShouldBeFalse)
			So(v.Dispatch(eventFor(v, fastview.ByClass(ResetButtonClass), fastview.EventSubmit)), ShouldBeFalse)
			So(cl.resets, ShouldEqual, 0)
			So(cl.submitted, ShouldBeEmpty)
		})

		Convey("Template is re-derivable without side effects", func() {
			So(v.Template().Equal(v.Template()), ShouldBeTrue)
			So(v.Rerender(), ShouldBeEmpty)
		})

		Convey("Handlers stay bound across re-renders", func() {
			v.Rerender()
			So(v.Dispatch(eventFor(v, fastview.ByClass(RollupButtonClass), fastview.EventClick)), ShouldBeTrue)
			So(cl.resets, ShouldEqual, 1)
			So(len(element.added), ShouldEqual, 3)
		})

		Convey("Re-rendering after a catalog change updates the datalist", func() {
			dm := models.NewDestinationModel(testDestinations())
			v2, err := NewEditView(EditViewParams{
				ID:            "edit2",
				Point:         &point,
				Destinations:  dm,
				OnSubmitClick: cl.onSubmit,
				OnResetClick:  cl.onReset,
			})
			So(err, ShouldBeNil)
			dm.Load(append(testDestinations(), models.Destination{ID: 4, CityName: "Chamonix"}))
			updates := v2.Rerender()
			So(len(updates), ShouldEqual, 1)
			So(updates[0].Ops[0].Key, ShouldEqual, fastview.InnerHTML)
			So(updates[0].Ops[0].Value, ShouldContainSubstring, `value="Chamonix"`)
			So(len(v2.Element().FindAll(fastview.ByTag("option"))), ShouldEqual, 4)
		})

		Convey("After Dispose no handler runs", func() {
			ev := eventFor(v, fastview.ByClass(ResetButtonClass), fastview.EventClick)
			v.Dispose()
			So(v.Dispatch(ev), ShouldBeFalse)
			So(v.Element(), ShouldBeNil)
			So(v.Rerender(), ShouldBeNil)
			So(cl.resets, ShouldEqual, 0)
		})
	})

	Convey("Given the rollup has its own callback", t, func() {
		cl := &callbackLog{}
		v, err := NewEditView(EditViewParams{
			OnSubmitClick: cl.onSubmit,
			OnResetClick:  cl.onReset,
			OnRollupClick: cl.onRollup,
		})
		So(err, ShouldBeNil)

		Convey("Reset and rollup reach different callbacks", func() {
			v.Dispatch(eventFor(v, fastview.ByClass(RollupButtonClass), fastview.EventClick))
			So(cl.rollups, ShouldEqual, 1)
			So(cl.resets, ShouldEqual, 0)
			v.Dispatch(eventFor(v, fastview.ByClass(ResetButtonClass), fastview.EventClick))
			So(cl.resets, ShouldEqual, 1)
		})
	})

	Convey("Given no point, offers or destinations", t, func() {
		cl := &callbackLog{}
		v, err := NewEditView(EditViewParams{OnSubmitClick: cl.onSubmit, OnResetClick: cl.onReset})
		So(err, ShouldBeNil)

		Convey("The empty point is edited with no offers", func() {
			So(v.ID(), ShouldNotBeEmpty)
			So(*v.Point(), ShouldResemble, models.EmptyPoint())
			So(v.Element().FindAll(fastview.ByClass(OfferCheckboxClass)), ShouldBeEmpty)
			So(v.Element().FindAll(fastview.ByTag("option")), ShouldBeEmpty)
			So(len(checked(v.Element().FindAll(fastview.ByClass(TypeInputClass)))), ShouldEqual, 1)
		})

		Convey("Submit passes the empty point", func() {
			v.Dispatch(eventFor(v, fastview.ByTag("form"), fastview.EventSubmit))
			So(len(cl.submitted), ShouldEqual, 1)
			So(cl.submitted[0], ShouldEqual, v.Point())
		})
	})

	Convey("Missing callbacks are rejected", t, func() {
		_, err := NewEditView(EditViewParams{OnResetClick: func() {}})
		So(err, ShouldEqual, ErrMissingCallback)
		_, err = NewEditView(EditViewParams{OnSubmitClick: func(*models.Point) {}})
		So(err, ShouldEqual, ErrMissingCallback)
	})

	Convey("Given a view capturing the form state on submit", t, func() {
		point := taxiPoint()
		point.CityInformation.CityName = "Amsterdam"
		cl := &callbackLog{}
		v, err := NewEditView(EditViewParams{
			Point:         &point,
			PointOffers:   testOffers(),
			Destinations:  models.NewDestinationModel(testDestinations()),
			OnSubmitClick: cl.onSubmit,
			OnResetClick:  cl.onReset,
			SubmitMode:    SubmitFormState,
		})
		So(err, ShouldBeNil)

		Convey("Submit passes a new point with the edits", func() {
			ev := eventFor(v, fastview.ByTag("form"), fastview.EventSubmit)
			ev.Form = map[string][]string{
				TypeField:               {"Taxi"},
				DestinationField:        {"Paris"},
				StartTimeField:          {"18/03/19 10:30"},
				EndTimeField:            {"18/03/19 12:00"},
				PriceField:              {"120"},
				OfferField(models.Taxi): {"2"},
			}
			v.Dispatch(ev)
			So(len(cl.submitted), ShouldEqual, 1)
			got := cl.submitted[0]
			So(got, ShouldNotEqual, &point)
			So(got.Cost, ShouldEqual, 120)
			So(got.Offers, ShouldResemble, []int{2})
			So(got.CityInformation.CityName, ShouldEqual, "Paris")
			So(got.DestinationID, ShouldEqual, 2)
			So(got.DateEnd.Equal(time.Date(2019, 3, 18, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(point.Cost, ShouldEqual, 0)
		})

		Convey("An invalid form calls nothing", func() {
			ev := eventFor(v, fastview.ByTag("form"), fastview.EventSubmit)
			ev.Form = map[string][]string{PriceField: {"-5"}}
			So(v.Dispatch(ev), ShouldBeTrue)
			So(cl.submitted, ShouldBeEmpty)
			So(cl.resets, ShouldEqual, 0)
		})
	})
}
