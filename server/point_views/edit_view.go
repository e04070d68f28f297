package point_views

import (
	"errors"
	"fmt"
	"log"

	"tripedit/models"
	"tripedit/server/fastview"

	"github.com/google/uuid"
)

// Element is the capability the edit view is built upon: a materialized element
// that accepts listeners, dispatches events to them, re-renders and is disposed.
// fastview.Mount implements it.
type Element interface {
	fastview.Lifecycle
	AddEventListener(target *fastview.Node, eventType string, h fastview.Handler) error
	Dispatch(*fastview.Event) bool
}

// MountFunc materializes a template into an Element.
type MountFunc func(id string, tmpl *fastview.Node) Element

func defaultMount(id string, tmpl *fastview.Node) Element {
	return fastview.NewMount(id, tmpl)
}

// SubmitMode selects the point a submit hands to OnSubmitClick.
type SubmitMode int

const (
	// SubmitPassThrough hands over the point the view holds, ignoring edits made in the form.
	SubmitPassThrough SubmitMode = iota
	// SubmitFormState hands over a new point parsed from the submitted form values.
	SubmitFormState
)

// The edit view's abstract events. Reset and rollup are distinct user intents even
// though, by default, both end in OnResetClick.
const (
	EventReset  = "reset"
	EventRollup = "rollup"
	EventSubmit = "submit"
)

// ErrMissingCallback is returned when an edit view is built without its submit or reset callback.
var ErrMissingCallback = errors.New("edit view requires OnSubmitClick and OnResetClick")

// EditViewParams are the inputs of NewEditView.
type EditViewParams struct {
	// ID keys the view's elements; a uuid when empty.
	ID string
	// Point is the point to edit; the empty point when nil.
	Point *models.Point
	// PointOffers are the offers valid for the point's type; nil means none.
	PointOffers []models.Offer
	// Destinations lists the destinations offered; nil means none.
	Destinations  DestinationProvider
	OnSubmitClick func(*models.Point)
	OnResetClick  func()
	// OnRollupClick handles the rollup control; OnResetClick when nil.
	OnRollupClick func()
	SubmitMode    SubmitMode
	// Mount materializes the template; fastview.NewMount when nil.
	Mount MountFunc
}

// EditView is the edit form of a single point. It holds the point and its offers,
// renders them through RenderEditTemplate, and translates the form's DOM events
// into the caller's callbacks. Handlers are attached once, on construction; showing
// a different point takes a new view.
type EditView struct {
	id            string
	point         *models.Point
	pointOffers   []models.Offer
	destinations  DestinationProvider
	onSubmitClick func(*models.Point)
	onResetClick  func()
	onRollupClick func()
	submitMode    SubmitMode
	element       Element
}

// NewEditView renders the form, mounts it and attaches the reset, rollup and submit handlers.
func NewEditView(params EditViewParams) (*EditView, error) {
	if params.OnSubmitClick == nil || params.OnResetClick == nil {
		return nil, ErrMissingCallback
	}

	v := &EditView{
		id:            params.ID,
		point:         params.Point,
		pointOffers:   params.PointOffers,
		destinations:  params.Destinations,
		onSubmitClick: params.OnSubmitClick,
		onResetClick:  params.OnResetClick,
		onRollupClick: params.OnRollupClick,
		submitMode:    params.SubmitMode,
	}
	if v.id == "" {
		v.id = uuid.NewString()
	}
	if v.point == nil {
		empty := models.EmptyPoint()
		v.point = &empty
	}
	if v.pointOffers == nil {
		v.pointOffers = []models.Offer{}
	}
	if v.onRollupClick == nil {
		v.onRollupClick = v.onResetClick
	}

	mount := params.Mount
	if mount == nil {
		mount = defaultMount
	}
	v.element = mount(v.id, v.Template())

	if err := v.bind(); err != nil {
		v.element.Dispose()
		return nil, err
	}
	return v, nil
}

// bind attaches the three handlers to the materialized element.
func (v *EditView) bind() error {
	root := v.element.Element()
	bindings := []struct {
		event     string
		match     fastview.Matcher
		eventType string
		handler   fastview.Handler
	}{
		{EventReset, fastview.ByClass(ResetButtonClass), fastview.EventClick, v.resetButtonClickHandler},
		{EventRollup, fastview.ByClass(RollupButtonClass), fastview.EventClick, v.rollupButtonClickHandler},
		{EventSubmit, fastview.ByTag("form"), fastview.EventSubmit, v.submitFormHandler},
	}
	for _, b := range bindings {
		target := root.Find(b.match)
		if target == nil {
			return fmt.Errorf("bind %s: no element for the %s listener", b.event, b.eventType)
		}
		if err := v.element.AddEventListener(target, b.eventType, b.handler); err != nil {
			return fmt.Errorf("bind %s: %w", b.event, err)
		}
	}
	return nil
}

// ID returns the key of the view's root element.
func (v *EditView) ID() string {
	return v.id
}

// Point returns the point the view holds.
func (v *EditView) Point() *models.Point {
	return v.point
}

// Template renders the form for the held point, offers and current destinations.
// It has no side effects.
func (v *EditView) Template() *fastview.Node {
	var destinations []models.Destination
	if v.destinations != nil {
		destinations = v.destinations.List()
	}
	return RenderEditTemplate(EditTemplateData{
		Point:        *v.point,
		PointOffers:  v.pointOffers,
		Destinations: destinations,
	})
}

// Element returns the materialized form, nil once disposed.
func (v *EditView) Element() *fastview.Node {
	return v.element.Element()
}

// Rerender renders the template again, after an external change such as a destination
// catalog reload, and returns the resulting ele-updates.
func (v *EditView) Rerender() []fastview.EleUpdate {
	return v.element.Rerender(v.Template())
}

// Dispatch routes a DOM event to the view's handlers, reporting whether one handled it.
func (v *EditView) Dispatch(ev *fastview.Event) bool {
	return v.element.Dispatch(ev)
}

// Dispose detaches the handlers and releases the element.
func (v *EditView) Dispose() {
	v.element.Dispose()
}

func (v *EditView) resetButtonClickHandler(ev *fastview.Event) {
	ev.PreventDefault()
	v.onResetClick()
}

func (v *EditView) rollupButtonClickHandler(ev *fastview.Event) {
	ev.PreventDefault()
	v.onRollupClick()
}

func (v *EditView) submitFormHandler(ev *fastview.Event) {
	ev.PreventDefault()

	if v.submitMode != SubmitFormState {
		v.onSubmitClick(v.point)
		return
	}

	edited, err := ParsePointForm(*v.point, ev.Form, v.pointOffers, v.destinations)
	if err != nil {
		log.Printf("edit view %s: submit ignored: %v", v.id, err)
		return
	}
	v.onSubmitClick(&edited)
}
