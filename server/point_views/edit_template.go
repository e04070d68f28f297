package point_views

import (
	"fmt"
	"strconv"
	"time"

	"tripedit/models"
	"tripedit/server/fastview"
)

// Classes of the edit form's controls, by which handlers and tests locate them.
const (
	ResetButtonClass   = "event__reset-btn"
	RollupButtonClass  = "event__rollup-btn"
	SaveButtonClass    = "event__save-btn"
	TypeInputClass     = "event__type-input"
	OfferCheckboxClass = "event__offer-checkbox"
	PriceInputClass    = "event__input--price"
	TimeInputClass     = "event__input--time"
	PhotoClass         = "event__photo"
)

// Names of the edit form's inputs.
const (
	TypeField        = "event-type"
	DestinationField = "event-destination"
	StartTimeField   = "event-start-time"
	EndTimeField     = "event-end-time"
	PriceField       = "event-price"
)

// OfferField returns the name of the checkboxes of offers for type t.
func OfferField(t models.EventType) string {
	return "event-offer-" + string(t)
}

// DestinationProvider is the catalog of destinations offered by the edit form.
type DestinationProvider interface {
	List() []models.Destination
	GetByID(id int) (models.Destination, bool)
}

// EditTemplateData is everything the edit form is rendered from.
type EditTemplateData struct {
	Point models.Point
	// PointOffers are the offers available for the point's type, in catalog order.
	PointOffers []models.Offer
	// Destinations are all known destinations, regardless of the point's own.
	Destinations []models.Destination
	// FormatDate formats the time inputs; FormatDateTimeLong when nil.
	FormatDate func(time.Time) string
	// Suffix disambiguates ids when several forms share a page; "1" when empty.
	Suffix string
}

// RenderEditTemplate returns the edit form of a point. It is a pure function of its
// input: equal inputs yield Equal trees, and the input is never modified.
func RenderEditTemplate(data EditTemplateData) *fastview.Node {
	formatDate := data.FormatDate
	if formatDate == nil {
		formatDate = FormatDateTimeLong
	}
	suffix := data.Suffix
	if suffix == "" {
		suffix = "1"
	}
	id := func(name string) string { return name + "-" + suffix }
	point := &data.Point
	el, a, cls, text := fastview.El, fastview.A, fastview.Class, fastview.Text

	header := el("header", cls("event__header")).Add(
		el("div", cls("event__type-wrapper")).Add(
			el("label", cls("event__type", "event__type-btn"), a("for", id("event-type-toggle"))).Add(
				el("span", cls("visually-hidden")).Add(text("Choose event type")),
				el("img",
					cls("event__type-icon"),
					a("width", "17"),
					a("height", "17"),
					a("src", typeIcon(point.Type)),
					a("alt", "Event type icon")),
			),
			el("input",
				cls("event__type-toggle", "visually-hidden"),
				a("id", id("event-type-toggle")),
				a("type", "checkbox")),
			el("div", cls("event__type-list")).Add(
				el("fieldset", cls("event__type-group")).Add(
					el("legend", cls("visually-hidden")).Add(text("Event type")),
				).Add(renderTypeItems(point.Type, suffix)...),
			),
		),
		el("div", cls("event__field-group", "event__field-group--destination")).Add(
			el("label", cls("event__label", "event__type-output"), a("for", id("event-destination"))).Add(
				text(string(point.Type)),
			),
			el("input",
				cls("event__input", "event__input--destination"),
				a("id", id("event-destination")),
				a("type", "text"),
				a("name", DestinationField),
				a("value", point.CityInformation.CityName),
				a("list", id("destination-list"))),
			el("datalist", a("id", id("destination-list"))).Add(
				renderDestinationOptions(data.Destinations)...,
			),
		),
		el("div", cls("event__field-group", "event__field-group--time")).Add(
			el("label", cls("visually-hidden"), a("for", id("event-start-time"))).Add(text("From")),
			el("input",
				cls("event__input", TimeInputClass),
				a("id", id("event-start-time")),
				a("type", "text"),
				a("name", StartTimeField),
				a("value", formatDate(point.DateStart))),
			text("—"),
			el("label", cls("visually-hidden"), a("for", id("event-end-time"))).Add(text("To")),
			el("input",
				cls("event__input", TimeInputClass),
				a("id", id("event-end-time")),
				a("type", "text"),
				a("name", EndTimeField),
				a("value", formatDate(point.DateEnd))),
		),
		el("div", cls("event__field-group", "event__field-group--price")).Add(
			el("label", cls("event__label"), a("for", id("event-price"))).Add(
				el("span", cls("visually-hidden")).Add(text("Price")),
				text("€"),
			),
			el("input",
				cls("event__input", PriceInputClass),
				a("id", id("event-price")),
				a("type", "text"),
				a("name", PriceField),
				a("value", costValue(point.Cost))),
		),
		el("button", cls(SaveButtonClass, "btn", "btn--blue"), a("type", "submit")).Add(text("Save")),
		el("button", cls(ResetButtonClass), a("type", "reset")).Add(text("Delete")),
		el("button", cls(RollupButtonClass), a("type", "button")).Add(
			el("span", cls("visually-hidden")).Add(text("Open event")),
		),
	)

	details := el("section", cls("event__details")).Add(
		el("section", cls("event__section", "event__section--offers")).Add(
			el("h3", cls("event__section-title", "event__section-title--offers")).Add(text("Offers")),
			el("div", cls("event__available-offers")).Add(
				renderOfferSelectors(point, data.PointOffers)...,
			),
		),
		el("section", cls("event__section", "event__section--destination")).Add(
			el("h3", cls("event__section-title", "event__section-title--destination")).Add(text("Destination")),
			el("p", cls("event__destination-description")).Add(
				text(point.CityInformation.Description),
			),
			el("div", cls("event__photos-container")).Add(
				el("div", cls("event__photos-tape")).Add(
					renderPhotos(point.CityInformation.Photos)...,
				),
			),
		),
	)

	return el("li", cls("trip-events__item")).Add(
		el("form", cls("event", "event--edit"), a("action", "#"), a("method", "post")).Add(
			header,
			details,
		),
	)
}

// renderTypeItems renders a radio item per event type, checking the one equal to selected.
func renderTypeItems(selected models.EventType, suffix string) (items []*fastview.Node) {
	for _, eventType := range models.EventTypes {
		displayID := DisplayID(eventType)
		inputID := fmt.Sprintf("event-type-%s-%s", displayID, suffix)
		items = append(items, fastview.El("div", fastview.Class("event__type-item")).Add(
			fastview.El("input",
				fastview.A("id", inputID),
				fastview.Class(TypeInputClass, "visually-hidden"),
				fastview.A("type", "radio"),
				fastview.A("name", TypeField),
				fastview.A("value", string(eventType)),
				fastview.BoolAttr("checked", eventType == selected)),
			fastview.El("label",
				fastview.Class("event__type-label", "event__type-label--"+displayID),
				fastview.A("for", inputID)).Add(fastview.Text(string(eventType))),
		))
	}
	return
}

// renderOfferSelectors renders a checkbox per offer, in the order given. Selected ids
// without a matching offer are not rendered.
func renderOfferSelectors(point *models.Point, offers []models.Offer) (selectors []*fastview.Node) {
	for _, offer := range offers {
		inputID := fmt.Sprintf("event-offer-%s-%d", offer.Type, offer.ID)
		selectors = append(selectors, fastview.El("div", fastview.Class("event__offer-selector")).Add(
			fastview.El("input",
				fastview.Class(OfferCheckboxClass, "visually-hidden"),
				fastview.A("id", inputID),
				fastview.A("type", "checkbox"),
				fastview.A("name", OfferField(offer.Type)),
				fastview.A("value", strconv.Itoa(offer.ID)),
				fastview.BoolAttr("checked", point.HasOffer(offer.ID))),
			fastview.El("label", fastview.Class("event__offer-label"), fastview.A("for", inputID)).Add(
				fastview.El("span", fastview.Class("event__offer-title")).Add(fastview.Text(offer.Title)),
				fastview.Text("+€\u00a0"),
				fastview.El("span", fastview.Class("event__offer-price")).Add(fastview.Text(strconv.Itoa(offer.Price))),
			),
		))
	}
	return
}

func renderDestinationOptions(destinations []models.Destination) (options []*fastview.Node) {
	for _, dest := range destinations {
		options = append(options, fastview.El("option", fastview.A("value", dest.CityName)))
	}
	return
}

func renderPhotos(photos []models.Photo) (imgs []*fastview.Node) {
	for _, photo := range photos {
		imgs = append(imgs, fastview.El("img",
			fastview.Class(PhotoClass),
			fastview.A("src", photo.Src),
			fastview.A("alt", photo.Description)))
	}
	return
}

func typeIcon(t models.EventType) string {
	return "img/icons/" + DisplayID(t) + ".png"
}

// costValue leaves the price input blank rather than showing a zero.
func costValue(cost int) string {
	if cost == 0 {
		return ""
	}
	return strconv.Itoa(cost)
}
