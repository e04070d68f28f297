package trip_views

import (
	"html/template"
)

// TripList is the page listing a trip's points, each linking to its edit page.
// It is executed with a []Row.
type TripList struct {
	id string
}

// NewTripList returns the list view; id names its template.
func NewTripList(id string) *TripList {
	return &TripList{id: template.HTMLEscapeString(id)}
}

// Parse defines the list page's template and returns its name.
func (tl *TripList) Parse(
	t *template.Template,
) (name string, err error) {
	name = tl.id
	addedMap := template.FuncMap{
		"totalCost": TotalCost,
	}
	_, err = t.Funcs(addedMap).Parse(
		`{{ define "` + name + `" }}
		<!DOCTYPE html>
		<html lang="en">
		<head>
			<meta charset="UTF-8">
			<title>Trip</title>
			<link rel="icon" href="data:,">
		</head>
		<body class="page-body">
			<header class="page-header">
				<section class="trip-main__trip-info trip-info">
					<p class="trip-info__cost">
						Total: &euro;&nbsp;<span class="trip-info__cost-value">{{ totalCost . }}</span>
					</p>
				</section>
				<a class="trip-main__event-add-btn btn btn--big btn--yellow" href="/points/new">New event</a>
			</header>
			<main class="page-body__page-main page-main">
				<section class="trip-events">
					<h2 class="visually-hidden">Trip events</h2>
					{{ if not . }}
					<p class="trip-events__msg">Click New Event to create your first point</p>
					{{ else }}
					<ul class="trip-events__list">
						{{ range $row := . }}
						<li class="trip-events__item" id="point-{{ $row.ID }}">
							<div class="event">
								<time class="event__date" datetime="{{ $row.DayISO }}">{{ $row.Day }}</time>
								<div class="event__type">
									<img class="event__type-icon" width="42" height="42" src="{{ $row.TypeIcon }}" alt="Event type icon">
								</div>
								<h3 class="event__title">{{ $row.Type }} {{ $row.City }}</h3>
								<div class="event__schedule">
									<p class="event__time">
										<time class="event__start-time" datetime="{{ $row.StartISO }}">{{ $row.StartTime }}</time>
										&mdash;
										<time class="event__end-time" datetime="{{ $row.EndISO }}">{{ $row.EndTime }}</time>
									</p>
									<p class="event__duration">{{ $row.Duration }}</p>
								</div>
								<p class="event__price">
									&euro;&nbsp;<span class="event__price-value">{{ $row.Cost }}</span>
								</p>
								<h4 class="visually-hidden">Offers:</h4>
								<ul class="event__selected-offers">
									{{ range $offer := $row.Offers }}
									<li class="event__offer">
										<span class="event__offer-title">{{ $offer.Title }}</span>
										&plus;&euro;&nbsp;
										<span class="event__offer-price">{{ $offer.Price }}</span>
									</li>
									{{ end }}
								</ul>
								<a class="event__rollup-btn" href="{{ $row.EditHref }}">
									<span class="visually-hidden">Open event</span>
								</a>
							</div>
						</li>
						{{ end }}
					</ul>
					{{ end }}
				</section>
			</main>
		</body>
		</html>
		{{ end }}`)
	return
}
