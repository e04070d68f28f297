package root_view

import (
	"html/template"

	"tripedit/models"
	"tripedit/server/fastview"
	"tripedit/server/point_views"
)

// EditPageParams are the inputs of an edit page.
type EditPageParams struct {
	ID string
	// Point is the point to edit, nil for a new one.
	Point *models.Point
	// PointOffers are the offers valid for the point's type.
	PointOffers []models.Offer
	// Destinations is the catalog at page construction; later ones arrive on the page's chan.
	Destinations []models.Destination
	// OnSubmit receives the edited point and returns where to send the browser, or "".
	OnSubmit func(models.Point) string
	// OnReset returns where to send the browser after the reset (delete) control, or "".
	OnReset func() string
	// OnRollup is OnReset for the rollup control; OnReset when nil.
	OnRollup func() string
}

// EditPage is the view component hosting a point's EditView. It runs the page's
// event loop: browser events and destination catalog changes are both handled on
// the loop's goroutine, so the EditView is never used concurrently.
type EditPage struct {
	view         *point_views.EditView
	destinations *models.DestinationModel
	events       chan *fastview.Event
	updates      chan []fastview.EleUpdate
	done         <-chan struct{}
	// pending holds updates produced by handlers, which run on the loop.
	pending []fastview.EleUpdate
}

var _ fastview.ViewComponent = (*EditPage)(nil)

// NewEditPage builds the page's EditView and starts its loop, which re-renders the
// view for every destination catalog received and stops when done is closed.
func NewEditPage(
	done <-chan struct{},
	destUpdates <-chan []models.Destination,
	params EditPageParams,
) (*EditPage, error) {
	if params.OnSubmit == nil || params.OnReset == nil {
		return nil, point_views.ErrMissingCallback
	}
	page := &EditPage{
		destinations: models.NewDestinationModel(params.Destinations),
		events:       make(chan *fastview.Event),
		updates:      make(chan []fastview.EleUpdate),
		done:         done,
	}

	var onRollup func()
	if params.OnRollup != nil {
		onRollup = func() {
			page.navigate(params.OnRollup())
		}
	}

	view, err := point_views.NewEditView(point_views.EditViewParams{
		ID:           params.ID,
		Point:        params.Point,
		PointOffers:  params.PointOffers,
		Destinations: page.destinations,
		OnSubmitClick: func(p *models.Point) {
			page.navigate(params.OnSubmit(*p))
		},
		OnResetClick: func() {
			page.navigate(params.OnReset())
		},
		OnRollupClick: onRollup,
		SubmitMode:    point_views.SubmitFormState,
	})
	if err != nil {
		return nil, err
	}
	page.view = view

	go page.run(destUpdates)
	return page, nil
}

func (page *EditPage) run(destUpdates <-chan []models.Destination) {
	defer close(page.updates)
	defer page.view.Dispose()

	for {
		select {
		case <-page.done:
			return
		case dests, ok := <-destUpdates:
			if !ok {
				destUpdates = nil
				continue
			}
			page.destinations.Load(dests)
			page.pending = append(page.pending, page.view.Rerender()...)
		case ev := <-page.events:
			page.view.Dispatch(ev)
		}

		if len(page.pending) == 0 {
			continue
		}
		select {
		case page.updates <- page.pending:
			page.pending = nil
		case <-page.done:
			return
		}
	}
}

func (page *EditPage) navigate(href string) {
	if href != "" {
		page.pending = append(page.pending, fastview.Navigate(href))
	}
}

// Dispatch hands a browser event to the page's loop. It returns false, dropping the
// event, once the page is done.
func (page *EditPage) Dispatch(ev *fastview.Event) bool {
	select {
	case page.events <- ev:
		return true
	case <-page.done:
		return false
	}
}

// Updates returns the page's ele-updates; it is closed when the loop stops.
func (page *EditPage) Updates() <-chan []fastview.EleUpdate {
	return page.updates
}

// View returns the hosted edit view.
func (page *EditPage) View() *point_views.EditView {
	return page.view
}

// Parse defines the page's template and returns its name. The form's markup is
// rendered when the template executes, not parsed as template text.
func (page *EditPage) Parse(t *template.Template) (name string, err error) {
	name = "editpage"
	t.Funcs(template.FuncMap{
		"editForm": func() template.HTML {
			root := page.view.Element()
			if root == nil {
				return ""
			}
			return template.HTML(fastview.RenderString(root))
		},
	})
	_, err = t.Parse(`
	{{ define "` + name + `" }}
	<ul class="trip-events__list">
		{{ editForm }}
	</ul>
	{{ end }}
	`)
	return
}
