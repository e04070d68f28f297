package root_view

import (
	"context"
	"html/template"
	"time"

	"tripedit/catalog"
	"tripedit/models"
	"tripedit/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// DefaultBatchRate is the publishing period of a page's ele-updates when none is configured.
const DefaultBatchRate = time.Millisecond * 20

// Params are the inputs of a RootView.
type Params struct {
	// Point is the point to edit, nil for a new one.
	Point *models.Point
	// Catalog supplies the offers for the point's type and the live destination catalog.
	Catalog *catalog.Store
	// OnSubmit, OnReset and OnRollup are the page's outcomes; each returns where to
	// send the browser. OnRollup is optional and defaults to OnReset.
	OnSubmit func(models.Point) string
	OnReset  func() string
	OnRollup func() string
	// BatchRate is the period over which updates are batched; DefaultBatchRate when zero.
	BatchRate time.Duration
}

// RootView is an edit session's page: the container for its view components, the
// wiring of their channels, and the client bootstrap code. The page's websocket
// addresses the session by the RootView's id.
type RootView struct {
	id      string
	views   []fastview.ViewComponent
	page    *EditPage
	updates <-chan []fastview.EleUpdate
	cancel  context.CancelFunc
	done    <-chan struct{}
}

var _ fastview.ViewComponent = (*RootView)(nil)

// NewRootView creates the page and the views it contains. The views are fed the
// destination catalog for as long as ctx lives, or until Dispose.
func NewRootView(
	ctx context.Context,
	id string,
	params Params,
) (rv *RootView, err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		if err != nil {
			cancel()
		}
	}()

	current := params.Catalog.Current()
	point := params.Point
	if point == nil {
		empty := models.EmptyPoint()
		point = &empty
	}

	var page *EditPage
	var pageErr error
	var views []fastview.ViewComponent
	views, err = fastview.NewViewBuilder[*catalog.Catalog, []models.Destination]().
		WithContext(ctx).
		WithModel(params.Catalog.Subscribe(ctx.Done()), destinationsOf).
		WithView(func(
			done <-chan struct{},
			destUpdates <-chan []models.Destination) fastview.ViewComponent {
			page, pageErr = NewEditPage(done, destUpdates, EditPageParams{
				ID:           id,
				Point:        point,
				PointOffers:  current.OffersFor(point.Type),
				Destinations: current.Destinations,
				OnSubmit:     params.OnSubmit,
				OnReset:      params.OnReset,
				OnRollup:     params.OnRollup,
			})
			return page
		}).
		Build()
	if err == nil {
		err = pageErr
	}
	if err != nil {
		return nil, err
	}

	rate := params.BatchRate
	if rate <= 0 {
		rate = DefaultBatchRate
	}

	return &RootView{
		id:      id,
		views:   views,
		page:    page,
		updates: fanIn(ctx.Done(), views, rate),
		cancel:  cancel,
		done:    ctx.Done(),
	}, nil
}

func destinationsOf(cat *catalog.Catalog) []models.Destination {
	return cat.Destinations
}

// ID returns the session id.
func (rv *RootView) ID() string {
	return rv.id
}

// Page returns the edit page.
func (rv *RootView) Page() *EditPage {
	return rv.page
}

// Updates returns the main ele-update channel for all the views.
func (rv *RootView) Updates() <-chan []fastview.EleUpdate {
	return rv.updates
}

// Dispatch hands a browser event to the views.
func (rv *RootView) Dispatch(ev *fastview.Event) {
	rv.page.Dispatch(ev)
}

// Done is closed once the view is disposed.
func (rv *RootView) Done() <-chan struct{} {
	return rv.done
}

// Dispose stops the views, which release their elements and close Updates.
func (rv *RootView) Dispose() {
	rv.cancel()
}

// Parse builds the main page's template, with websocket bootstrap code, and returns its name.
func (rv *RootView) Parse(
	parent *template.Template,
) (name string, err error) {
	viewTemplates := []string{}
	for _, vc := range rv.views {
		if tname, parseErr := vc.Parse(parent); parseErr != nil {
			err = parseErr
			return
		} else {
			viewTemplates = append(viewTemplates, tname)
		}
	}

	// Specify the nested templates
	var bodySpec string
	for _, tname := range viewTemplates {
		bodySpec += (`{{ template "` + tname + `" . }}`)
	}

	// The main template bootstraps the rest: sets up the client websocket, applies
	// updates and forwards the events of elements with listeners.
	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html lang="en">
		<head>
			<meta charset="UTF-8">
			<title>Trip editor</title>
			<link rel="icon" href="data:,">
			<!--This is the client bootstrap code by which the server pushes new data to the view via websocket.-->
			<script>
				const scheme = location.protocol === "https:" ? "wss://" : "ws://";
				const ws = new WebSocket(scheme + location.host + "/ws/` + rv.id + `");
				ws.onopen = function (event) {
					console.log("Web socket opened")
				};

				// Listen for errors
				ws.onerror = function (event) {
					console.log('WebSocket error: ', event);
				};

				function apply(update) {
					if (update.EleId === "window") {
						for (const op of update.Ops) {
							if (op.Key === "location") {
								window.location.assign(op.Value);
							}
						}
						return;
					}
					const ele = document.querySelector('[data-fv-key="' + update.EleId + '"]');
					if (!ele) {
						return;
					}
					for (const op of update.Ops) {
						if (op.Key === "textContent") {
							ele.textContent = op.Value;
						} else if (op.Key === "innerHTML") {
							ele.innerHTML = op.Value;
						} else if (op.Key === "outerHTML") {
							ele.outerHTML = op.Value;
						} else if (op.Key === "removeAttribute") {
							ele.removeAttribute(op.Value);
							if (op.Value === "checked") {
								ele.checked = false;
							}
						} else {
							ele.setAttribute(op.Key, op.Value);
							if (op.Key === "checked") {
								ele.checked = true;
							} else if (op.Key === "value") {
								ele.value = op.Value;
							}
						}
					}
				}

				// The meat: when the server pushes view updates, find these eles and update them.
				ws.onmessage = function (event) {
					for (const update of JSON.parse(event.data)) {
						apply(update);
					}
				};

				function listenerFor(start, type) {
					let ele = start.closest("[data-fv-on]");
					while (ele && !ele.dataset.fvOn.split(" ").includes(type)) {
						ele = ele.parentElement ? ele.parentElement.closest("[data-fv-on]") : null;
					}
					return ele;
				}

				for (const type of ["click", "submit"]) {
					document.addEventListener(type, function (event) {
						const ele = listenerFor(event.target, type);
						if (!ele) {
							return;
						}
						event.preventDefault();
						const msg = { target: ele.dataset.fvKey, type: type };
						if (type === "submit") {
							msg.form = {};
							for (const [key, value] of new FormData(ele)) {
								(msg.form[key] = msg.form[key] || []).push(value);
							}
						}
						ws.send(JSON.stringify(msg));
					});
				}
			</script>
		</head>
		<body class="page-body">
		<main class="page-main">
		` + bodySpec + `
		</main>
		</body></html>
	{{ end }}
	`

	_, err = parent.Parse(indexTemplate)
	return
}

// fanIn aggregates the views' ele-update channels into a single channel,
// and batches its output.
func fanIn(
	done <-chan struct{},
	views []fastview.ViewComponent,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(
		done,
		channerics.Merge(done, inputs...),
		rate)
}

// batchify collects the updates received within each period of rate and sends them
// as one batch. Updates are deltas against the page, so the batch keeps every update
// in the order received. Pending updates are flushed when the source closes.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		var batch []fastview.EleUpdate
		send := func() bool {
			select {
			case output <- batch:
				batch = nil
				return true
			case <-done:
				return false
			}
		}

		updates := channerics.OrDone(done, source)
		ticker := channerics.NewTicker(done, rate)
		for {
			select {
			case <-done:
				return
			case ups, ok := <-updates:
				if !ok {
					if len(batch) > 0 {
						send()
					}
					return
				}
				batch = append(batch, ups...)
			case <-ticker:
				if len(batch) > 0 && !send() {
					return
				}
			}
		}
	}()

	return output
}
