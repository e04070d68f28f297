// fastview implements simple server-side views: a view renders its data to a tree
// of nodes, a Mount materializes the tree and keeps it current, and a client
// publishes element updates to the browser over a websocket while reading the
// browser's DOM events back.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to its attributes/content.
type EleUpdate struct {
	// The key by which to find the element, the value of its data-fv-key attribute.
	EleId string
	// Op keys are attrib keys or one of the reserved keys below, values are the strings to which these are set.
	// Example: ('x','123') means 'set attribute 'x' to 123'. ('textContent','abc') means 'set ele.textContent to abc'.
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// Reserved op keys.
const (
	// TextContent sets ele.textContent to the value.
	TextContent = "textContent"
	// InnerHTML replaces the element's children with the value's markup.
	InnerHTML = "innerHTML"
	// OuterHTML replaces the element itself.
	OuterHTML = "outerHTML"
	// RemoveAttribute removes the attribute named by the value.
	RemoveAttribute = "removeAttribute"
	// Location navigates the window to the value; only valid for the WindowId element.
	Location = "location"
)

// WindowId addresses the browser window rather than an element.
const WindowId = "window"

// Navigate returns the update that sends the browser to href.
func Navigate(href string) EleUpdate {
	return EleUpdate{
		EleId: WindowId,
		Ops:   []Op{{Key: Location, Value: href}},
	}
}

// DOM event types forwarded by the client.
const (
	EventClick  = "click"
	EventSubmit = "submit"
)

// Event is a DOM event forwarded from the browser. Target is the data-fv-key of
// the element whose listener the event is addressed to.
type Event struct {
	Target string `json:"target"`
	Type   string `json:"type"`
	// Form holds the form's values for submit events.
	Form map[string][]string `json:"form,omitempty"`

	defaultPrevented bool
}

// PreventDefault marks the event as handled. The client suppresses the browser default
// for every element with a listener, so this only records the handler's intent.
func (ev *Event) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether a handler called PreventDefault.
func (ev *Event) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// Handler handles a dispatched event.
type Handler func(*Event)

// ViewComponent implements server side views: Parse to add the view's initial form
// to a page template and Updates to obtain the chan by which ele-updates are notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	// Parse parses the view-component and adds it to the passed parent template, returning
	// the name of the template it defined.
	Parse(*template.Template) (string, error)
}

// Lifecycle is the capability a view builds upon: a materialized element that can
// be re-rendered from a new template and disposed.
type Lifecycle interface {
	// Element returns the root of the materialized tree, nil once disposed.
	Element() *Node
	// Rerender replaces the element by the passed template and returns the updates that
	// bring a client showing the old element up to date.
	Rerender(*Node) []EleUpdate
	// Dispose releases the element and its listeners.
	Dispose()
}
