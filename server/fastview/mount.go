package fastview

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Attributes stamped onto materialized elements. The client locates update
// targets by KeyAttr and forwards events only for the types listed in OnAttr.
const (
	KeyAttr = "data-fv-key"
	OnAttr  = "data-fv-on"
)

var (
	// ErrDisposed is returned when a listener is added to a disposed mount.
	ErrDisposed = errors.New("mount is disposed")
	// ErrNotMounted is returned when a listener target is not part of the mounted element.
	ErrNotMounted = errors.New("target is not an element of the mount")
)

type listenerKey struct {
	target    string
	eventType string
}

// Mount materializes a view's template into a live element. Each element is keyed
// by its position in the tree, so keys survive re-renders that keep the structure,
// and listeners registered at construction stay bound across re-renders.
type Mount struct {
	id string

	mu        sync.Mutex
	root      *Node
	listeners map[listenerKey]Handler
	disposed  bool
}

var _ Lifecycle = (*Mount)(nil)

// NewMount materializes tmpl. The id prefixes every element key, and must be unique
// among the mounts sharing a page.
func NewMount(id string, tmpl *Node) *Mount {
	m := &Mount{
		id:        id,
		listeners: map[listenerKey]Handler{},
	}
	m.root = m.materialize(tmpl)
	return m
}

// ID returns the mount's id, which is also the key of its root element.
func (m *Mount) ID() string {
	return m.id
}

// Element returns the materialized root element, or nil after Dispose.
// Callers may read the tree but must register listeners through AddEventListener.
func (m *Mount) Element() *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root
}

// Query returns the first element of the mount that matches, like querySelector.
func (m *Mount) Query(match Matcher) *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return nil
	}
	return m.root.Find(match)
}

// AddEventListener binds h to events of eventType addressed to target, which must be
// an element of the mount.
func (m *Mount) AddEventListener(target *Node, eventType string, h Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return ErrDisposed
	}
	key, ok := target.Get(KeyAttr)
	if !ok || m.root.Find(func(n *Node) bool { return n == target }) == nil {
		return ErrNotMounted
	}

	m.listeners[listenerKey{target: key, eventType: eventType}] = h
	m.markListeners(target)
	return nil
}

// Dispatch invokes the listener bound to the event's target and type, reporting
// whether one was invoked. The handler runs without the mount locked, so it may re-render.
func (m *Mount) Dispatch(ev *Event) bool {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return false
	}
	h, ok := m.listeners[listenerKey{target: ev.Target, eventType: ev.Type}]
	if ok && m.root.Find(ByAttr(KeyAttr, ev.Target)) == nil {
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	h(ev)
	return true
}

// Rerender materializes tmpl in place of the current element and returns the
// updates for clients showing the previous one. It returns nil once disposed.
func (m *Mount) Rerender(tmpl *Node) []EleUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return nil
	}
	next := m.materialize(tmpl)
	updates := Diff(m.root, next)
	m.root = next
	return updates
}

// HTML returns the markup of the current element.
func (m *Mount) HTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.root == nil {
		return ""
	}
	return RenderString(m.root)
}

// Dispose releases the element and every listener. It is safe to call more than once.
func (m *Mount) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	m.listeners = nil
	m.root = nil
}

// materialize copies tmpl, then stamps keys and listener marks onto the copy.
// The caller's template is never modified.
func (m *Mount) materialize(tmpl *Node) *Node {
	root := tmpl.Clone()
	m.stamp(root, m.id)
	return root
}

func (m *Mount) stamp(n *Node, key string) {
	if n.IsText() {
		return
	}
	n.Set(KeyAttr, key)
	m.markListeners(n)
	for i, c := range n.Children {
		m.stamp(c, key+"."+strconv.Itoa(i))
	}
}

// markListeners sets OnAttr to the sorted event types bound to n, or removes it.
func (m *Mount) markListeners(n *Node) {
	key, _ := n.Get(KeyAttr)
	var types []string
	for lk := range m.listeners {
		if lk.target == key {
			types = append(types, lk.eventType)
		}
	}
	if len(types) == 0 {
		n.Unset(OnAttr)
		return
	}
	sort.Strings(types)
	n.Set(OnAttr, strings.Join(types, " "))
}
