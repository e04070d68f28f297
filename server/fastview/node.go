package fastview

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is an element attribute. Boolean attributes have an empty value.
type Attr struct {
	Key string
	Val string
}

// Node is an element or a text node; text nodes have an empty Tag.
// Views build trees of nodes instead of markup strings, so trees can be compared,
// queried and diffed independently of how they are finally written out.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// A returns an attribute.
func A(key, val string) Attr {
	return Attr{Key: key, Val: val}
}

// BoolAttr returns the boolean attribute key when on, otherwise a zero Attr, which El drops.
func BoolAttr(key string, on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: key}
}

// Class returns a class attribute of the passed names.
func Class(names ...string) Attr {
	return A("class", strings.Join(names, " "))
}

// El returns an element; zero attributes are skipped.
func El(tag string, attrs ...Attr) *Node {
	n := &Node{Tag: tag}
	for _, a := range attrs {
		if a.Key != "" {
			n.Attrs = append(n.Attrs, a)
		}
	}
	return n
}

// Text returns a text node.
func Text(s string) *Node {
	return &Node{Text: s}
}

// Add appends the non-nil children and returns the node, for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// Get returns the value of the attribute key.
func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Has reports whether the attribute key is present.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Set sets the attribute key, replacing an existing value.
func (n *Node) Set(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// Unset removes the attribute key.
func (n *Node) Unset(key string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// HasClass reports whether name is one of the node's classes.
func (n *Node) HasClass(name string) bool {
	classes, _ := n.Get("class")
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	n.walk(func(d *Node) bool {
		if d.IsText() {
			sb.WriteString(d.Text)
		}
		return true
	})
	return sb.String()
}

// Matcher selects nodes in Find and FindAll.
type Matcher func(*Node) bool

// ByTag matches elements with the passed tag.
func ByTag(tag string) Matcher {
	return func(n *Node) bool { return n.Tag == tag }
}

// ByClass matches elements having the passed class.
func ByClass(name string) Matcher {
	return func(n *Node) bool { return !n.IsText() && n.HasClass(name) }
}

// ByAttr matches elements whose attribute key equals val.
func ByAttr(key, val string) Matcher {
	return func(n *Node) bool {
		v, ok := n.Get(key)
		return ok && v == val
	}
}

// ByID matches the element with the passed id.
func ByID(id string) Matcher {
	return ByAttr("id", id)
}

// Find returns the first node in document order, n included, that matches.
func (n *Node) Find(match Matcher) (found *Node) {
	n.walk(func(d *Node) bool {
		if match(d) {
			found = d
			return false
		}
		return true
	})
	return
}

// FindAll returns every matching node in document order, n included.
func (n *Node) FindAll(match Matcher) (found []*Node) {
	n.walk(func(d *Node) bool {
		if match(d) {
			found = append(found, d)
		}
		return true
	})
	return
}

// walk visits the tree in document order until visit returns false.
func (n *Node) walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree.
func (n *Node) Clone() *Node {
	c := &Node{Tag: n.Tag, Text: n.Text}
	if n.Attrs != nil {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// Equal reports whether both trees are structurally identical, attribute order included.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Tag != o.Tag || n.Text != o.Text ||
		len(n.Attrs) != len(o.Attrs) || len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Attrs {
		if n.Attrs[i] != o.Attrs[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Render writes the tree as html. Children of void elements (input, img, ...) are not written.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

// RenderString returns the tree as html.
func RenderString(n *Node) string {
	var sb strings.Builder
	// Writing to a strings.Builder never fails, and toHTML never yields a void element with children.
	_ = Render(&sb, n)
	return sb.String()
}

// renderChildren returns the html of the node's children.
func renderChildren(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		_ = Render(&sb, c)
	}
	return sb.String()
}

func toHTML(n *Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}

	hn := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if isVoid(n.Tag) {
		return hn
	}
	for _, c := range n.Children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

func isVoid(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"keygen", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
