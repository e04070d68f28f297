package fastview

// Diff returns the ele-updates that turn a client showing prev into one showing next.
// Both trees must be materialized by the same Mount, so that elements at the same
// position carry the same key. Attribute and text changes are sent as fine-grained
// ops; when an element's child structure changes its children are replaced wholesale.
func Diff(prev, next *Node) (updates []EleUpdate) {
	if prev == nil || next == nil {
		return nil
	}
	if prev.Tag != next.Tag {
		key, _ := prev.Get(KeyAttr)
		return []EleUpdate{{
			EleId: key,
			Ops:   []Op{{Key: OuterHTML, Value: RenderString(next)}},
		}}
	}
	diffElement(prev, next, &updates)
	return
}

func diffElement(prev, next *Node, updates *[]EleUpdate) {
	key, _ := next.Get(KeyAttr)
	ops := diffAttrs(prev.Attrs, next.Attrs)

	textChanged := childTextChanged(prev, next)
	if !sameShape(prev.Children, next.Children) || (textChanged && hasElementChild(next)) {
		ops = append(ops, Op{Key: InnerHTML, Value: renderChildren(next)})
		*updates = append(*updates, EleUpdate{EleId: key, Ops: ops})
		return
	}
	if textChanged {
		ops = append(ops, Op{Key: TextContent, Value: next.TextContent()})
	}
	if len(ops) > 0 {
		*updates = append(*updates, EleUpdate{EleId: key, Ops: ops})
	}

	for i, c := range next.Children {
		if !c.IsText() {
			diffElement(prev.Children[i], c, updates)
		}
	}
}

// diffAttrs returns set ops for new or changed attributes, then remove ops for dropped ones.
func diffAttrs(prev, next []Attr) (ops []Op) {
	old := make(map[string]string, len(prev))
	for _, a := range prev {
		old[a.Key] = a.Val
	}
	seen := make(map[string]bool, len(next))
	for _, a := range next {
		seen[a.Key] = true
		if val, ok := old[a.Key]; !ok || val != a.Val {
			ops = append(ops, Op{Key: a.Key, Value: a.Val})
		}
	}
	for _, a := range prev {
		if !seen[a.Key] {
			ops = append(ops, Op{Key: RemoveAttribute, Value: a.Key})
		}
	}
	return
}

// sameShape reports whether both child lists have the same length, and pairwise the same kind and tag.
func sameShape(prev, next []*Node) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if prev[i].Tag != next[i].Tag {
			return false
		}
	}
	return true
}

// childTextChanged reports whether any direct text child differs. It assumes sameShape,
// and answers false otherwise since the children will be replaced anyway.
func childTextChanged(prev, next *Node) bool {
	if !sameShape(prev.Children, next.Children) {
		return false
	}
	for i, c := range next.Children {
		if c.IsText() && c.Text != prev.Children[i].Text {
			return true
		}
	}
	return false
}

func hasElementChild(n *Node) bool {
	for _, c := range n.Children {
		if !c.IsText() {
			return true
		}
	}
	return false
}
