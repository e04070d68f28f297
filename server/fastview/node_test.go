package fastview

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testTree() *Node {
	return El("div", Class("card", "card--wide"), A("id", "card")).Add(
		El("h3").Add(Text("Title")),
		El("ul").Add(
			El("li", Class("item")).Add(Text("one")),
			El("li", Class("item"), BoolAttr("hidden", true)).Add(Text("two")),
		),
		El("img", A("src", "a.png")),
	)
}

func TestNode(t *testing.T) {
	Convey("Given a tree", t, func() {
		root := testTree()

		Convey("Zero attributes and nil children are dropped", func() {
			n := El("input", BoolAttr("checked", false), A("type", "checkbox")).Add(nil)
			So(len(n.Attrs), ShouldEqual, 1)
			So(n.Children, ShouldBeEmpty)
		})

		Convey("Queries find elements in document order", func() {
			So(root.Find(ByID("card")), ShouldEqual, root)
			items := root.FindAll(ByClass("item"))
			So(len(items), ShouldEqual, 2)
			So(items[1].TextContent(), ShouldEqual, "two")
			So(root.Find(ByTag("img")), ShouldNotBeNil)
			So(root.Find(ByTag("table")), ShouldBeNil)
			So(root.HasClass("card--wide"), ShouldBeTrue)
			So(root.HasClass("card--"), ShouldBeFalse)
		})

		Convey("TextContent concatenates descendant text", func() {
			So(root.TextContent(), ShouldEqual, "Titleonetwo")
		})

		Convey("Set, Unset and Has edit attributes", func() {
			root.Set("id", "other")
			root.Set("role", "note")
			v, _ := root.Get("id")
			So(v, ShouldEqual, "other")
			So(root.Has("role"), ShouldBeTrue)
			root.Unset("role")
			So(root.Has("role"), ShouldBeFalse)
		})

		Convey("Clone is deep and Equal", func() {
			c := root.Clone()
			So(c.Equal(root), ShouldBeTrue)
			c.Children[1].Children[0].Set("class", "changed")
			So(c.Equal(root), ShouldBeFalse)
			So(root.Children[1].Children[0].HasClass("item"), ShouldBeTrue)
		})

		Convey("Equal is sensitive to text and attribute order", func() {
			So(El("a", A("x", "1"), A("y", "2")).Equal(El("a", A("y", "2"), A("x", "1"))), ShouldBeFalse)
			So(Text("a").Equal(Text("b")), ShouldBeFalse)
			var nilNode *Node
			So(nilNode.Equal(nil), ShouldBeTrue)
		})

		Convey("Render writes escaped html", func() {
			n := El("p", A("title", `a"b`)).Add(Text("<x> & y"), El("br"))
			So(RenderString(n), ShouldEqual, `<p title="a&#34;b">&lt;x&gt; &amp; y<br/></p>`)
			So(RenderString(root), ShouldEqual,
				`<div class="card card--wide" id="card"><h3>Title</h3><ul><li class="item">one</li>`+
					`<li class="item" hidden="">two</li></ul><img src="a.png"/></div>`)
		})

		Convey("Children of void elements are not rendered", func() {
			n := El("img").Add(Text("ignored"))
			So(RenderString(n), ShouldEqual, `<img/>`)
		})
	})
}
