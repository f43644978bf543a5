package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, "<div>hello <b>brave</b> <i>new</i> world</div>")
	require.Equal(t, "hello brave new world", GetText(doc.Find("div").Nodes[0]))
}

func TestGetAnchors(t *testing.T) {
	doc := parse(t, `
		<ul>
			<li><a href="/first">  First   link  </a></li>
			<li><a href="/second">Second</a></li>
			<li><a>no href</a></li>
		</ul>
	`)

	anchors := GetAnchors(doc.Find("a"))
	require.Equal(t, []Anchor{
		{Name: "First link", Href: "/first"},
		{Name: "Second", Href: "/second"},
		{Name: "no href", Href: ""},
	}, anchors)
}
