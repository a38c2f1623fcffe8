package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td class="Izquierda">
			AQR   Capital
			Management, LLC
		</td></tr></table>`,
	))
	require.NoError(t, err)

	require.Equal(t, "AQR Capital Management, LLC", CleanText(doc.Find("td")))
}

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<td><span>1,</span><b>53</b></td>`,
	))
	require.NoError(t, err)

	sel := doc.Find("td")
	require.Len(t, sel.Nodes, 1)
	require.Equal(t, "1,53", GetText(sel.Nodes[0]))
}

func TestAttr(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<td data-th="% sobre el capital">1,53</td>`,
	))
	require.NoError(t, err)

	v, ok := Attr(doc.Find("td"), "data-th")
	require.True(t, ok)
	require.Equal(t, "% sobre el capital", v)

	_, ok = Attr(doc.Find("td"), "class")
	require.False(t, ok)

	_, ok = Attr(doc.Find("article"), "class")
	require.False(t, ok)
}
