package markup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetween(t *testing.T) {
	tests := []struct {
		name       string
		fragment   string
		prefix     string
		terminator string
		want       string
		wantOK     bool
	}{
		{"title block", "<div><h3>Atomicrops Trophies</h3></div>", "<h3>", " Trophies", "Atomicrops", true},
		{"first prefix wins", `href="/a" href="/b"`, `href="`, `"`, "/a", true},
		{"terminator searched after prefix", `"x" href="/a"`, `href="`, `"`, "/a", true},
		{"prefix missing", "<h2>Nope</h2>", "<h3>", " Trophies", "", false},
		{"terminator missing yields remainder", "<h3>Unterminated", "<h3>", " Trophies", "Unterminated", true},
		{"empty prefix starts at zero", "Game Trophies", "", " Trophies", "Game", true},
		{"empty terminator", "key=value", "key=", "", "value", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Between(tt.fragment, tt.prefix, tt.terminator)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnescapeAmp(t *testing.T) {
	assert.Equal(t, "Ratchet & Clank", UnescapeAmp("Ratchet &amp; Clank"))
	assert.Equal(t, "a &lt; b", UnescapeAmp("a &lt; b"))
}

func parseCell(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tr>" + fragment + "</tr></table>"))
	require.NoError(t, err)
	return doc.Find("td").First()
}

func TestFirstHref(t *testing.T) {
	cell := parseCell(t, `<td><span>x</span><a href="/lib/1.png">big</a><a href="/other">o</a></td>`)
	href, ok := FirstHref(cell)
	assert.True(t, ok)
	assert.Equal(t, "/lib/1.png", href)

	_, ok = FirstHref(parseCell(t, `<td>no links</td>`))
	assert.False(t, ok)
}

func TestTextAfterBreak(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{
			"name then description",
			`<td style="width: 100%;"><a class="title" href="/trophy/1">First Blood</a><br>Win your first fight.</td>`,
			"Win your first fight.",
		},
		{
			"description repeats the name",
			`<td><a href="/trophy/2">Harvest</a><br/>Harvest 100 crops in one Harvest</td>`,
			"Harvest 100 crops in one Harvest",
		},
		{
			"nested markup in description",
			`<td><a href="/t">N</a><br>Reach <b>level 10</b>
				in story mode</td>`,
			"Reach level 10 in story mode",
		},
		{
			"no break falls back to non-anchor text",
			`<td><a href="/t">Name</a> Description only</td>`,
			"Description only",
		},
		{"empty cell", `<td></td>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TextAfterBreak(parseCell(t, tt.cell)))
		})
	}
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "Gold", CellText(parseCell(t, "<td>\n  Gold \n</td>")))
}
