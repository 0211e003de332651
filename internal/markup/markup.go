// Package markup holds the small extraction primitives the scrapers share.
// It is not a general HTML parser; it only knows the shapes of the two
// psnprofiles page templates.
package markup

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Between returns the text strictly between the first occurrence of prefix
// and the first occurrence of terminator after it. ok is false when prefix is
// absent. A missing terminator yields the remainder of fragment.
func Between(fragment, prefix, terminator string) (value string, ok bool) {
	start := strings.Index(fragment, prefix)
	if start == -1 {
		return "", false
	}
	rest := fragment[start+len(prefix):]
	if terminator == "" {
		return rest, true
	}
	end := strings.Index(rest, terminator)
	if end == -1 {
		return rest, true
	}
	return rest[:end], true
}

// UnescapeAmp only decodes "&amp;". Titles are the one place it is applied.
func UnescapeAmp(s string) string {
	return strings.ReplaceAll(s, "&amp;", "&")
}

// FirstHref returns the href of the first anchor inside sel.
func FirstHref(sel *goquery.Selection) (string, bool) {
	return sel.Find("a[href]").First().Attr("href")
}

// CellText is the trimmed text content of sel.
func CellText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// TextAfterBreak collects the text that follows the first <br> among sel's
// direct children. Cells with no <br> fall back to the text of every child
// that is not an anchor.
func TextAfterBreak(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	root := sel.Get(0)

	var hasBreak bool
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "br" {
			hasBreak = true
			break
		}
	}

	var buf bytes.Buffer
	seenBreak := !hasBreak
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "br" {
			if seenBreak {
				buf.WriteString(" ")
			}
			seenBreak = true
			continue
		}
		if !seenBreak {
			continue
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			continue
		}
		writeText(n, &buf)
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

func writeText(node *html.Node, buf *bytes.Buffer) {
	if node.Type == html.TextNode {
		buf.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(child, buf)
	}
}
