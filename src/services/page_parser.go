package services

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// pageRow is one raw instrument row lifted from a market page, before any
// numeric or symbol normalization. Code and Percent are optional in the
// source markup and may be empty.
type pageRow struct {
	Name    string
	Price   string
	Code    string
	Percent string
}

// The pages mark instrument rows and fields with a small, stable set of
// class/attribute markers. Rows missing a name or price cell are skipped.
func parseMarketPage(r io.Reader) ([]pageRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var rows []pageRow
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" && (hasClass(n, "currency-list-row") || hasClass(n, "table-row-md")) {
			row := extractRow(n)
			if row.Name != "" && row.Price != "" {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows, nil
}

func extractRow(tr *html.Node) pageRow {
	var row pageRow
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "span" {
			switch {
			case row.Name == "" && isNameSpan(n):
				row.Name = strings.TrimSpace(nodeText(n))
			case row.Price == "" && isPriceSpan(n):
				row.Price = nodeText(n)
			case row.Code == "" && isCodeSpan(n):
				row.Code = strings.TrimSpace(nodeText(n))
			case row.Percent == "" && isPercentSpan(n):
				row.Percent = nodeText(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tr)
	return row
}

func isNameSpan(n *html.Node) bool {
	if attrVal(n, "itemprop") == "name" {
		return true
	}
	return hasClass(n, "truncate") && hasClass(n, "text-theme") && hasClass(n, "text-base")
}

func isPriceSpan(n *html.Node) bool {
	dt := attrVal(n, "dt")
	return dt == "bA" || dt == "amount"
}

func isCodeSpan(n *html.Node) bool {
	if attrVal(n, "itemprop") == "currency" {
		return true
	}
	return hasClass(n, "table-code") || hasClass(n, "code")
}

func isPercentSpan(n *html.Node) bool {
	switch attrVal(n, "dt") {
	case "change", "perc", "p":
		return true
	}
	return hasClass(n, "table-perc") || hasClass(n, "currency-change-text")
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
