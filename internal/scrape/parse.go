// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// ParsePaper extracts a PaperRecord from one paper page (R2). Field-level
// misses leave the zero value (or "N/A" for the code and dataset statements);
// only a page without any title is a parse failure (R2.1).
func ParsePaper(r io.Reader) (*types.PaperRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	rec := &types.PaperRecord{CodeRepository: "N/A", Dataset: "N/A"}

	rec.Title = strings.TrimSpace(doc.Find("h1.post-title").First().Text())
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if rec.Title == "" {
		return nil, fmt.Errorf("page has no title")
	}

	doc.Find("div.post-tags").First().Find("a.post-category").Each(func(_ int, s *goquery.Selection) {
		if a := strings.TrimSpace(s.Text()); a != "" {
			rec.Authors = append(rec.Authors, a)
		}
	})

	if h := headingNode(doc, "h1", "Abstract"); h != nil {
		if p := nextElement(h, "p"); p != nil {
			rec.Abstract = strings.TrimSpace(nodeText(p))
		}
	}

	if h := selectionNode(doc, "h1#link-id"); h != nil {
		for a := nextElement(h, "a"); a != nil; a = nextElement(a, "a") {
			if href := attrValue(a, "href"); strings.HasSuffix(href, ".pdf") {
				rec.PDF = href
				break
			}
		}
	}

	if h := selectionNode(doc, "h1#bibtex-id"); h != nil {
		if code := nextElement(h, "code"); code != nil {
			rec.BibTex = strings.TrimSpace(nodeText(code))
		}
	}

	// Topics repeat across category blocks; keep first-seen order.
	seen := make(map[string]bool)
	doc.Find("div.post-categories a.post-category").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" && !seen[t] {
			seen[t] = true
			rec.Topics = append(rec.Topics, t)
		}
	})

	rec.Reviews = headedSections(doc, "h3", "Review #")
	rec.MetaReviews = headedSections(doc, "h2", "Meta-review #")

	if h := selectionNode(doc, "h1#authorFeedback-id"); h != nil {
		if bq := nextElement(h, "blockquote"); bq != nil {
			rec.AuthorFeedback = strings.TrimSpace(nodeText(bq))
		}
	}

	if h := selectionNode(doc, "h1#code-id"); h != nil {
		if p := nextElement(h, "p"); p != nil {
			rec.CodeRepository = strings.TrimSpace(nodeText(p))
		}
	}

	if h := selectionNode(doc, "h1#dataset-id"); h != nil {
		if p := nextElement(h, "p"); p != nil {
			rec.Dataset = strings.TrimSpace(nodeText(p))
		}
	}

	return rec, nil
}

// headedSections collects the review-style sections opened by headings of the
// given tag whose text contains marker (R2.7, R2.8). Each section is a map of
// its <strong> labels to the following blockquote text, and runs until the
// next heading of any level, so one section never absorbs its successor's
// content. Empty sections are dropped.
func headedSections(doc *goquery.Document, tag, marker string) []map[string]string {
	var sections []map[string]string
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(s.Text(), marker) {
			return
		}
		section := make(map[string]string)
		for n := nextNode(s.Get(0)); n != nil; n = nextNode(n) {
			if isHeading(n) {
				break
			}
			if isElement(n, "strong") {
				key := strings.TrimSpace(nodeText(n))
				if bq := nextElement(n, "blockquote"); bq != nil {
					section[key] = strings.TrimSpace(nodeText(bq))
				}
			}
		}
		if len(section) > 0 {
			sections = append(sections, section)
		}
	})
	return sections
}

// headingNode returns the first element of the given tag whose trimmed text
// equals text, or nil.
func headingNode(doc *goquery.Document, tag, text string) *html.Node {
	var node *html.Node
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == text {
			node = s.Get(0)
			return false
		}
		return true
	})
	return node
}

// selectionNode returns the first node matching the selector, or nil.
func selectionNode(doc *goquery.Document, selector string) *html.Node {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

// nextNode returns n's successor in document order: first child, else next
// sibling, else the nearest ancestor's next sibling.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// nextElement walks forward from n in document order to the next element
// with the given tag, or nil. Document order matters here: the page nests
// section bodies unevenly, so sibling-only traversal would miss content.
func nextElement(n *html.Node, tag string) *html.Node {
	for n = nextNode(n); n != nil; n = nextNode(n) {
		if isElement(n, tag) {
			return n
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func isHeading(n *html.Node) bool {
	return isElement(n, "h1") || isElement(n, "h2") || isElement(n, "h3")
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText gathers the text descendants of n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
