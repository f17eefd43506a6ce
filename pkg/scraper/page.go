package scraper

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/arcanetranslator/arcane/pkg/htmlutil"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// Page is the parsed form of a fetched novel or chapter page.
type Page struct {
	URL         string
	Title       string
	Description string
	CoverURL    string
	// NextChapterURL is the absolute link to the following chapter, if the
	// page has one.
	NextChapterURL string
	HTML           string
	Text           string
}

// nextChapterLabels are the anchor texts reading sites use for "next
// chapter" or "next page".
var nextChapterLabels = []string{"下一章", "下一页", "下一頁", "次へ", "다음화"}

// ErrNotText is returned for bodies that aren't HTML or some other text.
var ErrNotText = errors.New("page is not text")

// ParsePage parses raw page bytes. contentType is the Content-Type header
// the body came with (it may be empty); it's used along with any <meta
// charset> to decode the body to UTF-8.
func ParsePage(pageURL string, body []byte, contentType string) (*Page, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("page is empty")
	}

	if !isText(mimetype.Detect(body)) {
		return nil, errors.Wrapf(ErrNotText, "detected %s", mimetype.Detect(body).String())
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode page charset")
	}

	return parseDocument(pageURL, r)
}

// ParseHTML parses HTML that's already been decoded, e.g. supplied by a
// client instead of fetched.
func ParseHTML(pageURL, s string) (*Page, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("page is empty")
	}
	return parseDocument(pageURL, strings.NewReader(s))
}

func parseDocument(pageURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}

	page := &Page{URL: pageURL}

	page.Title = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	page.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)
	if cover := metaContent(doc, `meta[property="og:image"]`); cover != "" {
		page.CoverURL = resolveURL(pageURL, cover)
	}

	page.NextChapterURL = nextChapterURL(doc, pageURL)

	doc.Find("script, style, noscript, iframe").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	page.HTML, err = body.Html()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	page.Text = htmlutil.StripTags(page.HTML)

	return page, nil
}

// nextChapterURL prefers an explicit rel="next" and otherwise takes the
// first anchor labelled like a next-chapter link.
func nextChapterURL(doc *goquery.Document, pageURL string) string {
	if href := linkHref(doc.Find(`link[rel="next"], a[rel="next"]`).First()); href != "" {
		return resolveURL(pageURL, href)
	}

	var next string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.TrimSpace(a.Text())
		for _, label := range nextChapterLabels {
			if strings.Contains(text, label) {
				if href := linkHref(a); href != "" {
					next = resolveURL(pageURL, href)
					return false
				}
			}
		}
		return true
	})
	return next
}

// linkHref returns the href of s unless it doesn't point anywhere.
func linkHref(s *goquery.Selection) string {
	href, _ := s.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	return href
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
