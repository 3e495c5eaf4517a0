// Package goquery implements HTML handlers on top of the goquery DOM.
package goquery

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/crawler"
)

var _ crawler.Handler = (*LinkHandler)(nil)

// linkSelector matches anchors and alternate-version links.
const linkSelector = "a[href], link[href][rel=alternate]"

// LinkHandler extracts outgoing links from a page.
//
// Hostnames and ExcludedHostnames hold exact hostnames or apex domains. A
// link passes when its host or apex domain is in Hostnames (if set) and in
// neither form in ExcludedHostnames.
type LinkHandler struct {
	Hostnames         []string
	ExcludedHostnames []string
}

// Handle returns the absolute http(s) URLs linked from the page in document
// order, with fragments removed. The parsed document is stored in c.DOM for
// later handlers; a document already present there is reused.
func (h *LinkHandler) Handle(_ context.Context, c *crawler.Context) ([]string, error) {
	base, err := url.Parse(c.URL)
	if err != nil {
		return nil, crawler.Errorf(crawler.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := Document(c)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if link, ok := h.resolve(base, href); ok {
			links = append(links, link)
		}
	})
	return links, nil
}

// Document returns the goquery document cached on c, parsing c.Body and
// caching the result on first use.
func Document(c *crawler.Context) (*goquery.Document, error) {
	if doc, ok := c.DOM.(*goquery.Document); ok {
		return doc, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Body))
	if err != nil {
		return nil, crawler.Errorf(crawler.EINVALID, "failed to parse HTML: %v", err)
	}
	c.DOM = doc
	return doc, nil
}

func (h *LinkHandler) resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	hostname := u.Hostname()
	apex := crawler.ApexDomain(hostname)
	if h.Hostnames != nil && !slices.Contains(h.Hostnames, apex) && !slices.Contains(h.Hostnames, hostname) {
		return "", false
	}
	if slices.Contains(h.ExcludedHostnames, apex) || slices.Contains(h.ExcludedHostnames, hostname) {
		return "", false
	}

	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), true
}
