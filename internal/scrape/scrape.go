// Package scrape fetches search result pages and extracts candidate
// profile links for a subject.
//
// Scraping is best effort. Most people search sites render results
// with JavaScript or sit behind interstitials, so an empty candidate
// list is common and not an error.
package scrape

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"

	"github.com/jkriig/privacy-sweep/internal/match"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
	"github.com/jkriig/privacy-sweep/internal/sites"
)

// maxCandidatesPerSite bounds how many links we keep per site.
const maxCandidatesPerSite = 15

// Client fetches search result pages with per-host rate limiting.
type Client struct {
	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client

	limiter   *hostLimiter
	userAgent func() string
}

// NewClient creates a Client. The delay is the minimum spacing between
// requests to the same host and the timeout applies per request.
func NewClient(delay, timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		limiter:    newHostLimiter(delay, 1),
		userAgent:  randomUserAgent,
	}
}

func (c *Client) nextUserAgent() string {
	if c.userAgent != nil {
		return c.userAgent()
	}
	return DefaultUserAgent
}

// FetchCandidates fetches the search page of the given plan and returns
// the links scoring at least match.Threshold against the subject,
// sorted by descending score.
func (c *Client) FetchCandidates(ctx context.Context, plan sites.Plan, subject *queryparser.Subject) ([]model.Candidate, error) {
	base, err := url.Parse(plan.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing search URL")
	}
	if err := c.limiter.Wait(ctx, base.Hostname()); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, plan.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.nextUserAgent())
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected response status: %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML")
	}
	return extract(doc, base, plan.Key, subject), nil
}

// extract walks the anchors of a fetched page. Links leaving the site,
// fragment links, and links scoring below the threshold are dropped.
// The first occurrence of a URL wins.
func extract(doc *goquery.Document, base *url.URL, siteKey string, subject *queryparser.Subject) []model.Candidate {
	seen := make(map[string]bool)
	var out []model.Candidate
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		full := base.ResolveReference(ref)
		if full.Scheme != "http" && full.Scheme != "https" {
			return
		}
		if !sameSite(base.Hostname(), full.Hostname()) {
			return
		}
		fullStr := full.String()
		if seen[fullStr] {
			return
		}
		seen[fullStr] = true
		text := strings.TrimSpace(a.Text())
		score, matched := match.Score(text, fullStr, subject)
		if score < match.Threshold {
			return
		}
		out = append(out, model.Candidate{
			Site:          siteKey,
			Title:         clipRunes(text, 120),
			URL:           fullStr,
			Score:         score,
			MatchedFields: matched,
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > maxCandidatesPerSite {
		out = out[:maxCandidatesPerSite]
	}
	return out
}

// sameSite reports whether two hostnames share a registrable domain,
// so www.whitepages.com and whitepages.com compare equal. IP literals
// and hostnames without a public suffix compare exactly.
func sameSite(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if net.ParseIP(a) != nil || net.ParseIP(b) != nil {
		return a == b
	}
	da, errA := publicsuffix.EffectiveTLDPlusOne(a)
	db, errB := publicsuffix.EffectiveTLDPlusOne(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da == db
}

func clipRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
