package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/jkriig/privacy-sweep/internal/match"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
	"github.com/jkriig/privacy-sweep/internal/sites"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		HTTPClient: server.Client(),
		limiter:    newHostLimiter(0, 1),
	}
}

func TestFetchCandidates(t *testing.T) {
	page := `<html><body>
	<a href="/name/Jane-Doe/TX/Austin">Jane Anne Doe in Austin, TX</a>
	<a href="#reviews">Jane Anne Doe Austin TX</a>
	<a href="https://elsewhere.example.com/jane-doe-austin-tx">Jane Doe Austin TX</a>
	<a href="/name/Jane-Doe/TX/Austin">Jane Anne Doe in Austin, TX</a>
	<a href="/privacy">Privacy Policy</a>
	<a href="mailto:support@example.com">Jane Doe Austin contact</a>
	<a href="/jane/doe/austin/report">Jane Doe Austin premium report</a>
	</body></html>`
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(page))
	}))
	defer server.Close()

	subject := queryparser.Parse("Jane Anne Doe, Austin TX")
	plan := sites.Plan{Key: "whitepages", URL: server.URL + "/search"}
	candidates, err := testClient(server).FetchCandidates(context.Background(), plan, subject)
	if err != nil {
		t.Fatal(err)
	}
	if gotUserAgent != DefaultUserAgent {
		t.Fatalf("unexpected User-Agent: %q", gotUserAgent)
	}

	wantURL1 := server.URL + "/name/Jane-Doe/TX/Austin"
	wantURL2 := server.URL + "/jane/doe/austin/report"
	score1, matched1 := match.Score("Jane Anne Doe in Austin, TX", wantURL1, subject)
	score2, matched2 := match.Score("Jane Doe Austin premium report", wantURL2, subject)
	expect := []model.Candidate{{
		Site:          "whitepages",
		Title:         "Jane Anne Doe in Austin, TX",
		URL:           wantURL1,
		Score:         score1,
		MatchedFields: matched1,
	}, {
		Site:          "whitepages",
		Title:         "Jane Doe Austin premium report",
		URL:           wantURL2,
		Score:         score2,
		MatchedFields: matched2,
	}}
	if diff := cmp.Diff(expect, candidates); diff != "" {
		t.Fatal(diff)
	}
	if candidates[0].Score <= candidates[1].Score {
		t.Fatal("expected candidates sorted by descending score")
	}
}

func TestFetchCandidatesRotatesUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := NewClient(0, 10*time.Second)
	client.HTTPClient = server.Client()
	subject := queryparser.Parse("Jane Doe, Austin TX")
	if _, err := client.FetchCandidates(context.Background(), sites.Plan{Key: "x", URL: server.URL}, subject); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, ua := range userAgents {
		if ua == gotUserAgent {
			found = true
		}
	}
	if !found {
		t.Fatalf("User-Agent not from the pool: %q", gotUserAgent)
	}
}

func TestFetchCandidatesCapsPerSite(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 25; i++ {
		sb.WriteString(`<a href="/jane-doe-austin-` + strings.Repeat("x", i+1) + `">Jane Doe Austin</a>`)
	}
	sb.WriteString("</body></html>")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sb.String()))
	}))
	defer server.Close()

	subject := queryparser.Parse("Jane Doe, Austin TX")
	candidates, err := testClient(server).FetchCandidates(context.Background(), sites.Plan{Key: "x", URL: server.URL}, subject)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != maxCandidatesPerSite {
		t.Fatalf("expected %d candidates, got %d", maxCandidatesPerSite, len(candidates))
	}
}

func TestFetchCandidatesClipsTitle(t *testing.T) {
	longTitle := "Jane Doe Austin " + strings.Repeat("x", 150)
	page := `<html><body><a href="/jane-doe-austin">` + longTitle + `</a></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	subject := queryparser.Parse("Jane Doe, Austin TX")
	candidates, err := testClient(server).FetchCandidates(context.Background(), sites.Plan{Key: "x", URL: server.URL}, subject)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	if got := len([]rune(candidates[0].Title)); got != 120 {
		t.Fatalf("expected title clipped to 120 runes, got %d", got)
	}
}

func TestFetchCandidatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	subject := queryparser.Parse("Jane Doe, Austin TX")
	_, err := testClient(server).FetchCandidates(context.Background(), sites.Plan{Key: "x", URL: server.URL}, subject)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSameSite(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"www.whitepages.com", "whitepages.com", true},
		{"www.whitepages.com", "WWW.WHITEPAGES.COM", true},
		{"www.whitepages.com", "spokeo.com", false},
		{"127.0.0.1", "127.0.0.1", true},
		{"127.0.0.1", "whitepages.com", false},
	}
	for _, tc := range cases {
		if got := sameSite(tc.a, tc.b); got != tc.want {
			t.Fatalf("sameSite(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestHostLimiterSharesPerHost(t *testing.T) {
	hl := newHostLimiter(time.Hour, 1)
	if hl.limiterFor("a.example.com") != hl.limiterFor("a.example.com") {
		t.Fatal("expected the same limiter for the same host")
	}
	if hl.limiterFor("a.example.com") == hl.limiterFor("b.example.com") {
		t.Fatal("expected distinct limiters per host")
	}
}

func TestHostLimiterHonorsContext(t *testing.T) {
	hl := newHostLimiter(time.Hour, 1)
	ctx := context.Background()
	if err := hl.Wait(ctx, "slow.example.com"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := hl.Wait(ctx, "slow.example.com"); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}

func TestFetchCandidatesBadURL(t *testing.T) {
	subject := queryparser.Parse("Jane Doe, Austin TX")
	client := NewClient(0, time.Second)
	_, err := client.FetchCandidates(context.Background(), sites.Plan{Key: "x", URL: ":\x00bad"}, subject)
	if err == nil {
		t.Fatal("expected a URL parse error")
	}
}

func TestExtractResolvesRelativeAgainstPage(t *testing.T) {
	base, err := url.Parse("https://radaris.com/ng/results?ff=Jane&fl=Doe")
	if err != nil {
		t.Fatal(err)
	}
	page := `<html><body><a href="p/Jane/Doe/Austin">Jane Doe Austin</a></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	subject := queryparser.Parse("Jane Doe, Austin TX")
	got := extract(doc, base, "radaris", subject)
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}
	if want := "https://radaris.com/ng/p/Jane/Doe/Austin"; got[0].URL != want {
		t.Fatalf("unexpected URL: got %q, want %q", got[0].URL, want)
	}
}
