// Package audit checks that the opt-out endpoints in the site
// registry are still alive.
package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/jkriig/privacy-sweep/internal/scrape"
	"github.com/jkriig/privacy-sweep/internal/sites"
	"github.com/jkriig/privacy-sweep/internal/utils"
)

// DefaultFallbackServer answers lookups when the system resolver
// configuration cannot be read.
const DefaultFallbackServer = "8.8.8.8:53"

// Result is the outcome of checking a single opt-out endpoint.
type Result struct {
	Site      string
	URL       string
	Addresses []string
	Status    int
	Failure   string
}

// Healthy reports whether the endpoint resolved and answered.
func (r Result) Healthy() bool {
	return r.Failure == ""
}

// Auditor checks opt-out endpoints. Use NewAuditor to get one with
// working defaults.
type Auditor struct {
	// HTTPClient issues the endpoint checks.
	HTTPClient *http.Client

	// ResolvConf is the resolver configuration to read name servers
	// from. Empty means /etc/resolv.conf.
	ResolvConf string

	// FallbackServer is the host:port name server used when the
	// resolver configuration cannot be read.
	FallbackServer string

	// Timeout bounds each DNS query.
	Timeout time.Duration

	// ProgressWriter receives the progress bar. Nil disables it.
	ProgressWriter io.Writer
}

// NewAuditor creates an Auditor with the given per check timeout.
func NewAuditor(timeout time.Duration) *Auditor {
	return &Auditor{
		HTTPClient:     &http.Client{Timeout: timeout},
		FallbackServer: DefaultFallbackServer,
		Timeout:        timeout,
		ProgressWriter: os.Stdout,
	}
}

// Run checks every endpoint and returns one result per link. Network
// failures mark their row and never abort the run.
func (a *Auditor) Run(ctx context.Context, links []sites.OptOutLink) []Result {
	bar := a.newProgressBar(len(links))
	var results []Result
	for idx := 0; idx < len(links) && ctx.Err() == nil; idx++ {
		bar.Add(1)
		results = append(results, a.checkEndpoint(ctx, links[idx]))
	}
	return results
}

func (a *Auditor) newProgressBar(count int) *progressbar.ProgressBar {
	if a.ProgressWriter == nil {
		return progressbar.DefaultSilent(int64(count))
	}
	return progressbar.NewOptions64(
		int64(count),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(a.ProgressWriter, "\n")
		}),
		progressbar.OptionSetWriter(a.ProgressWriter),
	)
}

func (a *Auditor) checkEndpoint(ctx context.Context, link sites.OptOutLink) Result {
	result := Result{Site: link.Key, URL: link.URL}
	parsed, err := url.Parse(link.URL)
	if err != nil {
		result.Failure = err.Error()
		return result
	}
	if hostname := parsed.Hostname(); net.ParseIP(hostname) == nil {
		addrs, err := a.lookupHost(ctx, hostname)
		if err != nil {
			result.Failure = err.Error()
			return result
		}
		result.Addresses = addrs
	}
	status, err := a.fetchStatus(ctx, link.URL)
	if err != nil {
		result.Failure = err.Error()
		return result
	}
	result.Status = status
	if status >= 400 {
		result.Failure = fmt.Sprintf("unexpected response status: %d", status)
	}
	return result
}

// fetchStatus issues a HEAD request for the URL, retrying with GET
// for servers that do not implement HEAD.
func (a *Auditor) fetchStatus(ctx context.Context, urlStr string) (int, error) {
	status, err := a.request(ctx, http.MethodHead, urlStr)
	if err != nil {
		return 0, err
	}
	if status == http.StatusMethodNotAllowed {
		return a.request(ctx, http.MethodGet, urlStr)
	}
	return status, nil
}

func (a *Auditor) request(ctx context.Context, method, urlStr string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", scrape.DefaultUserAgent)
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// lookupHost resolves domain to its A and AAAA addresses. A domain
// with neither record is an error.
func (a *Auditor) lookupHost(ctx context.Context, domain string) ([]string, error) {
	servers := a.nameServers()
	var (
		addrs   []string
		lastErr error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		reply, err := a.query(ctx, servers, domain, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		for _, answer := range reply.Answer {
			switch record := answer.(type) {
			case *dns.A:
				addrs = append(addrs, record.A.String())
			case *dns.AAAA:
				addrs = append(addrs, record.AAAA.String())
			}
		}
	}
	if len(addrs) < 1 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errors.Errorf("no address associated with %s", domain)
	}
	return addrs, nil
}

func (a *Auditor) query(ctx context.Context, servers []string, domain string, qtype uint16) (*dns.Msg, error) {
	query := new(dns.Msg)
	query.SetQuestion(dns.Fqdn(domain), qtype)
	query.RecursionDesired = true
	client := &dns.Client{Timeout: a.Timeout}
	var lastErr error
	for _, server := range servers {
		reply, _, err := client.ExchangeContext(ctx, query, server)
		if err != nil {
			lastErr = err
			continue
		}
		if reply.Rcode != dns.RcodeSuccess {
			return nil, errors.Errorf("dns: %s", dns.RcodeToString[reply.Rcode])
		}
		return reply, nil
	}
	return nil, lastErr
}

// nameServers returns the host:port servers to query in order.
func (a *Auditor) nameServers() []string {
	path := a.ResolvConf
	if path == "" {
		path = "/etc/resolv.conf"
	}
	config, err := dns.ClientConfigFromFile(path)
	if err != nil || len(config.Servers) < 1 {
		return []string{a.FallbackServer}
	}
	var servers []string
	for _, server := range config.Servers {
		servers = append(servers, net.JoinHostPort(server, config.Port))
	}
	return servers
}

// WriteReport writes the results as a CSV report.
func WriteReport(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"site", "url", "addresses", "status", "failure"}); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.Site,
			result.URL,
			strings.Join(result.Addresses, ";"),
			strconv.Itoa(result.Status),
			result.Failure,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReportPath returns the timestamped report location under the sweep
// home's reports directory.
func ReportPath(home string, now time.Time) string {
	name := fmt.Sprintf("audit-%s.csv", now.UTC().Format("20060102T150405Z"))
	return filepath.Join(utils.ReportsDir(home), name)
}
