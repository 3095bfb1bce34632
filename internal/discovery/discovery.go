// Package discovery builds the search plans for a subject and runs
// them: recording findings, opening URLs, and scraping candidates.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/browser"
	"github.com/jkriig/privacy-sweep/internal/match"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
	"github.com/jkriig/privacy-sweep/internal/scrape"
	"github.com/jkriig/privacy-sweep/internal/sites"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

// Controller drives one sweep over the selected sites.
type Controller struct {
	Sweeper sweeper.SweeperCLI
	Subject *queryparser.Subject

	// Open requests opening each search URL in a browser.
	Open bool

	// LimitOpen caps how many URLs may be opened.
	LimitOpen int64

	// EnginesOnlyOpen restricts opening to search engine links.
	EnginesOnlyOpen bool

	// SafeDiscovery never generates broker URLs.
	SafeDiscovery bool

	// Scrape requests best-effort candidate scraping.
	Scrape bool

	// DryRun prints the sweep without recording or opening anything.
	DryRun bool

	// OpenURL opens a URL in a browser.
	OpenURL func(url string) error

	// FetchCandidates scrapes a single search page.
	FetchCandidates func(ctx context.Context, plan sites.Plan, subject *queryparser.Subject) ([]model.Candidate, error)
}

// NewController creates a Controller with the sweeper's configured
// defaults. Callers adjust the exported knobs before calling Run.
func NewController(cli sweeper.SweeperCLI, subject *queryparser.Subject) *Controller {
	cfg := cli.Config()
	delay := time.Duration(cfg.Scrape.DelaySeconds * float64(time.Second))
	timeout := time.Duration(cfg.Scrape.TimeoutSeconds * float64(time.Second))
	client := scrape.NewClient(delay, timeout)
	return &Controller{
		Sweeper:         cli,
		Subject:         subject,
		LimitOpen:       cfg.Defaults.LimitOpen,
		EnginesOnlyOpen: cfg.Discovery.EnginesOnlyOpen,
		SafeDiscovery:   cfg.Discovery.SafeDiscovery,
		OpenURL:         browser.OpenURL,
		FetchCandidates: client.FetchCandidates,
	}
}

// Run executes a sweep over the given selection of site keys and
// groups. Per-site failures are recorded and do not stop the run.
func (c *Controller) Run(ctx context.Context, selection []string) error {
	plans, err := c.plans(selection)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		log.Warn("nothing to sweep for this selection")
		return nil
	}

	output.SubjectTable(c.Subject, "parsed your query")
	if c.DryRun && c.Open {
		log.Info("dry run requested, not opening URLs")
	}

	var sweep *model.DatabaseSweep
	if !c.DryRun {
		sweep, err = c.Sweeper.DB().CreateSweep(
			uuid.New().String(), c.Subject.Name,
			strings.Join(selection, ","), c.Subject.Raw,
		)
		if err != nil {
			return errors.Wrap(err, "creating sweep")
		}
	}

	output.SectionTitle("Search URLs")
	var (
		opened     int64
		candidates []model.Candidate
	)
	for idx, plan := range plans {
		if c.Sweeper.IsTerminated() {
			log.Info("user requested us to terminate using Ctrl-C")
			break
		}
		planCandidates, item := c.runPlan(ctx, sweep, plan, idx, len(plans), &opened)
		candidates = append(candidates, planCandidates...)
		output.FindingItem(item)
	}

	printCandidates(candidates, c.Scrape)

	if sweep != nil {
		if err := c.Sweeper.DB().FinishSweep(sweep); err != nil {
			return errors.Wrap(err, "finishing sweep")
		}
		log.Infof("recorded sweep #%d covering %d sites", sweep.ID, len(plans))
	}
	return nil
}

// plans expands the selection into concrete search plans. Safe
// discovery coerces the selection to the search engine groups before
// expansion, so broker URLs are never generated.
func (c *Controller) plans(selection []string) ([]sites.Plan, error) {
	if c.SafeDiscovery {
		selection = sites.SafeSelection(selection)
	}
	var (
		plans   []sites.Plan
		skipped []string
	)
	if sites.IsAll(selection) {
		plans = sites.AllSearchPlans(c.Subject)
	} else {
		keys, err := sites.Expand(selection)
		if err != nil {
			return nil, err
		}
		plans, skipped = sites.SearchPlans(c.Subject, keys)
	}
	for _, key := range skipped {
		log.Warnf("skipping %s: the subject has no matching phone or email", key)
	}
	if c.SafeDiscovery {
		plans = sites.EnginesOnly(plans)
	}
	return plans, nil
}

func (c *Controller) runPlan(ctx context.Context, sweep *model.DatabaseSweep,
	plan sites.Plan, idx, total int, opened *int64) ([]model.Candidate, output.FindingItemData) {
	item := output.FindingItemData{
		Site:           plan.Key,
		URL:            plan.URL,
		IsSearchEngine: plan.SearchEngine,
		State:          "active",
	}

	var finding *model.DatabaseFinding
	if sweep != nil {
		var err error
		finding, err = c.Sweeper.DB().CreateFinding(sweep.ID, plan.Key, plan.URL, plan.SearchEngine)
		if err != nil {
			log.WithError(err).Errorf("could not record a finding for %s", plan.Key)
		}
	}

	if c.shouldOpen(plan, *opened) {
		if err := c.OpenURL(plan.URL); err != nil {
			log.WithError(err).Warnf("could not open %s in a browser, use the printed URL", plan.Key)
		} else {
			*opened++
			item.Opened = true
			if finding != nil {
				if err := c.Sweeper.DB().FindingOpened(finding); err != nil {
					log.WithError(err).Warn("could not record the open")
				}
			}
		}
	}

	var planCandidates []model.Candidate
	failure := ""
	if c.Scrape {
		output.Progress(plan.Key, float64(idx)/float64(total), fmt.Sprintf("scraping %s", plan.Key))
		fetched, err := c.FetchCandidates(ctx, plan, c.Subject)
		if err != nil {
			failure = err.Error()
			log.WithError(err).Debugf("scraping %s failed", plan.Key)
		} else {
			planCandidates = fetched
		}
	}

	switch {
	case failure != "":
		item.State = "failed"
		item.Failure = failure
		if finding != nil {
			if err := c.Sweeper.DB().FindingFailed(finding, failure); err != nil {
				log.WithError(err).Warn("could not record the failure")
			}
		}
	default:
		item.State = "done"
		item.CandidateCount = int64(len(planCandidates))
		if finding != nil {
			if len(planCandidates) > 0 {
				if err := c.Sweeper.DB().SetCandidates(finding, planCandidates); err != nil {
					log.WithError(err).Warn("could not record the candidates")
				}
			}
			if err := c.Sweeper.DB().FindingDone(finding); err != nil {
				log.WithError(err).Warn("could not record the finding")
			}
		}
	}
	return planCandidates, item
}

func (c *Controller) shouldOpen(plan sites.Plan, opened int64) bool {
	if !c.Open || c.DryRun {
		return false
	}
	if opened >= c.LimitOpen {
		return false
	}
	if c.EnginesOnlyOpen && !plan.SearchEngine {
		return false
	}
	return true
}

func printCandidates(rows []model.Candidate, scraped bool) {
	rows = match.Merge(rows)
	if len(rows) == 0 {
		if scraped {
			log.Info("no scraped candidates; sites may require JavaScript or a captcha")
		}
		return
	}
	output.SectionTitle("Candidates")
	for _, row := range rows {
		output.CandidateItem(row)
	}
}
