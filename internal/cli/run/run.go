package run

import (
	"context"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/discovery"
	"github.com/jkriig/privacy-sweep/internal/onboard"
	"github.com/jkriig/privacy-sweep/internal/profile"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
	"github.com/jkriig/privacy-sweep/internal/scrape"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("run", "Build and open the search URLs for your details")

	query := cmd.Flag("query",
		"Free-form subject string with name and any of: city/state, phone, email").String()
	useProfile := cmd.Flag("use-profile",
		"Use the saved profile when --query is omitted").Bool()
	open := cmd.Flag("open",
		"Open the generated search URLs in your default browser").Bool()
	limitOpen := cmd.Flag("limit-open",
		"Max number of tabs to open, 0 means the configured default").Default("0").Int64()
	safeDiscovery := cmd.Flag("safe-discovery",
		"Only generate search engine discovery links, never broker URLs").Bool()
	enginesOnlyOpen := cmd.Flag("engines-only-open",
		"Print every URL but only open the search engine ones").Bool()
	scrapeFlag := cmd.Flag("scrape",
		"Fetch the search pages and extract candidate profile URLs (best-effort)").Bool()
	delay := cmd.Flag("delay",
		"Seconds between requests when scraping, 0 means the configured default").Default("0").Float64()
	dryRun := cmd.Flag("dry-run",
		"Print the whole sweep without recording or opening anything").Bool()
	selection := cmd.Arg("sites",
		"Site keys or groups (peoplecore,google,startpage,brokers_plus,more_people) or 'all'").Strings()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return dorun(sweep, dorunoptions{
			Selection:       *selection,
			Query:           *query,
			UseProfile:      *useProfile,
			Open:            *open,
			LimitOpen:       *limitOpen,
			SafeDiscovery:   *safeDiscovery,
			EnginesOnlyOpen: *enginesOnlyOpen,
			Scrape:          *scrapeFlag,
			DelaySeconds:    *delay,
			DryRun:          *dryRun,
			MaybeOnboarding: onboard.MaybeOnboarding,
		})
	})
}

// dorunoptions contains the flags and hooks driving dorun.
type dorunoptions struct {
	Selection       []string
	Query           string
	UseProfile      bool
	Open            bool
	LimitOpen       int64
	SafeDiscovery   bool
	EnginesOnlyOpen bool
	Scrape          bool
	DelaySeconds    float64
	DryRun          bool
	MaybeOnboarding func(cli sweeper.SweeperCLI) error
}

// dorun resolves the subject query and drives a discovery sweep.
func dorun(cli sweeper.SweeperCLI, opts dorunoptions) error {
	raw := opts.Query
	if raw == "" && opts.UseProfile {
		saved, err := profile.Load(cli.Config())
		if err != nil {
			return err
		}
		raw = saved
	}
	if raw == "" {
		return errors.New(
			"provide --query or save a profile with `privacysweep profile set`")
	}
	subject := queryparser.Parse(raw)
	if subject.IsZero() {
		return errors.Errorf("cannot parse any subject details out of %q", raw)
	}

	if opts.Open && !opts.DryRun {
		if err := opts.MaybeOnboarding(cli); err != nil {
			return err
		}
	}

	ctl := newController(cli, subject, opts)
	selection := opts.Selection
	if len(selection) == 0 {
		selection = []string{cli.Config().Defaults.Group}
	}
	return ctl.Run(context.Background(), selection)
}

// newController applies the command line overrides on top of the
// configured discovery defaults. A zero LimitOpen or DelaySeconds
// keeps the configured value.
func newController(cli sweeper.SweeperCLI, subject *queryparser.Subject,
	opts dorunoptions) *discovery.Controller {
	ctl := discovery.NewController(cli, subject)
	ctl.Open = opts.Open
	ctl.DryRun = opts.DryRun
	ctl.Scrape = opts.Scrape
	if opts.LimitOpen > 0 {
		ctl.LimitOpen = opts.LimitOpen
	}
	if opts.SafeDiscovery {
		ctl.SafeDiscovery = true
	}
	if opts.EnginesOnlyOpen {
		ctl.EnginesOnlyOpen = true
	}
	if opts.DelaySeconds > 0 {
		cfg := cli.Config()
		client := scrape.NewClient(
			time.Duration(opts.DelaySeconds*float64(time.Second)),
			time.Duration(cfg.Scrape.TimeoutSeconds*float64(time.Second)),
		)
		ctl.FetchCandidates = client.FetchCandidates
	}
	return ctl
}
