package optout

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/browser"
	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/onboard"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sites"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("optout", "Print the opt-out endpoints of data broker sites")

	open := cmd.Flag("open",
		"Open the opt-out pages in your default browser").Bool()
	limitOpen := cmd.Flag("limit-open",
		"Max number of tabs to open, 0 means the configured default").Default("0").Int64()
	done := cmd.Flag("done",
		"Record the opt-out of a site as completed").String()
	pending := cmd.Flag("pending",
		"Record the opt-out of a site as pending again").String()
	selection := cmd.Arg("sites",
		"Site keys or groups, defaults to the configured group").Strings()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return dooptout(sweep, dooptoutoptions{
			Selection:       *selection,
			Open:            *open,
			LimitOpen:       *limitOpen,
			Done:            *done,
			Pending:         *pending,
			OpenURL:         browser.OpenURL,
			MaybeOnboarding: onboard.MaybeOnboarding,
		})
	})
}

// dooptoutoptions contains the flags and hooks driving dooptout.
type dooptoutoptions struct {
	Selection       []string
	Open            bool
	LimitOpen       int64
	Done            string
	Pending         string
	OpenURL         func(url string) error
	MaybeOnboarding func(cli sweeper.SweeperCLI) error
}

func dooptout(cli sweeper.SweeperCLI, opts dooptoutoptions) error {
	if opts.Done != "" || opts.Pending != "" {
		if opts.Done != "" {
			if err := markOptOut(cli, opts.Done, model.OptOutDone); err != nil {
				return err
			}
		}
		if opts.Pending != "" {
			if err := markOptOut(cli, opts.Pending, model.OptOutPending); err != nil {
				return err
			}
		}
		return nil
	}

	selection := opts.Selection
	if len(selection) == 0 {
		selection = []string{cli.Config().Defaults.Group}
	}
	links, err := sites.SelectionOptOutLinks(selection)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		log.Warn("no opt-out endpoints for this selection")
		return nil
	}

	if opts.Open {
		if err := opts.MaybeOnboarding(cli); err != nil {
			return err
		}
	}

	statuses, err := optOutStatuses(cli)
	if err != nil {
		return err
	}
	limit := opts.LimitOpen
	if limit <= 0 {
		limit = cli.Config().Defaults.LimitOpen
	}

	output.SectionTitle("Opt-out endpoints")
	var opened int64
	for _, link := range links {
		status := statuses[link.Key]
		if opts.Open && opened < limit {
			if err := opts.OpenURL(link.URL); err != nil {
				log.WithError(err).Warnf(
					"could not open %s in a browser, use the printed URL", link.Key)
			} else {
				opened++
				// A completed opt-out stays done, we only bump
				// pending entries to opened.
				if status == "" || status == model.OptOutPending {
					status = model.OptOutOpened
					if _, err := cli.DB().UpsertOptOut(link.Key, link.URL, status); err != nil {
						log.WithError(err).Warn("could not record the open")
					}
				}
			}
		}
		if status == "" {
			status = model.OptOutPending
		}
		output.OptOutItem(output.OptOutItemData{
			Site:   link.Key,
			URL:    link.URL,
			Status: status,
		})
	}
	return nil
}

// markOptOut updates the ledger status of a single site.
func markOptOut(cli sweeper.SweeperCLI, key, status string) error {
	site := sites.Lookup(key)
	if site == nil {
		return fmt.Errorf("%w: %q", sites.ErrUnknownKey, key)
	}
	if site.OptOut == "" {
		return errors.Errorf("%s has no known opt-out endpoint", key)
	}
	if _, err := cli.DB().UpsertOptOut(key, site.OptOut, status); err != nil {
		return errors.Wrap(err, "recording the opt-out status")
	}
	log.Infof("recorded the %s opt-out as %s", key, status)
	return nil
}

func optOutStatuses(cli sweeper.SweeperCLI) (map[string]string, error) {
	rows, err := cli.DB().ListOptOuts()
	if err != nil {
		return nil, errors.Wrap(err, "listing the recorded opt-outs")
	}
	statuses := make(map[string]string)
	for _, row := range rows {
		statuses[row.SiteKey] = row.Status
	}
	return statuses, nil
}
