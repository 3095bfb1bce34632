package audit

import (
	"context"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/audit"
	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sites"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("audit", "Check that the opt-out endpoints are still alive")

	selection := cmd.Arg("sites",
		"Site keys or groups to audit, defaults to every site").Strings()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		timeout := time.Duration(
			sweep.Config().Scrape.TimeoutSeconds * float64(time.Second))
		return doaudit(sweep, *selection, audit.NewAuditor(timeout), time.Now)
	})
}

// doaudit probes the opt-out endpoints of the selection and writes a
// CSV report into the sweep home.
func doaudit(cli sweeper.SweeperCLI, selection []string,
	auditor *audit.Auditor, now func() time.Time) error {
	if len(selection) == 0 {
		selection = []string{"all"}
	}
	links, err := sites.SelectionOptOutLinks(selection)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		log.Warn("no opt-out endpoints for this selection")
		return nil
	}
	if cli.IsBatch() {
		auditor.ProgressWriter = nil
	}

	output.SectionTitle("Opt-out audit")
	results := auditor.Run(context.Background(), links)

	path := audit.ReportPath(cli.Home(), now())
	filep, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating the audit report")
	}
	if err := audit.WriteReport(filep, results); err != nil {
		filep.Close()
		return errors.Wrap(err, "writing the audit report")
	}
	if err := filep.Close(); err != nil {
		return err
	}
	log.Infof("wrote the audit report to %s", path)

	var broken int
	for _, result := range results {
		if !result.Healthy() {
			broken++
			log.Warnf("%s: %s: %s", result.Site, result.URL, result.Failure)
		}
	}
	log.WithFields(log.Fields{
		"type":    "table",
		"checked": len(results),
		"healthy": len(results) - broken,
		"broken":  broken,
	}).Info("audit summary")
	if broken > 0 {
		return errors.Errorf("%d opt-out endpoints look broken", broken)
	}
	return nil
}
