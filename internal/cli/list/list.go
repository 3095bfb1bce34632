package list

import (
	"encoding/json"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("list", "List recorded sweeps")

	sweepID := cmd.Arg("id", "the id of the sweep to list findings for").Int64()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		if *sweepID > 0 {
			return dolistfindings(sweep, *sweepID)
		}
		return dolistsweeps(sweep)
	})
}

func dolistfindings(cli sweeper.SweeperCLI, sweepID int64) error {
	findings, err := cli.DB().ListFindings(sweepID)
	if err != nil {
		log.WithError(err).Error("failed to list findings")
		return err
	}
	output.SectionTitle("Findings")
	for _, finding := range findings {
		output.FindingItem(output.FindingItemData{
			Site:           finding.SiteKey,
			URL:            finding.URL,
			IsSearchEngine: finding.IsSearchEngine,
			Opened:         finding.Opened,
			State:          finding.State,
			Failure:        finding.Failure.String,
			CandidateCount: finding.CandidateCount,
		})
	}
	return nil
}

func dolistsweeps(cli sweeper.SweeperCLI) error {
	sweeps, err := cli.DB().ListSweeps()
	if err != nil {
		log.WithError(err).Error("failed to list sweeps")
		return err
	}

	var doneSweeps, incompleteSweeps []model.DatabaseSweep
	for _, sweep := range sweeps {
		if sweep.IsDone {
			doneSweeps = append(doneSweeps, sweep)
		} else {
			incompleteSweeps = append(incompleteSweeps, sweep)
		}
	}

	if len(incompleteSweeps) > 0 {
		output.SectionTitle("Incomplete sweeps")
	}
	for idx, sweep := range incompleteSweeps {
		item, err := sweepItem(cli, sweep, idx, len(incompleteSweeps))
		if err != nil {
			return err
		}
		output.SweepItem(item)
	}

	summary := output.SweepSummaryData{}
	output.SectionTitle("Sweeps")
	for idx, sweep := range doneSweeps {
		item, err := sweepItem(cli, sweep, idx, len(doneSweeps))
		if err != nil {
			return err
		}
		output.SweepItem(item)
		summary.TotalSweeps++
		summary.TotalFindings += int64(item.FindingCount)
		summary.TotalCandidates += int64(item.CandidateCount)
	}
	output.SweepSummary(summary)
	return nil
}

// sweepItem aggregates the findings of a sweep into one list row.
func sweepItem(cli sweeper.SweeperCLI, sweep model.DatabaseSweep,
	idx, total int) (output.SweepItemData, error) {
	findings, err := cli.DB().ListFindings(sweep.ID)
	if err != nil {
		return output.SweepItemData{}, errors.Wrapf(
			err, "listing the findings of sweep %d", sweep.ID)
	}
	item := output.SweepItemData{
		ID:         sweep.ID,
		Name:       sweep.Name,
		Selection:  sweep.Selection,
		StartTime:  sweep.StartTime,
		Runtime:    sweep.Runtime,
		Done:       sweep.IsDone,
		Index:      idx,
		TotalCount: total,
	}
	var scores []float64
	for _, finding := range findings {
		item.FindingCount++
		if finding.Opened {
			item.OpenedCount++
		}
		item.CandidateCount += uint64(finding.CandidateCount)
		scores = append(scores, findingScores(finding)...)
	}
	if len(scores) > 0 {
		median, err := stats.Median(scores)
		if err != nil {
			return output.SweepItemData{}, err
		}
		item.MedianScore = median
	}
	return item, nil
}

// findingScores decodes the candidate scores recorded for a finding.
// Corrupt rows yield no scores rather than failing the whole listing.
func findingScores(finding model.DatabaseFinding) []float64 {
	if !finding.Candidates.Valid || finding.Candidates.String == "" {
		return nil
	}
	var candidates []model.Candidate
	if err := json.Unmarshal([]byte(finding.Candidates.String), &candidates); err != nil {
		log.WithError(err).Debugf("ignoring the corrupt candidates of finding %d", finding.ID)
		return nil
	}
	var scores []float64
	for _, candidate := range candidates {
		scores = append(scores, candidate.Score)
	}
	return scores
}
