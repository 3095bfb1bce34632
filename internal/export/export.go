// Package export writes a sweep's findings and candidates to CSV and
// JSON reports, optionally encrypted to an age recipient.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/match"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/utils"
)

// Finding is one row of the JSON report.
type Finding struct {
	Site           string `json:"site"`
	URL            string `json:"url"`
	IsSearchEngine bool   `json:"is_search_engine"`
	Opened         bool   `json:"opened"`
	State          string `json:"state"`
	CandidateCount int64  `json:"candidate_count"`
	Failure        string `json:"failure,omitempty"`
}

// Report is the document the JSON exporter writes.
type Report struct {
	SweepID    int64             `json:"sweep_id"`
	UUID       string            `json:"uuid"`
	Name       string            `json:"name"`
	Selection  string            `json:"selection"`
	Query      string            `json:"query"`
	StartTime  time.Time         `json:"start_time"`
	Runtime    float64           `json:"runtime"`
	IsDone     bool              `json:"is_done"`
	Findings   []Finding         `json:"findings"`
	Candidates []model.Candidate `json:"candidates"`
}

// NewReport assembles the report for a sweep. Candidates are merged
// across findings the same way the discovery run prints them.
func NewReport(sweep *model.DatabaseSweep, findings []model.DatabaseFinding) (*Report, error) {
	report := &Report{
		SweepID:    sweep.ID,
		UUID:       sweep.UUID,
		Name:       sweep.Name,
		Selection:  sweep.Selection,
		Query:      sweep.Query,
		StartTime:  sweep.StartTime,
		Runtime:    sweep.Runtime,
		IsDone:     sweep.IsDone,
		Findings:   []Finding{},
		Candidates: []model.Candidate{},
	}
	var rows []model.Candidate
	for _, finding := range findings {
		entry := Finding{
			Site:           finding.SiteKey,
			URL:            finding.URL,
			IsSearchEngine: finding.IsSearchEngine,
			Opened:         finding.Opened,
			State:          finding.State,
			CandidateCount: finding.CandidateCount,
		}
		if finding.Failure.Valid {
			entry.Failure = finding.Failure.String
		}
		report.Findings = append(report.Findings, entry)
		if !finding.Candidates.Valid {
			continue
		}
		var candidates []model.Candidate
		if err := json.Unmarshal([]byte(finding.Candidates.String), &candidates); err != nil {
			return nil, errors.Wrapf(err, "parsing candidates of finding %d", finding.ID)
		}
		rows = append(rows, candidates...)
	}
	if merged := match.Merge(rows); merged != nil {
		report.Candidates = merged
	}
	return report, nil
}

// WriteCSV writes the merged candidates as a CSV table.
func WriteCSV(w io.Writer, candidates []model.Candidate) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"site", "title", "url", "score", "matched_fields"}); err != nil {
		return err
	}
	for _, candidate := range candidates {
		record := []string{
			candidate.Site,
			candidate.Title,
			candidate.URL,
			fmt.Sprintf("%.2f", candidate.Score),
			strings.Join(candidate.MatchedFields, ";"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the pretty printed report.
func WriteJSON(w io.Writer, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serializing report")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// NewWriter opens path for writing, encrypting the stream when
// recipient is a non-empty age public key.
func NewWriter(path, recipient string) (io.WriteCloser, error) {
	filep, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if recipient == "" {
		return filep, nil
	}
	parsed, err := age.ParseX25519Recipient(recipient)
	if err != nil {
		filep.Close()
		return nil, errors.Wrap(err, "parsing age recipient")
	}
	encrypted, err := age.Encrypt(filep, parsed)
	if err != nil {
		filep.Close()
		return nil, errors.Wrap(err, "starting encryption")
	}
	return &encryptedFile{WriteCloser: encrypted, file: filep}, nil
}

// encryptedFile closes the encryption stream before the backing file,
// since age only finalizes the ciphertext on Close.
type encryptedFile struct {
	io.WriteCloser
	file *os.File
}

func (ef *encryptedFile) Close() error {
	if err := ef.WriteCloser.Close(); err != nil {
		ef.file.Close()
		return err
	}
	return ef.file.Close()
}

// CSVPath returns the default CSV report location for a sweep.
func CSVPath(home, sweepUUID string) string {
	return filepath.Join(utils.ReportsDir(home), fmt.Sprintf("sweep-%s.csv", sweepUUID))
}

// JSONPath returns the default JSON report location for a sweep.
func JSONPath(home, sweepUUID string) string {
	return filepath.Join(utils.ReportsDir(home), fmt.Sprintf("sweep-%s.json", sweepUUID))
}
