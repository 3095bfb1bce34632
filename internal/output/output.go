// Package output emits the typed log events rendered by the CLI
// handler, plus a few plain-text helpers for interactive flows.
package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/mitchellh/go-wordwrap"

	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

// FindingJSON prints the JSON of a finding
func FindingJSON(j map[string]interface{}) {
	log.WithFields(log.Fields{
		"type":         "finding_json",
		"finding_json": j,
	}).Info("Finding JSON")
}

// Progress logs a progress type event
func Progress(key string, perc float64, msg string) {
	log.WithFields(log.Fields{
		"type":       "progress",
		"key":        key,
		"percentage": perc,
	}).Info(msg)
}

// FindingItemData is the metadata about a finding
type FindingItemData struct {
	Site           string
	URL            string
	IsSearchEngine bool
	Opened         bool
	State          string
	Failure        string
	CandidateCount int64
}

// FindingItem logs a finding_item type event
func FindingItem(finding FindingItemData) {
	log.WithFields(log.Fields{
		"type":             "finding_item",
		"site":             finding.Site,
		"url":              finding.URL,
		"is_search_engine": finding.IsSearchEngine,
		"opened":           finding.Opened,
		"state":            finding.State,
		"failure":          finding.Failure,
		"candidate_count":  finding.CandidateCount,
	}).Info("finding")
}

// CandidateItem logs a candidate_item type event
func CandidateItem(c model.Candidate) {
	log.WithFields(log.Fields{
		"type":           "candidate_item",
		"site":           c.Site,
		"title":          c.Title,
		"url":            c.URL,
		"score":          c.Score,
		"matched_fields": c.MatchedFields,
	}).Info("candidate")
}

// OptOutItemData is the metadata about an opt-out link
type OptOutItemData struct {
	Site   string
	URL    string
	Status string
}

// OptOutItem logs an optout_item type event
func OptOutItem(optout OptOutItemData) {
	log.WithFields(log.Fields{
		"type":   "optout_item",
		"site":   optout.Site,
		"url":    optout.URL,
		"status": optout.Status,
	}).Info("optout")
}

// SweepItemData is the metadata about a sweep
type SweepItemData struct {
	ID             int64
	Name           string
	Selection      string
	StartTime      time.Time
	Runtime        float64
	FindingCount   uint64
	OpenedCount    uint64
	CandidateCount uint64
	MedianScore    float64
	Done           bool
	Index          int
	TotalCount     int
}

// SweepItem logs a sweep_item type event
func SweepItem(sweep SweepItemData) {
	log.WithFields(log.Fields{
		"type":            "sweep_item",
		"id":              sweep.ID,
		"name":            sweep.Name,
		"selection":       sweep.Selection,
		"start_time":      sweep.StartTime,
		"runtime":         sweep.Runtime,
		"finding_count":   sweep.FindingCount,
		"opened_count":    sweep.OpenedCount,
		"candidate_count": sweep.CandidateCount,
		"median_score":    sweep.MedianScore,
		"is_done":         sweep.Done,
		"index":           sweep.Index,
		"total_count":     sweep.TotalCount,
	}).Info("sweep item")
}

type SweepSummaryData struct {
	TotalSweeps     int64
	TotalFindings   int64
	TotalCandidates int64
}

func SweepSummary(sweep SweepSummaryData) {
	log.WithFields(log.Fields{
		"type":             "sweep_summary",
		"total_sweeps":     sweep.TotalSweeps,
		"total_findings":   sweep.TotalFindings,
		"total_candidates": sweep.TotalCandidates,
	}).Info("sweep summary")
}

// SubjectTable logs the details parsed out of a subject query as a
// table type event
func SubjectTable(s *queryparser.Subject, msg string) {
	log.WithFields(log.Fields{
		"type":   "table",
		"name":   s.Name,
		"city":   s.City,
		"state":  s.State,
		"phones": strings.Join(s.Phones, " "),
		"emails": strings.Join(s.Emails, " "),
	}).Info(msg)
}

// SectionTitle is the title of a section
func SectionTitle(text string) {
	log.WithFields(log.Fields{
		"type":  "section_title",
		"title": text,
	}).Info(text)
}

func Paragraph(text string) {
	const width = 80
	fmt.Println(wordwrap.WrapString(text, width))
}

func Bullet(text string) {
	const width = 80
	fmt.Printf("• %s\n", wordwrap.WrapString(text, width))
}

func PressEnterToContinue(text string) error {
	fmt.Print(text)
	_, err := bufio.NewReader(os.Stdin).ReadBytes('\n')
	return err
}
