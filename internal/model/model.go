// Package model contains the shared data model.
package model

import (
	"database/sql"
	"time"

	"github.com/upper/db/v4"
)

// DatabaseSweep is a sweep row in the database. A sweep is one
// discovery run for a subject across a selection of sites.
type DatabaseSweep struct {
	ID        int64     `db:"sweep_id,omitempty"`
	UUID      string    `db:"uuid"`
	Name      string    `db:"name"`
	Selection string    `db:"selection"`
	Query     string    `db:"query"`
	StartTime time.Time `db:"start_time"`
	Runtime   float64   `db:"runtime"` // Fractional number of seconds
	IsDone    bool      `db:"is_done"`
}

// DatabaseFinding is a single planned link within a sweep.
type DatabaseFinding struct {
	ID             int64          `db:"finding_id,omitempty"`
	SweepID        int64          `db:"sweep_id"`
	SiteKey        string         `db:"site_key"`
	URL            string         `db:"url"`
	IsSearchEngine bool           `db:"is_search_engine"`
	Opened         bool           `db:"opened"`
	State          string         `db:"state"` // one of "active", "done", "failed"
	StartTime      time.Time      `db:"start_time"`
	Runtime        float64        `db:"runtime"` // Fractional number of seconds
	Candidates     sql.NullString `db:"candidates"`
	CandidateCount int64          `db:"candidate_count"`
	Failure        sql.NullString `db:"failure"`
}

// DatabaseOptOut is a row of the opt-out ledger tracking the removal
// requests the user has opened or completed.
type DatabaseOptOut struct {
	ID        int64     `db:"optout_id,omitempty"`
	SiteKey   string    `db:"site_key"`
	URL       string    `db:"url"`
	Status    string    `db:"status"` // one of "pending", "opened", "done"
	UpdatedAt time.Time `db:"updated_at"`
}

// Valid opt-out ledger statuses.
const (
	OptOutPending = "pending"
	OptOutOpened  = "opened"
	OptOutDone    = "done"
)

// Candidate is a scraped link that plausibly refers to the subject.
type Candidate struct {
	Site          string   `json:"site"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Score         float64  `json:"score"`
	MatchedFields []string `json:"matched_fields"`
}

// WritableDatabase is the database as seen by who needs to write into it.
type WritableDatabase interface {
	Session() db.Session

	CreateSweep(uuid, name, selection, query string) (*DatabaseSweep, error)
	FinishSweep(sweep *DatabaseSweep) error
	DeleteSweep(sweepID int64) error

	CreateFinding(sweepID int64, siteKey, url string, isSearchEngine bool) (*DatabaseFinding, error)
	FindingOpened(finding *DatabaseFinding) error
	FindingDone(finding *DatabaseFinding) error
	FindingFailed(finding *DatabaseFinding, failure string) error
	SetCandidates(finding *DatabaseFinding, candidates []Candidate) error

	UpsertOptOut(siteKey, url, status string) (*DatabaseOptOut, error)

	Close() error
}

// ReadableDatabase is the database as seen by who needs to read it.
type ReadableDatabase interface {
	ListSweeps() ([]DatabaseSweep, error)
	ListFindings(sweepID int64) ([]DatabaseFinding, error)
	GetFindingJSON(findingID int64) (map[string]interface{}, error)
	ListOptOuts() ([]DatabaseOptOut, error)
}

// Database combines the writable and readable views.
type Database interface {
	WritableDatabase
	ReadableDatabase
}
