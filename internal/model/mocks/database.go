package mocks

import (
	"github.com/upper/db/v4"

	"github.com/jkriig/privacy-sweep/internal/model"
)

// Database allows mocking a database
type Database struct {
	MockSession        func() db.Session
	MockCreateSweep    func(uuid, name, selection, query string) (*model.DatabaseSweep, error)
	MockFinishSweep    func(sweep *model.DatabaseSweep) error
	MockDeleteSweep    func(sweepID int64) error
	MockCreateFinding  func(sweepID int64, siteKey, url string, isSearchEngine bool) (*model.DatabaseFinding, error)
	MockFindingOpened  func(finding *model.DatabaseFinding) error
	MockFindingDone    func(finding *model.DatabaseFinding) error
	MockFindingFailed  func(finding *model.DatabaseFinding, failure string) error
	MockSetCandidates  func(finding *model.DatabaseFinding, candidates []model.Candidate) error
	MockUpsertOptOut   func(siteKey, url, status string) (*model.DatabaseOptOut, error)
	MockClose          func() error
	MockListSweeps     func() ([]model.DatabaseSweep, error)
	MockListFindings   func(sweepID int64) ([]model.DatabaseFinding, error)
	MockGetFindingJSON func(findingID int64) (map[string]interface{}, error)
	MockListOptOuts    func() ([]model.DatabaseOptOut, error)
}

var _ model.WritableDatabase = &Database{}

// Session calls MockSession
func (d *Database) Session() db.Session {
	return d.MockSession()
}

// CreateSweep calls MockCreateSweep
func (d *Database) CreateSweep(uuid, name, selection, query string) (*model.DatabaseSweep, error) {
	return d.MockCreateSweep(uuid, name, selection, query)
}

// FinishSweep calls MockFinishSweep
func (d *Database) FinishSweep(sweep *model.DatabaseSweep) error {
	return d.MockFinishSweep(sweep)
}

// DeleteSweep calls MockDeleteSweep
func (d *Database) DeleteSweep(sweepID int64) error {
	return d.MockDeleteSweep(sweepID)
}

// CreateFinding calls MockCreateFinding
func (d *Database) CreateFinding(sweepID int64, siteKey, url string, isSearchEngine bool) (*model.DatabaseFinding, error) {
	return d.MockCreateFinding(sweepID, siteKey, url, isSearchEngine)
}

// FindingOpened calls MockFindingOpened
func (d *Database) FindingOpened(finding *model.DatabaseFinding) error {
	return d.MockFindingOpened(finding)
}

// FindingDone calls MockFindingDone
func (d *Database) FindingDone(finding *model.DatabaseFinding) error {
	return d.MockFindingDone(finding)
}

// FindingFailed calls MockFindingFailed
func (d *Database) FindingFailed(finding *model.DatabaseFinding, failure string) error {
	return d.MockFindingFailed(finding, failure)
}

// SetCandidates calls MockSetCandidates
func (d *Database) SetCandidates(finding *model.DatabaseFinding, candidates []model.Candidate) error {
	return d.MockSetCandidates(finding, candidates)
}

// UpsertOptOut calls MockUpsertOptOut
func (d *Database) UpsertOptOut(siteKey, url, status string) (*model.DatabaseOptOut, error) {
	return d.MockUpsertOptOut(siteKey, url, status)
}

// Close calls MockClose
func (d *Database) Close() error {
	return d.MockClose()
}

var _ model.ReadableDatabase = &Database{}

// ListSweeps calls MockListSweeps
func (d *Database) ListSweeps() ([]model.DatabaseSweep, error) {
	return d.MockListSweeps()
}

// ListFindings calls MockListFindings
func (d *Database) ListFindings(sweepID int64) ([]model.DatabaseFinding, error) {
	return d.MockListFindings(sweepID)
}

// GetFindingJSON calls MockGetFindingJSON
func (d *Database) GetFindingJSON(findingID int64) (map[string]interface{}, error) {
	return d.MockGetFindingJSON(findingID)
}

// ListOptOuts calls MockListOptOuts
func (d *Database) ListOptOuts() ([]model.DatabaseOptOut, error) {
	return d.MockListOptOuts()
}
