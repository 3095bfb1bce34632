package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/upper/db/v4"

	"github.com/jkriig/privacy-sweep/internal/model"
)

var _ model.WritableDatabase = &Database{}

// CreateSweep writes a new sweep row and returns it.
func (d *Database) CreateSweep(uuid, name, selection, query string) (*model.DatabaseSweep, error) {
	sweep := model.DatabaseSweep{
		UUID:      uuid,
		Name:      name,
		Selection: selection,
		Query:     query,
		StartTime: time.Now().UTC(),
	}
	if err := d.sess.Collection("sweeps").InsertReturning(&sweep); err != nil {
		return nil, errors.Wrap(err, "creating sweep")
	}
	return &sweep, nil
}

// FinishSweep marks the sweep as done and sets the runtime.
func (d *Database) FinishSweep(sweep *model.DatabaseSweep) error {
	if sweep.IsDone || sweep.Runtime != 0 {
		return errors.New("sweep is already finished")
	}
	sweep.Runtime = time.Now().UTC().Sub(sweep.StartTime).Seconds()
	sweep.IsDone = true
	err := d.sess.Collection("sweeps").Find(db.Cond{"sweep_id": sweep.ID}).Update(sweep)
	return errors.Wrap(err, "updating finished sweep")
}

// DeleteSweep deletes a sweep and its findings.
func (d *Database) DeleteSweep(sweepID int64) error {
	res := d.sess.Collection("sweeps").Find(db.Cond{"sweep_id": sweepID})
	count, err := res.Count()
	if err != nil {
		return errors.Wrap(err, "counting sweeps")
	}
	if count == 0 {
		return errors.Errorf("no sweep with id %d", sweepID)
	}
	if err := d.sess.Collection("findings").Find(db.Cond{"sweep_id": sweepID}).Delete(); err != nil {
		return errors.Wrap(err, "deleting findings")
	}
	return errors.Wrap(res.Delete(), "deleting sweep")
}

// CreateFinding writes a new finding row for the sweep and returns it.
func (d *Database) CreateFinding(sweepID int64, siteKey, url string, isSearchEngine bool) (*model.DatabaseFinding, error) {
	finding := model.DatabaseFinding{
		SweepID:        sweepID,
		SiteKey:        siteKey,
		URL:            url,
		IsSearchEngine: isSearchEngine,
		State:          "active",
		StartTime:      time.Now().UTC(),
	}
	if err := d.sess.Collection("findings").InsertReturning(&finding); err != nil {
		return nil, errors.Wrap(err, "creating finding")
	}
	return &finding, nil
}

// FindingOpened records that the finding's URL was opened in the browser.
func (d *Database) FindingOpened(finding *model.DatabaseFinding) error {
	finding.Opened = true
	err := d.sess.Collection("findings").Find(db.Cond{"finding_id": finding.ID}).Update(finding)
	return errors.Wrap(err, "updating finding")
}

// FindingDone marks the finding as completed.
func (d *Database) FindingDone(finding *model.DatabaseFinding) error {
	finding.Runtime = time.Now().UTC().Sub(finding.StartTime).Seconds()
	finding.State = "done"
	err := d.sess.Collection("findings").Find(db.Cond{"finding_id": finding.ID}).Update(finding)
	return errors.Wrap(err, "updating finding")
}

// FindingFailed writes the failure string to the finding.
func (d *Database) FindingFailed(finding *model.DatabaseFinding, failure string) error {
	finding.Failure = sql.NullString{String: failure, Valid: true}
	finding.State = "failed"
	err := d.sess.Collection("findings").Find(db.Cond{"finding_id": finding.ID}).Update(finding)
	return errors.Wrap(err, "updating finding")
}

// SetCandidates stores the scraped candidates on the finding.
func (d *Database) SetCandidates(finding *model.DatabaseFinding, candidates []model.Candidate) error {
	data, err := json.Marshal(candidates)
	if err != nil {
		return errors.Wrap(err, "serializing candidates")
	}
	finding.Candidates = sql.NullString{String: string(data), Valid: true}
	finding.CandidateCount = int64(len(candidates))
	err = d.sess.Collection("findings").Find(db.Cond{"finding_id": finding.ID}).Update(finding)
	return errors.Wrap(err, "updating finding")
}

// UpsertOptOut creates or refreshes the opt-out ledger row for a site.
func (d *Database) UpsertOptOut(siteKey, url, status string) (*model.DatabaseOptOut, error) {
	res := d.sess.Collection("optouts").Find(db.Cond{"site_key": siteKey})
	var optout model.DatabaseOptOut
	err := res.One(&optout)
	if err == db.ErrNoMoreRows {
		optout = model.DatabaseOptOut{
			SiteKey:   siteKey,
			URL:       url,
			Status:    status,
			UpdatedAt: time.Now().UTC(),
		}
		if err := d.sess.Collection("optouts").InsertReturning(&optout); err != nil {
			return nil, errors.Wrap(err, "creating optout")
		}
		return &optout, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying optouts")
	}
	optout.URL = url
	optout.Status = status
	optout.UpdatedAt = time.Now().UTC()
	if err := res.Update(optout); err != nil {
		return nil, errors.Wrap(err, "updating optout")
	}
	return &optout, nil
}

var _ model.ReadableDatabase = &Database{}

// ListSweeps returns all sweeps, oldest first.
func (d *Database) ListSweeps() ([]model.DatabaseSweep, error) {
	var sweeps []model.DatabaseSweep
	req := d.sess.Collection("sweeps").Find().OrderBy("start_time")
	if err := req.All(&sweeps); err != nil {
		return nil, errors.Wrap(err, "failed to get sweep list")
	}
	return sweeps, nil
}

// ListFindings returns the findings of a sweep, oldest first.
func (d *Database) ListFindings(sweepID int64) ([]model.DatabaseFinding, error) {
	var findings []model.DatabaseFinding
	req := d.sess.Collection("findings").Find(db.Cond{"sweep_id": sweepID}).OrderBy("start_time")
	if err := req.All(&findings); err != nil {
		return nil, errors.Wrap(err, "failed to get findings list")
	}
	return findings, nil
}

// GetFindingJSON returns the finding as a JSON-friendly map, with the
// stored candidates deserialized.
func (d *Database) GetFindingJSON(findingID int64) (map[string]interface{}, error) {
	var finding model.DatabaseFinding
	err := d.sess.Collection("findings").Find(db.Cond{"finding_id": findingID}).One(&finding)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get finding")
	}
	candidates := []model.Candidate{}
	if finding.Candidates.Valid {
		if err := json.Unmarshal([]byte(finding.Candidates.String), &candidates); err != nil {
			return nil, errors.Wrap(err, "parsing candidates")
		}
	}
	entry := map[string]interface{}{
		"finding_id":       finding.ID,
		"sweep_id":         finding.SweepID,
		"site":             finding.SiteKey,
		"url":              finding.URL,
		"is_search_engine": finding.IsSearchEngine,
		"opened":           finding.Opened,
		"state":            finding.State,
		"start_time":       finding.StartTime,
		"runtime":          finding.Runtime,
		"candidates":       candidates,
	}
	if finding.Failure.Valid {
		entry["failure"] = finding.Failure.String
	}
	return entry, nil
}

// ListOptOuts returns the opt-out ledger, most recently updated first.
func (d *Database) ListOptOuts() ([]model.DatabaseOptOut, error) {
	var optouts []model.DatabaseOptOut
	req := d.sess.Collection("optouts").Find().OrderBy("-updated_at")
	if err := req.All(&optouts); err != nil {
		return nil, errors.Wrap(err, "failed to get optout list")
	}
	return optouts, nil
}
