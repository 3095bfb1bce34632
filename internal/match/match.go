// Package match scores how strongly a piece of text refers to the
// subject of a sweep.
package match

import (
	"sort"
	"strings"

	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

// Threshold is the minimum score for a scraped link to count as a
// candidate match.
const Threshold = 0.4

// Score rates how strongly text plus url refer to the subject and
// returns the values that matched: name tokens in lowercase, city and
// state as parsed, the full email when its local part appears, and
// phones masked down to their last four digits. Matching is case
// insensitive and substring based, so a short state code can match
// inside an unrelated word. The score is capped at 1.0.
func Score(text, url string, subject *queryparser.Subject) (float64, []string) {
	hay := strings.ToLower(text + " " + url)
	var score float64
	var matched []string
	for _, tok := range strings.Fields(strings.ToLower(subject.Name)) {
		if strings.Contains(hay, tok) {
			score += 0.15
			matched = append(matched, tok)
		}
	}
	if subject.City != "" && strings.Contains(hay, strings.ToLower(subject.City)) {
		score += 0.15
		matched = append(matched, subject.City)
	}
	if subject.State != "" && strings.Contains(hay, strings.ToLower(subject.State)) {
		score += 0.10
		matched = append(matched, subject.State)
	}
	for _, email := range subject.Emails {
		// The local part alone is enough, a listing rarely shows
		// the full address.
		local, _, _ := strings.Cut(email, "@")
		if strings.Contains(hay, strings.ToLower(local)) {
			score += 0.20
			matched = append(matched, email)
		}
	}
	for _, phone := range subject.Phones {
		if len(phone) < 4 {
			continue
		}
		last4 := phone[len(phone)-4:]
		if strings.Contains(hay, last4) {
			score += 0.20
			matched = append(matched, "*"+last4)
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score, matched
}

// Merge deduplicates candidates by URL, keeping the strongest match,
// and ranks them by score then site, descending.
func Merge(rows []model.Candidate) []model.Candidate {
	index := make(map[string]int)
	var out []model.Candidate
	for _, row := range rows {
		if i, ok := index[row.URL]; ok {
			if row.Score > out[i].Score {
				out[i] = row
			}
			continue
		}
		index[row.URL] = len(out)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Site > out[j].Site
	})
	return out
}
