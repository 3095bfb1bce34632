// Package queryparser extracts structured subject details out of a
// free-form query string.
//
// A query mixes a person's name with optional location, phone numbers and
// email addresses, separated by commas, e.g.
//
//	"jane q. doe, austin TX, 512-555-0199, jane.doe@example.com"
//
// We pull out emails and phones first, then split what remains on commas
// to find the name and the city/state segment.
package queryparser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegexp = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRegexp = regexp.MustCompile(`(?:(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`)
	digitRegexp = regexp.MustCompile(`\D`)
)

// stateAbbrs contains the USPS abbreviations of the US states plus DC.
var stateAbbrs = map[string]bool{}

func init() {
	const abbrs = `AL AK AZ AR CA CO CT DE FL GA HI ID IL IN IA KS KY LA ME MD MA
MI MN MS MO MT NE NV NH NJ NM NY NC ND OH OK OR PA RI SC SD TN TX UT VT VA WA WV WI WY DC`
	for _, abbr := range strings.Fields(abbrs) {
		stateAbbrs[abbr] = true
	}
}

// Subject contains the identifying details parsed out of a query.
type Subject struct {
	// Name is the person's full name, title-cased.
	Name string `json:"name"`

	// City is the city, when the query contained one.
	City string `json:"city"`

	// State is the two-letter US state abbreviation, when present.
	State string `json:"state"`

	// Emails contains every email address found in the query.
	Emails []string `json:"emails"`

	// Phones contains phone numbers normalized to their last ten digits.
	Phones []string `json:"phones"`

	// Raw is the original query string.
	Raw string `json:"raw"`
}

// Parse parses a free-form query into a [Subject].
func Parse(raw string) *Subject {
	subject := &Subject{Raw: raw}
	subject.Emails = emailRegexp.FindAllString(raw, -1)
	rawPhones := phoneRegexp.FindAllString(raw, -1)
	for _, phone := range rawPhones {
		digits := digitRegexp.ReplaceAllString(phone, "")
		if len(digits) > 10 {
			digits = digits[len(digits)-10:]
		}
		subject.Phones = append(subject.Phones, digits)
	}

	work := raw
	for _, email := range subject.Emails {
		work = strings.ReplaceAll(work, email, " ")
	}
	for _, phone := range rawPhones {
		work = strings.ReplaceAll(work, phone, " ")
	}

	var segments []string
	for _, segment := range strings.Split(work, ",") {
		if segment = strings.TrimSpace(segment); segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) > 0 {
		subject.Name = pickName(segments)
		subject.City, subject.State = pickLocation(segments[1:])
	}
	subject.Name = titleCase(subject.Name)
	return subject
}

// pickName returns the first segment looking like a person's name, that
// is the first one made of two to four words, falling back to the first
// segment when none qualifies.
func pickName(segments []string) string {
	for _, segment := range segments {
		if n := len(strings.Fields(segment)); n >= 2 && n <= 4 {
			return segment
		}
	}
	return segments[0]
}

// pickLocation scans the given segments for one whose last token is a US
// state abbreviation. The tokens before the state form the city. Dots are
// treated as spaces so that "St. Paul MN" parses.
func pickLocation(segments []string) (city string, state string) {
	for _, segment := range segments {
		tokens := strings.Fields(strings.ReplaceAll(segment, ".", " "))
		if len(tokens) == 0 {
			continue
		}
		maybeState := strings.ToUpper(tokens[len(tokens)-1])
		if stateAbbrs[maybeState] {
			return strings.Join(tokens[:len(tokens)-1], " "), maybeState
		}
	}
	return "", ""
}

// titleCase capitalizes each fully-alphabetic word and leaves everything
// else (initials with digits, mixed tokens) untouched.
func titleCase(name string) string {
	words := strings.Fields(name)
	for idx, word := range words {
		if !isAlpha(word) {
			continue
		}
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[idx] = string(runes)
	}
	return strings.Join(words, " ")
}

func isAlpha(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return word != ""
}

// FirstName returns the first token of the name.
func (s *Subject) FirstName() string {
	tokens := strings.Fields(s.Name)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// LastName returns the last token of the name, or the empty string
// when the name has a single token.
func (s *Subject) LastName() string {
	tokens := strings.Fields(s.Name)
	if len(tokens) < 2 {
		return ""
	}
	return tokens[len(tokens)-1]
}

// CityState returns "city ST", trimmed when either part is missing.
func (s *Subject) CityState() string {
	return strings.TrimSpace(s.City + " " + s.State)
}

// IsZero returns true when the query yielded nothing usable.
func (s *Subject) IsZero() bool {
	return s.Name == "" && len(s.Emails) == 0 && len(s.Phones) == 0
}
