package sites

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

// Plan couples a site key with the concrete search URL built for a
// subject. Plans are what the discovery run opens, scrapes and stores.
type Plan struct {
	Key          string
	URL          string
	SearchEngine bool
	OptOut       string
}

// OptOutLink is an opt-out endpoint for a selected site.
type OptOutLink struct {
	Key string
	URL string
}

// dynamicPlan builds the plan for a google_phone_N or google_email_N
// key. It returns false when the subject has no matching phone or
// email at that index.
func dynamicPlan(s *queryparser.Subject, key string) (Plan, bool) {
	trimmed := strings.TrimPrefix(key, "google_")
	kind, num, ok := strings.Cut(trimmed, "_")
	if !ok {
		return Plan{}, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 1 {
		return Plan{}, false
	}
	var query string
	switch kind {
	case "phone":
		if idx > len(s.Phones) {
			return Plan{}, false
		}
		query = enc(s.Phones[idx-1])
	case "email":
		if idx > len(s.Emails) {
			return Plan{}, false
		}
		query = "%22" + enc(s.Emails[idx-1]) + "%22"
	default:
		return Plan{}, false
	}
	return Plan{
		Key:          key,
		URL:          "https://www.google.com/search?q=" + query,
		SearchEngine: true,
	}, true
}

// dynamicPlans builds one plan per phone and per email of the subject.
func dynamicPlans(s *queryparser.Subject) []Plan {
	var plans []Plan
	for i := range s.Phones {
		plan, _ := dynamicPlan(s, fmt.Sprintf("google_phone_%d", i+1))
		plans = append(plans, plan)
	}
	for i := range s.Emails {
		plan, _ := dynamicPlan(s, fmt.Sprintf("google_email_%d", i+1))
		plans = append(plans, plan)
	}
	return plans
}

// AllSearchPlans builds plans for every registry site with a search
// template, in registry order, followed by the dynamic per-phone and
// per-email search-engine lookups.
func AllSearchPlans(s *queryparser.Subject) []Plan {
	var plans []Plan
	for _, site := range Registry {
		if site.Search == nil {
			continue
		}
		plans = append(plans, Plan{
			Key:          site.Key,
			URL:          site.Search(s),
			SearchEngine: site.SearchEngine,
			OptOut:       site.OptOut,
		})
	}
	return append(plans, dynamicPlans(s)...)
}

// SearchPlans builds plans for the expanded selection keys. Plans come
// out in registry order with dynamic keys last, regardless of the
// order keys were selected in. Dynamic keys pointing past the
// subject's phones or emails are returned in skipped.
func SearchPlans(s *queryparser.Subject, keys []string) (plans []Plan, skipped []string) {
	selected := make(map[string]bool, len(keys))
	var dynamic []string
	for _, key := range keys {
		if IsDynamicKey(key) {
			dynamic = append(dynamic, key)
			continue
		}
		selected[key] = true
	}
	for _, site := range Registry {
		if site.Search == nil || !selected[site.Key] {
			continue
		}
		plans = append(plans, Plan{
			Key:          site.Key,
			URL:          site.Search(s),
			SearchEngine: site.SearchEngine,
			OptOut:       site.OptOut,
		})
	}
	sort.SliceStable(dynamic, func(i, j int) bool {
		return dynamicLess(dynamic[i], dynamic[j])
	})
	for _, key := range dynamic {
		plan, ok := dynamicPlan(s, key)
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		plans = append(plans, plan)
	}
	return plans, skipped
}

// dynamicLess orders phone keys before email keys, then by index.
func dynamicLess(a, b string) bool {
	rank := func(key string) (int, int) {
		trimmed := strings.TrimPrefix(key, "google_")
		kind, num, _ := strings.Cut(trimmed, "_")
		idx, _ := strconv.Atoi(num)
		if kind == "phone" {
			return 0, idx
		}
		return 1, idx
	}
	ka, ia := rank(a)
	kb, ib := rank(b)
	if ka != kb {
		return ka < kb
	}
	return ia < ib
}

// EnginesOnly filters plans down to the search-engine ones.
func EnginesOnly(plans []Plan) []Plan {
	var out []Plan
	for _, plan := range plans {
		if plan.SearchEngine {
			out = append(out, plan)
		}
	}
	return out
}

// OptOutLinks returns the opt-out endpoints for the selected keys, in
// selection order. Keys without a known opt-out endpoint are skipped.
func OptOutLinks(keys []string) []OptOutLink {
	var links []OptOutLink
	for _, key := range keys {
		site := Lookup(key)
		if site == nil || site.OptOut == "" {
			continue
		}
		links = append(links, OptOutLink{Key: key, URL: site.OptOut})
	}
	return links
}

// AllOptOutLinks returns every known opt-out endpoint in registry order.
func AllOptOutLinks() []OptOutLink {
	var keys []string
	for _, site := range Registry {
		keys = append(keys, site.Key)
	}
	return OptOutLinks(keys)
}

// SelectionOptOutLinks expands a selection and returns its opt-out
// endpoints. An "all" selection covers the whole registry.
func SelectionOptOutLinks(selection []string) ([]OptOutLink, error) {
	if IsAll(selection) {
		return AllOptOutLinks(), nil
	}
	keys, err := Expand(selection)
	if err != nil {
		return nil, err
	}
	return OptOutLinks(keys), nil
}

// SafeSelection coerces a selection for safe discovery: "all" becomes
// the search-engine groups, anything else gets the engine groups
// prepended so they always run first.
func SafeSelection(selection []string) []string {
	if IsAll(selection) {
		return []string{"google", "startpage"}
	}
	tokens := splitTokens(selection)
	var out []string
	if !containsToken(tokens, "google") {
		out = append(out, "google")
	}
	if !containsToken(tokens, "startpage") {
		out = append(out, "startpage")
	}
	return append(out, tokens...)
}

func containsToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}
