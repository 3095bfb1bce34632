// Package sites contains the registry of people-search and data-broker
// sites, the named groups tying them together, and the logic building
// concrete search and opt-out links for a subject.
package sites

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

// Site describes a single site we can target.
type Site struct {
	// Key uniquely identifies the site on the command line.
	Key string

	// Group is the primary group this site belongs to.
	Group string

	// OptOut is the site's opt-out endpoint, empty when the site does
	// not document one.
	OptOut string

	// SearchEngine marks discovery links built on a search engine
	// rather than on a broker's own search form.
	SearchEngine bool

	// Search builds the search URL for a subject. A nil Search means
	// we only know the site's opt-out endpoint.
	Search func(s *queryparser.Subject) string
}

// enc encodes a single field for use inside an URL template.
func enc(s string) string {
	return url.QueryEscape(s)
}

// Registry lists every built-in site in a stable order: the people-search
// core first, then the search-engine discovery links, then the additional
// broker sets. The order is the order links are printed in.
var Registry = []*Site{
	// peoplecore
	{
		Key:    "whitepages",
		Group:  "peoplecore",
		OptOut: "https://www.whitepages.com/suppression_requests",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.whitepages.com/name/%s/%s/%s",
				enc(s.Name), enc(s.State), enc(s.City))
		},
	},
	{
		Key:    "spokeo",
		Group:  "peoplecore",
		OptOut: "https://www.spokeo.com/opt_out/new",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.spokeo.com/%s-%s/%s/%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State), enc(s.City))
		},
	},
	{
		Key:    "beenverified",
		Group:  "peoplecore",
		OptOut: "https://www.beenverified.com/app/optout/search",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.beenverified.com/people/%s-%s/%s",
				enc(s.FirstName()), enc(s.LastName()), enc(strings.ToLower(s.State)))
		},
	},
	{
		Key:    "intelius",
		Group:  "peoplecore",
		OptOut: "https://suppression.peopleconnect.us/login",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.intelius.com/people-search/%s-%s/%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
	{
		Key:    "truthfinder",
		Group:  "peoplecore",
		OptOut: "https://www.truthfinder.com/opt-out/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.truthfinder.com/people/%s-%s/%s/",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
	{
		Key:    "fastpeoplesearch",
		Group:  "peoplecore",
		OptOut: "https://www.fastpeoplesearch.com/removal",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.fastpeoplesearch.com/name/%s-%s_%s-%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "truepeoplesearch",
		Group:  "peoplecore",
		OptOut: "https://www.truepeoplesearch.com/removal",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.truepeoplesearch.com/results?name=%s&citystatezip=%s",
				enc(s.Name), enc(s.CityState()))
		},
	},
	{
		Key:    "radaris",
		Group:  "peoplecore",
		OptOut: "https://radaris.com/control/privacy",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://radaris.com/ng/results?ff=%s&fl=%s&fc=%s&fs=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "nuwber",
		Group:  "peoplecore",
		OptOut: "https://nuwber.com/removal",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://nuwber.com/search?name=%s&location=%s",
				enc(s.Name), enc(s.CityState()))
		},
	},

	// opt-out only, not a member of any group
	{
		Key:    "mylife",
		OptOut: "https://www.mylife.com/privacy-policy",
	},

	// discovery via search engines
	{
		Key:          "google_site_whitepages",
		Group:        "google",
		SearchEngine: true,
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.google.com/search?q=site:whitepages.com+%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:          "google_site_spokeo",
		Group:        "google",
		SearchEngine: true,
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.google.com/search?q=site:spokeo.com+%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:          "startpage_site_whitepages",
		Group:        "startpage",
		SearchEngine: true,
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.startpage.com/do/search?q=site%%3Awhitepages.com+%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:          "startpage_site_spokeo",
		Group:        "startpage",
		SearchEngine: true,
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.startpage.com/do/search?q=site%%3Aspokeo.com+%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},

	// additional brokers
	{
		Key:    "freebackgroundcheck",
		Group:  "brokers_plus",
		OptOut: "https://freebackgroundcheck.org/opt-out/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://freebackgroundcheck.org/name-search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "infotracer",
		Group:  "brokers_plus",
		OptOut: "https://infotracer.com/optout/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://infotracer.com/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "recordsfinder",
		Group:  "brokers_plus",
		OptOut: "https://recordsfinder.com/opt-out/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://recordsfinder.com/people/?name=%s&location=%s",
				enc(s.Name), enc(s.CityState()))
		},
	},
	{
		Key:    "affordablebackground",
		Group:  "brokers_plus",
		OptOut: "https://affordablebackgroundchecks.com/remove/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://affordablebackgroundchecks.com/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "govarrestssearch",
		Group:  "brokers_plus",
		OptOut: "https://govarrestssearch.org/optout/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://govarrestssearch.org/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "idstrong",
		Group:  "brokers_plus",
		OptOut: "https://www.idstrong.com/opt-out/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.idstrong.com/people-search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "reversephonecheck",
		Group:  "brokers_plus",
		OptOut: "https://www.reversephonecheck.com/optout.php",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.reversephonecheck.com/results.php?reporttype=1&fn=%s&ln=%s&city=%s&state=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "searchquarry",
		Group:  "brokers_plus",
		OptOut: "https://www.searchquarry.com/opt-out-of-search-quarry/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.searchquarry.com/names/?fn=%s&ln=%s&state=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
	{
		Key:    "texaswarrants",
		Group:  "brokers_plus",
		OptOut: "https://texaswarrants.org/remove/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://texaswarrants.org/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "usrecords",
		Group:  "brokers_plus",
		OptOut: "https://usrecords.net/remove/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://usrecords.net/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "uswarrants",
		Group:  "brokers_plus",
		OptOut: "https://uswarrants.org/remove/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://uswarrants.org/search/?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},

	// more people-search sites
	{
		Key:    "peoplefinders",
		Group:  "more_people",
		OptOut: "https://www.peoplefinders.com/opt-out",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.peoplefinders.com/people/%s-%s?citystatezip=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.CityState()))
		},
	},
	{
		Key:    "ussearch",
		Group:  "more_people",
		OptOut: "https://suppression.peopleconnect.us/login",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.ussearch.com/people-search/%s-%s/%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
	{
		Key:    "peoplelooker",
		Group:  "more_people",
		OptOut: "https://www.peoplelooker.com/opt-out/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.peoplelooker.com/people/%s-%s/%s/",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
	{
		Key:    "addresses",
		Group:  "more_people",
		OptOut: "https://www.addresses.com/optout",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.addresses.com/people/%s+%s?state=%s&city=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State), enc(s.City))
		},
	},
	{
		Key:    "neighborwho",
		Group:  "more_people",
		OptOut: "https://www.neighborwho.com/do-not-sell-my-information/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.neighborwho.com/people-search/%s-%s/%s/?city=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State), enc(s.City))
		},
	},
	{
		Key:    "peekyou",
		Group:  "more_people",
		OptOut: "https://www.peekyou.com/about/contact/optout/",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://www.peekyou.com/%s_%s",
				enc(s.FirstName()), enc(s.LastName()))
		},
	},
	{
		Key:    "thatsthem",
		Group:  "more_people",
		OptOut: "https://thatsthem.com/optout",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://thatsthem.com/name/%s-%s?state=%s&city=%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State), enc(s.City))
		},
	},
	{
		Key:    "cocofinder",
		Group:  "more_people",
		OptOut: "https://cocofinder.com/remove-my-info",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://cocofinder.com/name?q=%s+%s+%s",
				enc(s.Name), enc(s.City), enc(s.State))
		},
	},
	{
		Key:    "clustrmaps",
		Group:  "more_people",
		OptOut: "https://clustrmaps.com/bl/opt-out",
		Search: func(s *queryparser.Subject) string {
			return fmt.Sprintf("https://clustrmaps.com/person/%s-%s/%s",
				enc(s.FirstName()), enc(s.LastName()), enc(s.State))
		},
	},
}

// byKey indexes [Registry] by site key.
var byKey = map[string]*Site{}

func init() {
	for _, site := range Registry {
		byKey[site.Key] = site
	}
}

// Lookup returns the site with the given key, or nil.
func Lookup(key string) *Site {
	return byKey[key]
}

// SearchableKeys returns the keys of every site with a search template,
// in registry order.
func SearchableKeys() []string {
	var keys []string
	for _, site := range Registry {
		if site.Search != nil {
			keys = append(keys, site.Key)
		}
	}
	return keys
}
