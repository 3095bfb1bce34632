package sites

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Groups maps a group name to its members. A member may itself be a
// group name, in which case it expands to that group's sites.
var Groups = map[string][]string{
	"peoplecore": {
		"whitepages", "spokeo", "beenverified", "intelius", "truthfinder",
		"fastpeoplesearch", "truepeoplesearch", "radaris", "nuwber",
	},
	"google": {
		"google_site_whitepages", "google_site_spokeo",
	},
	"startpage": {
		"startpage_site_whitepages", "startpage_site_spokeo",
	},
	"brokers_plus": {
		"peoplecore",
		"freebackgroundcheck", "infotracer", "recordsfinder",
		"affordablebackground", "govarrestssearch", "idstrong",
		"reversephonecheck", "searchquarry", "texaswarrants",
		"usrecords", "uswarrants",
	},
	"more_people": {
		"peoplefinders", "ussearch", "peoplelooker", "addresses",
		"neighborwho", "peekyou", "thatsthem", "cocofinder", "clustrmaps",
	},
}

// GroupNames returns the known group names sorted for display.
func GroupNames() []string {
	return []string{"peoplecore", "google", "startpage", "brokers_plus", "more_people"}
}

// ErrUnknownKey indicates a selection token that is neither a site
// key, nor a group name, nor a dynamic search key.
var ErrUnknownKey = errors.New("sites: unknown site or group")

// dynamicKeyRegexp matches the per-phone and per-email search keys
// built at run time, e.g. google_phone_1 and google_email_2.
var dynamicKeyRegexp = regexp.MustCompile(`^google_(phone|email)_[1-9][0-9]*$`)

// IsDynamicKey reports whether key names a per-phone or per-email
// search built at run time rather than a registry site.
func IsDynamicKey(key string) bool {
	return dynamicKeyRegexp.MatchString(key)
}

// splitTokens splits comma-separated selection arguments into clean
// lowercase tokens.
func splitTokens(selection []string) []string {
	var tokens []string
	for _, arg := range selection {
		for _, tok := range strings.Split(arg, ",") {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// IsAll reports whether the selection asks for every site. Any "all"
// token wins regardless of what else was selected.
func IsAll(selection []string) bool {
	for _, tok := range splitTokens(selection) {
		if tok == "all" {
			return true
		}
	}
	return false
}

// Expand resolves a selection of site keys and group names into a flat,
// deduplicated list of site keys in selection order. Group members that
// are themselves groups expand one level deep. Unknown tokens are an
// error naming the offending token.
func Expand(selection []string) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	appendKey := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for _, tok := range splitTokens(selection) {
		switch {
		case tok == "all":
			// Handled by the caller via IsAll.
			continue
		case byKey[tok] != nil || IsDynamicKey(tok):
			appendKey(tok)
		case Groups[tok] != nil:
			for _, member := range Groups[tok] {
				if nested, ok := Groups[member]; ok {
					for _, key := range nested {
						appendKey(key)
					}
					continue
				}
				appendKey(member)
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, tok)
		}
	}
	return keys, nil
}
