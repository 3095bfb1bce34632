package sites

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jkriig/privacy-sweep/internal/queryparser"
)

// customFile is the on-disk shape of a sites.d YAML file.
type customFile struct {
	Sites []customSite `yaml:"sites"`
}

type customSite struct {
	Key          string `yaml:"key"`
	Group        string `yaml:"group,omitempty"`
	OptOut       string `yaml:"optout,omitempty"`
	Search       string `yaml:"search,omitempty"`
	SearchEngine bool   `yaml:"search_engine,omitempty"`
}

var customKeyRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// expandTemplate substitutes the subject's fields into a custom search
// template. Fields are URL encoded on substitution; unknown
// placeholders are left alone.
func expandTemplate(tmpl string, s *queryparser.Subject) string {
	replacer := strings.NewReplacer(
		"{name}", enc(s.Name),
		"{first}", enc(s.FirstName()),
		"{last}", enc(s.LastName()),
		"{city}", enc(s.City),
		"{state}", enc(s.State),
		"{citystate}", enc(s.CityState()),
		"{phone}", enc(firstOf(s.Phones)),
		"{email}", enc(firstOf(s.Emails)),
	)
	return replacer.Replace(tmpl)
}

func firstOf(items []string) string {
	if len(items) > 0 {
		return items[0]
	}
	return ""
}

// LoadCustom merges the custom sites defined under dir into the
// registry. Files are read in lexical order so later files may extend
// groups started by earlier ones. Keys colliding with built-in sites
// are returned in skipped and left untouched.
func LoadCustom(dir string) (added, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading custom sites dir")
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return added, skipped, errors.Wrapf(err, "reading %s", name)
		}
		var file customFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return added, skipped, errors.Wrapf(err, "parsing %s", name)
		}
		for _, cs := range file.Sites {
			if !customKeyRegexp.MatchString(cs.Key) {
				return added, skipped, errors.Errorf("%s: invalid site key %q", name, cs.Key)
			}
			if cs.Search == "" && cs.OptOut == "" {
				return added, skipped, errors.Errorf("%s: site %q needs a search template or an optout link", name, cs.Key)
			}
			if byKey[cs.Key] != nil {
				skipped = append(skipped, cs.Key)
				continue
			}
			site := &Site{
				Key:          cs.Key,
				Group:        cs.Group,
				OptOut:       cs.OptOut,
				SearchEngine: cs.SearchEngine,
			}
			if tmpl := cs.Search; tmpl != "" {
				site.Search = func(s *queryparser.Subject) string {
					return expandTemplate(tmpl, s)
				}
			}
			Registry = append(Registry, site)
			byKey[site.Key] = site
			if site.Group != "" {
				Groups[site.Group] = append(Groups[site.Group], site.Key)
			}
			added = append(added, site.Key)
		}
	}
	return added, skipped, nil
}
