package sites

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sites"
)

func init() {
	cmd := root.Command("sites", "List the sites in the registry")

	group := cmd.Flag("group", "Only list the sites of this group").String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		return dosites(*group)
	})
}

func dosites(group string) error {
	if group != "" && !knownGroup(group) {
		return errors.Errorf("unknown group %q, try one of: %v",
			group, sites.GroupNames())
	}
	output.SectionTitle("Sites")
	for _, site := range sites.Registry {
		if group != "" && site.Group != group {
			continue
		}
		optout := site.OptOut
		if optout == "" {
			optout = "no known opt-out endpoint"
		}
		fmt.Printf("%-24s %-14s %s\n", site.Key, site.Group, optout)
	}
	return nil
}

func knownGroup(group string) bool {
	for _, name := range sites.GroupNames() {
		if name == group {
			return true
		}
	}
	return false
}
