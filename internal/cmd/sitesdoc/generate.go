package main

//
// Rendering the registry as markdown
//

import (
	"fmt"
	"strings"

	"github.com/jkriig/privacy-sweep/internal/sites"
)

// header introduces the generated file and explains how to refresh it.
const header = `# Site registry

This file is generated from the built-in site registry. Do not edit it
by hand, instead run:

    go run ./internal/cmd/sitesdoc generate

## Groups

A selection on the command line may name sites, groups, or both. These
are the built-in groups:

`

// dynamicNote documents the search keys that only exist at run time.
const dynamicNote = `
## Dynamic search keys

A selection may also use per-contact search keys built at run time
from the subject details: ` + "`google_phone_N`" + ` searches the subject's
N-th phone number and ` + "`google_email_N`" + ` the N-th email address.
`

// generateDocs renders the whole registry as markdown.
func generateDocs() []byte {
	var sb strings.Builder
	sb.WriteString(header)
	for _, group := range sites.GroupNames() {
		fmt.Fprintf(&sb, "- `%s`: %s\n", group, strings.Join(sites.Groups[group], ", "))
	}
	for _, group := range sites.GroupNames() {
		fmt.Fprintf(&sb, "\n## %s\n\n", group)
		writeTable(&sb, groupSites(group))
	}
	sb.WriteString("\n## Not in any group\n\n")
	writeTable(&sb, groupSites(""))
	sb.WriteString(dynamicNote)
	return []byte(sb.String())
}

// groupSites filters the registry by group in registry order.
func groupSites(group string) []*sites.Site {
	var selected []*sites.Site
	for _, site := range sites.Registry {
		if site.Group == group {
			selected = append(selected, site)
		}
	}
	return selected
}

// writeTable renders one markdown table of sites.
func writeTable(sb *strings.Builder, group []*sites.Site) {
	sb.WriteString("| Key | Discovery | Opt-out |\n")
	sb.WriteString("|-----|-----------|---------|\n")
	for _, site := range group {
		fmt.Fprintf(sb, "| %s | %s | %s |\n", site.Key, discoveryOf(site), optOutOf(site))
	}
}

// discoveryOf describes how we discover records on a site.
func discoveryOf(site *sites.Site) string {
	switch {
	case site.SearchEngine:
		return "search engine"
	case site.Search != nil:
		return "site search"
	default:
		return "none"
	}
}

// optOutOf returns the opt-out cell for a site.
func optOutOf(site *sites.Site) string {
	if site.OptOut == "" {
		return "none documented"
	}
	return fmt.Sprintf("<%s>", site.OptOut)
}
