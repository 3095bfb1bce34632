package main

import (
	"strings"
	"testing"

	"github.com/jkriig/privacy-sweep/internal/sites"
)

func TestGenerateDocsCoversTheRegistry(t *testing.T) {
	doc := string(generateDocs())
	for _, site := range sites.Registry {
		if !strings.Contains(doc, "| "+site.Key+" |") {
			t.Fatalf("no row for %s", site.Key)
		}
		if site.OptOut != "" && !strings.Contains(doc, site.OptOut) {
			t.Fatalf("no opt-out link for %s", site.Key)
		}
	}
	for _, group := range sites.GroupNames() {
		if !strings.Contains(doc, "## "+group+"\n") {
			t.Fatalf("no section for %s", group)
		}
	}
}

func TestDiscoveryOf(t *testing.T) {
	if got := discoveryOf(sites.Lookup("whitepages")); got != "site search" {
		t.Fatal("unexpected discovery for whitepages:", got)
	}
	if got := discoveryOf(sites.Lookup("google_site_whitepages")); got != "search engine" {
		t.Fatal("unexpected discovery for google_site_whitepages:", got)
	}
	if got := discoveryOf(sites.Lookup("mylife")); got != "none" {
		t.Fatal("unexpected discovery for mylife:", got)
	}
}
