package sites

import (
	"strings"
	"testing"
)

func TestDositesRejectsUnknownGroup(t *testing.T) {
	err := dosites("wat")
	if err == nil || !strings.Contains(err.Error(), `unknown group "wat"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestKnownGroup(t *testing.T) {
	for _, group := range []string{"peoplecore", "google", "startpage", "brokers_plus", "more_people"} {
		if !knownGroup(group) {
			t.Fatalf("expected %s to be known", group)
		}
	}
	if knownGroup("wat") {
		t.Fatal("expected wat to be unknown")
	}
}
