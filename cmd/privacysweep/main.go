package main

import (
	// commands
	"github.com/apex/log"

	_ "github.com/jkriig/privacy-sweep/internal/cli/audit"
	_ "github.com/jkriig/privacy-sweep/internal/cli/export"
	_ "github.com/jkriig/privacy-sweep/internal/cli/list"
	_ "github.com/jkriig/privacy-sweep/internal/cli/onboard"
	_ "github.com/jkriig/privacy-sweep/internal/cli/optout"
	_ "github.com/jkriig/privacy-sweep/internal/cli/profile"
	_ "github.com/jkriig/privacy-sweep/internal/cli/reset"
	_ "github.com/jkriig/privacy-sweep/internal/cli/run"
	_ "github.com/jkriig/privacy-sweep/internal/cli/show"
	_ "github.com/jkriig/privacy-sweep/internal/cli/sites"
	_ "github.com/jkriig/privacy-sweep/internal/cli/version"

	"github.com/jkriig/privacy-sweep/internal/cli/app"
)

func main() {
	err := app.Run()
	if err == nil {
		return
	}
	log.WithError(err).Fatal("main exit")
}
