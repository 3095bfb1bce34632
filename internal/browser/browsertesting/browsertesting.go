// Package browsertesting contains mocks for browser.
package browsertesting

import (
	"os/exec"

	"github.com/jkriig/privacy-sweep/internal/browser"
	"github.com/jkriig/privacy-sweep/internal/runtimex"
)

// Library implements browser.Dependencies.
type Library struct {
	MockCmdStart func(c *exec.Cmd) error

	MockLookPath func(file string) (string, error)

	MockGetenv func(key string) string
}

var _ browser.Dependencies = &Library{}

// CmdStart implements browser.Dependencies
func (lib *Library) CmdStart(c *exec.Cmd) error {
	return lib.MockCmdStart(c)
}

// LookPath implements browser.Dependencies
func (lib *Library) LookPath(file string) (string, error) {
	return lib.MockLookPath(file)
}

// Getenv implements browser.Dependencies
func (lib *Library) Getenv(key string) string {
	return lib.MockGetenv(key)
}

// MustArgv returns the [exec.Cmd]'s Argv or panics.
func MustArgv(c *exec.Cmd) []string {
	runtimex.Assert(len(c.Args) >= 1, "too few arguments")
	out := []string{c.Path}
	out = append(out, c.Args[1:]...)
	return out
}

// WithCustomLibrary executes the given function with a custom browser.Library.
func WithCustomLibrary(library browser.Dependencies, fn func()) {
	prev := browser.Library
	defer func() {
		browser.Library = prev
	}()
	browser.Library = library
	fn()
}
