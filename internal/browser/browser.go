// Package browser opens URLs in the user's web browser.
package browser

import (
	"os"
	"runtime"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"golang.org/x/sys/execabs"
)

// Dependencies is the library on which this package depends.
type Dependencies interface {
	// CmdStart is equivalent to calling c.Start.
	CmdStart(c *execabs.Cmd) error

	// LookPath is equivalent to calling execabs.LookPath.
	LookPath(file string) (string, error)

	// Getenv is equivalent to calling os.Getenv.
	Getenv(key string) string
}

// Library contains the default dependencies.
var Library Dependencies = &StdlibDependencies{}

// StdlibDependencies contains the stdlib implementation of the [Dependencies].
type StdlibDependencies struct{}

// CmdStart implements [Dependencies].
func (*StdlibDependencies) CmdStart(c *execabs.Cmd) error {
	return c.Start()
}

// LookPath implements [Dependencies].
func (*StdlibDependencies) LookPath(file string) (string, error) {
	return execabs.LookPath(file)
}

// Getenv implements [Dependencies].
func (*StdlibDependencies) Getenv(key string) string {
	return os.Getenv(key)
}

// ErrNoBrowser means we found no way of opening URLs on this system.
var ErrNoBrowser = errors.New("browser: no opener available")

// osReleasePath is the file telling us whether we're inside WSL.
var osReleasePath = "/proc/sys/kernel/osrelease"

// isWSL reports whether we are running inside the Windows Subsystem
// for Linux, where xdg-open is typically unavailable.
func isWSL() bool {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// resolveArgv returns the argv that opens urlStr on the given GOOS,
// with argv[0] resolved to a full path. The BROWSER environment
// variable, interpreted as a command line, takes precedence over the
// platform openers.
func resolveArgv(goos, urlStr string) ([]string, error) {
	if cmdline := Library.Getenv("BROWSER"); cmdline != "" {
		args, err := shlex.Split(cmdline)
		if err != nil {
			return nil, errors.Wrap(err, "parsing $BROWSER")
		}
		if len(args) < 1 {
			return nil, ErrNoBrowser
		}
		fullpath, err := Library.LookPath(args[0])
		if err != nil {
			return nil, err
		}
		args[0] = fullpath
		return append(args, urlStr), nil
	}
	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"open", urlStr}}
	case "windows":
		candidates = [][]string{{"rundll32", "url.dll,FileProtocolHandler", urlStr}}
	default:
		if isWSL() {
			candidates = append(candidates, []string{"wslview", urlStr})
		}
		candidates = append(candidates, []string{"xdg-open", urlStr})
	}
	for _, argv := range candidates {
		fullpath, err := Library.LookPath(argv[0])
		if err != nil {
			continue
		}
		argv[0] = fullpath
		return argv, nil
	}
	return nil, ErrNoBrowser
}

// OpenURL opens urlStr in the user's browser. We start the opener
// detached and do not wait for the page to load.
func OpenURL(urlStr string) error {
	argv, err := resolveArgv(runtime.GOOS, urlStr)
	if err != nil {
		return err
	}
	cmd := execabs.Command(argv[0], argv[1:]...)
	return Library.CmdStart(cmd)
}
