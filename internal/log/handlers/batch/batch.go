// Package batch emits machine readable JSON logs, one event per line.
package batch

import (
	"os"

	"github.com/apex/log/handlers/json"
)

// Default is the default batch logs handler
var Default = json.New(os.Stderr)
