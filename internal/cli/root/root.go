package root

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/log/handlers/batch"
	"github.com/jkriig/privacy-sweep/internal/log/handlers/cli"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
	"github.com/jkriig/privacy-sweep/internal/utils"
	"github.com/jkriig/privacy-sweep/internal/version"
)

// Cmd is the root command
var Cmd = kingpin.New("privacysweep", "")

// Command is syntax sugar for defining sub-commands
var Command = Cmd.Command

// Init should be called by all subcommands that care to have a
// sweeper.Sweeper instance. The caller owns the instance and must
// Close it when done.
var Init func() (*sweeper.Sweeper, error)

func init() {
	configPath := Cmd.Flag("config", "Set a custom config file path").Short('c').String()
	homePath := Cmd.Flag("home", "Set a custom sweep home directory").String()
	verbose := Cmd.Flag("verbose", "Enable verbose log output.").Short('v').Bool()
	isBatch := Cmd.Flag("batch", "Emit JSON formatted output for batch usage").Bool()

	Cmd.PreAction(func(ctx *kingpin.ParseContext) error {
		if *isBatch {
			log.SetHandler(batch.Default)
		} else {
			log.SetHandler(cli.Default)
		}
		if *verbose {
			log.SetLevel(log.DebugLevel)
			log.Debugf("privacysweep version %s", version.Version)
		}

		Init = func() (*sweeper.Sweeper, error) {
			home := *homePath
			if home == "" {
				var err error
				home, err = utils.GetSweepHome()
				if err != nil {
					return nil, err
				}
			}

			sweep := sweeper.NewSweeper(*configPath, home)
			sweep.SetIsBatch(*isBatch)
			if err := sweep.Init(sweeper.DefaultSoftwareName, version.Version); err != nil {
				return nil, err
			}
			sweep.ListenForSignals()
			sweep.MaybeListenForStdinClosed()
			return sweep, nil
		}

		return nil
	})
}
