package reset

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
)

func init() {
	cmd := root.Command("reset", "Delete the sweep home and start over")
	force := cmd.Flag("force", "Force deleting the sweep home").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		// Release the database and the home lock first, a close after
		// the deletion would rewrite files under the removed tree.
		if err := sweep.Close(); err != nil {
			log.WithError(err).Error("failed to close the sweep home")
			return err
		}
		if *force {
			os.RemoveAll(sweep.Home())
			log.Infof("Deleted %s", sweep.Home())
		} else {
			log.Infof("Run with --force to delete %s", sweep.Home())
		}

		return nil
	})
}
