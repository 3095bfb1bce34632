package show

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("show", "Show a specific finding")

	findingID := cmd.Arg("id", "the id of the finding to show").Required().Int64()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return doshow(sweep, *findingID)
	})
}

func doshow(cli sweeper.SweeperCLI, findingID int64) error {
	findingJSON, err := cli.DB().GetFindingJSON(findingID)
	if err != nil {
		log.WithError(err).Error("failed to get the finding")
		return err
	}
	output.FindingJSON(findingJSON)
	return nil
}
