package onboard

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/onboard"
)

func init() {
	cmd := root.Command("onboard", "Starts the onboarding process")

	yes := cmd.Flag("yes", "Answer yes to all the onboarding questions.").Bool()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()

		if *yes {
			sweep.Config().Lock()
			sweep.Config().AcknowledgedRisks = true
			sweep.Config().Unlock()

			if err := sweep.Config().Write(); err != nil {
				log.WithError(err).Error("failed to write config file")
				return err
			}
			return nil
		}
		if sweep.IsBatch() {
			return errors.New("cannot run onboarding in batch mode, pass --yes instead")
		}

		return onboard.Onboarding(sweep.Config())
	})
}
