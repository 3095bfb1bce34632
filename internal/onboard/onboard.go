package onboard

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/config"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

// Onboarding starts the interactive onboarding procedure.
func Onboarding(config *config.Config) error {
	output.SectionTitle("What does privacysweep do?")
	fmt.Println()
	output.Paragraph("privacysweep builds the search pages that people search and data broker sites publish about you, so you can review them and ask for removal.")
	fmt.Println()
	output.SectionTitle("Heads up")
	fmt.Println()
	output.Paragraph("To do its job this tool has to hand your details to third parties:")
	fmt.Println()
	output.Bullet("every search URL embeds your name, city and state, and opening or scraping it shows those details to that site")
	output.Bullet("per phone and per email lookups embed those values in search engine queries")
	output.Bullet("opt-out forms usually ask for even more information to verify it is really you")
	fmt.Println()
	output.Paragraph("Nothing is sent until you open, scrape or submit something. Sweep results are kept in a local database under your sweep home and never uploaded.")
	fmt.Println()
	if err := output.PressEnterToContinue("Press enter to continue..."); err != nil {
		return err
	}

	acknowledged := false
	prompt := &survey.Confirm{
		Message: "Do you understand that the URLs this tool builds contain your personal details?",
	}
	if err := survey.AskOne(prompt, &acknowledged); err != nil {
		return err
	}
	if !acknowledged {
		return errors.New("cannot continue without acknowledging how your details are used")
	}

	changeDefaults := false
	prompt = &survey.Confirm{
		Message: "Do you want to change the default settings?",
	}
	if err := survey.AskOne(prompt, &changeDefaults); err != nil {
		return err
	}
	if changeDefaults {
		safe := config.Discovery.SafeDiscovery
		prompt = &survey.Confirm{
			Message: "Start every run with search engines only (safe discovery)?",
			Default: safe,
		}
		if err := survey.AskOne(prompt, &safe); err != nil {
			return err
		}
		config.Lock()
		config.Discovery.SafeDiscovery = safe
		config.Unlock()
	}

	config.Lock()
	config.AcknowledgedRisks = true
	config.Unlock()
	return config.Write()
}

// MaybeOnboarding runs the onboarding process when the user has not
// acknowledged yet how their details are used.
func MaybeOnboarding(c sweeper.SweeperCLI) error {
	if !c.Config().AcknowledgedRisks {
		if c.IsBatch() {
			return errors.New("cannot run onboarding in batch mode")
		}
		if err := Onboarding(c.Config()); err != nil {
			return errors.Wrap(err, "onboarding")
		}
	}
	return nil
}
