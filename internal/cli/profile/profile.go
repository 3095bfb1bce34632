package profile

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/output"
	"github.com/jkriig/privacy-sweep/internal/profile"
	"github.com/jkriig/privacy-sweep/internal/queryparser"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("profile", "Manage the saved subject profile")

	setCmd := cmd.Command("set", "Save the default subject profile")
	setQuery := setCmd.Flag("query",
		"Free-form subject string to save, prompts when omitted").String()
	setKeyring := setCmd.Flag("keyring",
		"Store the profile in the OS keyring instead of the config file").Bool()
	setCmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return doset(sweep, *setQuery, *setKeyring, askQuery)
	})

	showCmd := cmd.Command("show", "Show the saved subject profile")
	showCmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return doshow(sweep)
	})

	rmCmd := cmd.Command("rm", "Delete the saved subject profile")
	rmCmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return dorm(sweep)
	})
}

// doset validates and saves the profile. The ask hook prompts for the
// query when the flag was omitted.
func doset(cli sweeper.SweeperCLI, query string, useKeyring bool,
	ask func() (string, error)) error {
	if query == "" {
		if cli.IsBatch() {
			return errors.New("cannot prompt in batch mode, pass --query instead")
		}
		var err error
		query, err = ask()
		if err != nil {
			return err
		}
	}
	subject := queryparser.Parse(query)
	if subject.IsZero() {
		return errors.Errorf("cannot parse any subject details out of %q", query)
	}
	useKeyring = useKeyring || cli.Config().Profile.UseKeyring
	if err := profile.Save(cli.Config(), query, useKeyring); err != nil {
		return err
	}
	output.SubjectTable(subject, "saved your profile")
	where := "the config file"
	if useKeyring {
		where = "the OS keyring"
	}
	log.Infof("profile saved in %s", where)
	return nil
}

// askQuery interactively composes the profile query out of its parts.
func askQuery() (string, error) {
	var parts []string
	for _, question := range []struct {
		message string
		help    string
	}{
		{"Full name:", "e.g. Jane Anne Doe"},
		{"City and state:", "e.g. Austin TX, leave empty to skip"},
		{"Email addresses:", "comma separated, leave empty to skip"},
		{"Phone numbers:", "comma separated, leave empty to skip"},
	} {
		prompt := &survey.Input{
			Message: question.message,
			Help:    question.help,
		}
		var answer string
		if err := survey.AskOne(prompt, &answer); err != nil {
			return "", err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			parts = append(parts, answer)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("nothing to save")
	}
	return strings.Join(parts, ", "), nil
}

func doshow(cli sweeper.SweeperCLI) error {
	query, err := profile.Load(cli.Config())
	if err != nil {
		return err
	}
	if query == "" {
		log.Info("no saved profile, create one with `privacysweep profile set`")
		return nil
	}
	output.SubjectTable(queryparser.Parse(query), "saved profile")
	return nil
}

func dorm(cli sweeper.SweeperCLI) error {
	if err := profile.Remove(cli.Config()); err != nil {
		return err
	}
	log.Info("deleted the saved profile")
	return nil
}
