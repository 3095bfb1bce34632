package export

import (
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/cli/root"
	"github.com/jkriig/privacy-sweep/internal/export"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

func init() {
	cmd := root.Command("export", "Write the findings of a sweep to CSV or JSON")

	sweepID := cmd.Arg("id",
		"the id of the sweep to export, defaults to the most recent one").Int64()
	csvPath := cmd.Flag("csv", "Write a CSV report to this path").String()
	jsonPath := cmd.Flag("json", "Write a JSON report to this path").String()
	encryptTo := cmd.Flag("encrypt-to",
		"Encrypt the reports to this age recipient").String()

	cmd.Action(func(_ *kingpin.ParseContext) error {
		sweep, err := root.Init()
		if err != nil {
			log.WithError(err).Error("failed to initialize the sweep home")
			return err
		}
		defer sweep.Close()
		return doexport(sweep, doexportoptions{
			SweepID:   *sweepID,
			CSVPath:   *csvPath,
			JSONPath:  *jsonPath,
			EncryptTo: *encryptTo,
		})
	})
}

// doexportoptions contains the flags driving doexport.
type doexportoptions struct {
	SweepID   int64
	CSVPath   string
	JSONPath  string
	EncryptTo string
}

func doexport(cli sweeper.SweeperCLI, opts doexportoptions) error {
	sweep, err := pickSweep(cli, opts.SweepID)
	if err != nil {
		return err
	}
	findings, err := cli.DB().ListFindings(sweep.ID)
	if err != nil {
		return errors.Wrap(err, "listing the findings to export")
	}
	report, err := export.NewReport(sweep, findings)
	if err != nil {
		return err
	}

	csvPath, jsonPath := opts.CSVPath, opts.JSONPath
	if csvPath == "" && jsonPath == "" {
		csvPath = export.CSVPath(cli.Home(), sweep.UUID)
		jsonPath = export.JSONPath(cli.Home(), sweep.UUID)
	}
	if opts.EncryptTo != "" {
		if csvPath != "" {
			csvPath += ".age"
		}
		if jsonPath != "" {
			jsonPath += ".age"
		}
	}

	if csvPath != "" {
		err := writeReport(csvPath, opts.EncryptTo, func(writer io.Writer) error {
			return export.WriteCSV(writer, report.Candidates)
		})
		if err != nil {
			return err
		}
		log.Infof("wrote the CSV report to %s", csvPath)
	}
	if jsonPath != "" {
		err := writeReport(jsonPath, opts.EncryptTo, func(writer io.Writer) error {
			return export.WriteJSON(writer, report)
		})
		if err != nil {
			return err
		}
		log.Infof("wrote the JSON report to %s", jsonPath)
	}
	return nil
}

// pickSweep returns the requested sweep, or the most recent one when
// sweepID is zero.
func pickSweep(cli sweeper.SweeperCLI, sweepID int64) (*model.DatabaseSweep, error) {
	sweeps, err := cli.DB().ListSweeps()
	if err != nil {
		return nil, errors.Wrap(err, "listing sweeps")
	}
	if len(sweeps) == 0 {
		return nil, errors.New("no recorded sweeps to export, run a sweep first")
	}
	if sweepID == 0 {
		return &sweeps[len(sweeps)-1], nil
	}
	for idx := range sweeps {
		if sweeps[idx].ID == sweepID {
			return &sweeps[idx], nil
		}
	}
	return nil, errors.Errorf("no sweep with id %d", sweepID)
}

func writeReport(path, recipient string, write func(writer io.Writer) error) error {
	writer, err := export.NewWriter(path, recipient)
	if err != nil {
		return err
	}
	if err := write(writer); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
