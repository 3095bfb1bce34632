package sweeper

import (
	_ "embed" // because we embed a file
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/apex/log"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/jkriig/privacy-sweep/internal/config"
	"github.com/jkriig/privacy-sweep/internal/database"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/sites"
	"github.com/jkriig/privacy-sweep/internal/utils"
)

// DefaultSoftwareName is the default software name.
const DefaultSoftwareName = "privacysweep-cli"

// SweeperCLI is the privacysweep CLI context.
type SweeperCLI interface {
	Config() *config.Config
	DB() model.Database
	IsBatch() bool
	Home() string
	IsTerminated() bool
}

// Sweeper contains the privacysweep CLI context.
type Sweeper struct {
	config  *config.Config
	db      *database.Database
	isBatch bool

	home string

	dbPath     string
	configPath string

	homeLock *flock.Flock

	isTerminated atomic.Int64

	softwareName    string
	softwareVersion string
}

// SetIsBatch sets the value of isBatch.
func (s *Sweeper) SetIsBatch(v bool) {
	s.isBatch = v
}

// IsBatch returns whether we're running in batch mode.
func (s *Sweeper) IsBatch() bool {
	return s.isBatch
}

// Config returns the configuration
func (s *Sweeper) Config() *config.Config {
	return s.config
}

// DB returns the database we're using
func (s *Sweeper) DB() model.Database {
	return s.db
}

// Home returns the sweep home directory.
func (s *Sweeper) Home() string {
	return s.home
}

// IsTerminated checks whether a stop signal arrived and the running
// sweep should wind down.
func (s *Sweeper) IsTerminated() bool {
	return s.isTerminated.Load() != 0
}

// Terminate interrupts the running sweep.
func (s *Sweeper) Terminate() {
	s.isTerminated.Add(1)
}

// ListenForSignals will listen for SIGINT and SIGTERM. When it receives
// those signals it will set the terminated flag, which cleanly shuts
// down the sweep loop.
func (s *Sweeper) ListenForSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("caught a stop signal, shutting down cleanly")
		s.Terminate()
	}()
}

// MaybeListenForStdinClosed will treat any error on stdin just
// like SIGTERM if and only if
//
//	os.Getenv("PRIVACY_SWEEP_STDIN_EOF_IMPLIES_SIGTERM") == "true"
//
// When this feature is enabled, a collateral effect is that we swallow
// whatever is passed to us on the standard input.
func (s *Sweeper) MaybeListenForStdinClosed() {
	if os.Getenv("PRIVACY_SWEEP_STDIN_EOF_IMPLIES_SIGTERM") != "true" {
		return
	}
	go func() {
		defer s.Terminate()
		defer log.Info("stdin closed, shutting down cleanly")
		b := make([]byte, 1<<10)
		for {
			if _, err := os.Stdin.Read(b); err != nil {
				return
			}
		}
	}()
}

// Init the sweep home, configuration, and database. The home is locked
// for the lifetime of the process so two instances cannot race on the
// same database.
func (s *Sweeper) Init(softwareName, softwareVersion string) error {
	var err error

	if err = MaybeInitializeHome(s.home); err != nil {
		return err
	}

	s.homeLock = flock.New(utils.LockPath(s.home))
	locked, err := s.homeLock.TryLock()
	if err != nil {
		return errors.Wrap(err, "locking sweep home")
	}
	if !locked {
		return errors.Errorf("another privacysweep instance is using %s", s.home)
	}

	if s.configPath != "" {
		log.Debugf("Reading config file from %s", s.configPath)
		s.config, err = config.ReadConfig(s.configPath)
	} else {
		log.Debug("Reading default config file")
		s.config, err = InitDefaultConfig(s.home)
	}
	if err != nil {
		return err
	}
	if err = s.config.MaybeMigrate(); err != nil {
		return errors.Wrap(err, "migrating config")
	}

	s.dbPath = utils.DBDir(s.home, "main")
	log.Debugf("Connecting to database sqlite3://%s", s.dbPath)
	db, err := database.Open(s.dbPath)
	if err != nil {
		return err
	}
	s.db = db

	added, skipped, err := sites.LoadCustom(utils.SitesDDir(s.home))
	if err != nil {
		return errors.Wrap(err, "loading custom sites")
	}
	if len(added) > 0 {
		log.Debugf("loaded %d custom site definitions", len(added))
	}
	for _, key := range skipped {
		log.Warnf("custom site %s shadows a builtin site, skipping it", key)
	}

	s.softwareName = softwareName
	s.softwareVersion = softwareVersion
	return nil
}

// Close releases the database and the home lock.
func (s *Sweeper) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
	}
	if s.homeLock != nil {
		return s.homeLock.Unlock()
	}
	return nil
}

// NewSweeper creates a new sweeper instance.
func NewSweeper(configPath string, homePath string) *Sweeper {
	return &Sweeper{
		home:       homePath,
		config:     &config.Config{},
		configPath: configPath,
	}
}

// MaybeInitializeHome does the setup for a new sweep home
func MaybeInitializeHome(home string) error {
	for _, d := range utils.RequiredDirs(home) {
		if _, e := os.Stat(d); e != nil {
			if err := os.MkdirAll(d, 0700); err != nil {
				return err
			}
		}
	}
	return nil
}

//go:embed default-config.json
var defaultConfig []byte

// InitDefaultConfig reads the config from common locations or creates
// it if missing. On first run the default query saved by the
// predecessor script, if any, is imported into the new config.
func InitDefaultConfig(home string) (*config.Config, error) {
	var (
		err        error
		c          *config.Config
		configPath = utils.ConfigPath(home)
	)

	c, err = config.ReadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("writing default config to %s", configPath)
			if err = os.WriteFile(configPath, defaultConfig, 0644); err != nil {
				return nil, err
			}
			if legacyQuery := utils.LegacyDefaultQuery(); legacyQuery != "" {
				log.Info("importing the profile saved by pdr_scanner in ~/.pdr_scanner.json")
				c, err := config.ReadConfig(configPath)
				if err != nil {
					return nil, err
				}
				c.Lock()
				c.Profile.DefaultQuery = legacyQuery
				c.Unlock()
				if err := c.Write(); err != nil {
					return nil, err
				}
			}
			return InitDefaultConfig(home)
		}
		return nil, err
	}

	return c, nil
}
