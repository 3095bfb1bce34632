// Package sweeptest contains code used for testing.
package sweeptest

import (
	"sync"

	"github.com/apex/log"

	"github.com/jkriig/privacy-sweep/internal/config"
	"github.com/jkriig/privacy-sweep/internal/model"
	"github.com/jkriig/privacy-sweep/internal/sweeper"
)

// FakeSweeperCLI fakes sweeper.SweeperCLI
type FakeSweeperCLI struct {
	FakeConfig       *config.Config
	FakeDB           model.Database
	FakeIsBatch      bool
	FakeHome         string
	FakeIsTerminated func() bool
}

// Config implements SweeperCLI.Config
func (cli *FakeSweeperCLI) Config() *config.Config {
	return cli.FakeConfig
}

// DB implements SweeperCLI.DB
func (cli *FakeSweeperCLI) DB() model.Database {
	return cli.FakeDB
}

// IsBatch implements SweeperCLI.IsBatch
func (cli *FakeSweeperCLI) IsBatch() bool {
	return cli.FakeIsBatch
}

// Home implements SweeperCLI.Home
func (cli *FakeSweeperCLI) Home() string {
	return cli.FakeHome
}

// IsTerminated implements SweeperCLI.IsTerminated
func (cli *FakeSweeperCLI) IsTerminated() bool {
	if cli.FakeIsTerminated != nil {
		return cli.FakeIsTerminated()
	}
	return false
}

var _ sweeper.SweeperCLI = &FakeSweeperCLI{}

// FakeLoggerHandler fakes apex.log.Handler.
type FakeLoggerHandler struct {
	FakeEntries []*log.Entry
	FakeErr     error
	mu          sync.Mutex
}

// HandleLog implements Handler.HandleLog.
func (handler *FakeLoggerHandler) HandleLog(entry *log.Entry) error {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	handler.FakeEntries = append(handler.FakeEntries, entry)
	return handler.FakeErr
}

// Entries returns a copy of the collected entries.
func (handler *FakeLoggerHandler) Entries() []*log.Entry {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	return append([]*log.Entry{}, handler.FakeEntries...)
}

var _ log.Handler = &FakeLoggerHandler{}
