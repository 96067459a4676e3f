// Package wire provides dependency injection for the octoeb application.
// It creates singleton services with lazy initialization.
package wire

import (
	"fmt"
	"log"
	"os"
	"sync"

	ghadapter "github.com/enderlabs/octoeb/internal/adapters/github"
	"github.com/enderlabs/octoeb/internal/adapters/sqlite"
	"github.com/enderlabs/octoeb/internal/app"
	"github.com/enderlabs/octoeb/internal/config"
	"github.com/enderlabs/octoeb/internal/core/flow"
	"github.com/enderlabs/octoeb/internal/db"
	"github.com/enderlabs/octoeb/internal/ports/primary"
	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

var (
	cfg         *config.Config
	flowService primary.FlowService
	once        sync.Once
)

// FlowService returns the singleton FlowService instance.
func FlowService() primary.FlowService {
	once.Do(initServices)
	return flowService
}

// Configuration returns the resolved configuration.
func Configuration() *config.Config {
	once.Do(initServices)
	return cfg
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The journal is a local convenience; a broken database must not block
	// the flow itself.
	var journal secondary.RunJournal
	if database, err := db.GetDB(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: run journal disabled: %v\n", err)
	} else {
		journal = sqlite.NewJournalRepository(database)
	}

	client := ghadapter.NewClient(cfg)
	pol := flow.Policy{
		RequireQA:     cfg.RequireQA,
		DevelopBranch: cfg.DevelopBranch,
		MasterBranch:  cfg.MasterBranch,
	}
	flowService = app.NewFlowService(client, journal, pol)
}
