package bootstrap

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	connectioninadapter "resolvemcp/internal/modules/connection/adapter/in"
	connectionoutadapter "resolvemcp/internal/modules/connection/adapter/out"
	connectiondomain "resolvemcp/internal/modules/connection/domain"
	connectionservice "resolvemcp/internal/modules/connection/service"
	connectionusecase "resolvemcp/internal/modules/connection/usecase"
	journalinadapter "resolvemcp/internal/modules/journal/adapter/in"
	journaloutadapter "resolvemcp/internal/modules/journal/adapter/out"
	journalin "resolvemcp/internal/modules/journal/port/in"
	journalout "resolvemcp/internal/modules/journal/port/out"
	journalservice "resolvemcp/internal/modules/journal/service"
	journalusecase "resolvemcp/internal/modules/journal/usecase"
	toolsinadapter "resolvemcp/internal/modules/tools/adapter/in"
	toolsservice "resolvemcp/internal/modules/tools/service"
	toolsusecase "resolvemcp/internal/modules/tools/usecase"
	"resolvemcp/internal/platform/clock"
	"resolvemcp/internal/platform/config"
	"resolvemcp/internal/platform/id"
	"resolvemcp/internal/platform/mcp"
	uiapp "resolvemcp/internal/ui/app"
)

const ServerName = "resolvemcp"

type App struct {
	Logger   hclog.Logger
	Location connectiondomain.ModuleLocation

	ConnectionCLI connectioninadapter.CLIHandler
	ToolsCLI      toolsinadapter.CLIHandler
	// JournalCLI is nil when the journal is disabled.
	JournalCLI *journalinadapter.CLIHandler
	Server     *mcp.Server

	connection *connectionservice.ConnectionManager
	store      journalout.EntryStore
}

// New wires the application. The module location is resolved once, before
// the binding exists.
func New(cfg config.Config, version string, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := clock.SystemClock{}

	location, err := connectiondomain.ResolveModuleLocation(cfg.Platform, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("resolve module location: %w", err)
	}
	logger.Debug("resolved scripting modules", "platform", location.Platform, "path", location.ModulesPath)

	binding := connectionoutadapter.NewGRPCBinding(cfg.Bridge, location, logger)
	manager := connectionservice.Shared(func() *connectionservice.ConnectionManager {
		return connectionservice.NewConnectionManager(binding, clk, logger)
	})
	connectionUC := connectionusecase.NewInteractor(manager)

	toolsUC := toolsusecase.NewInteractor(toolsservice.NewToolService(
		connectionUC,
		cfg.Pagination.DefaultLimit,
		cfg.Pagination.MaxLimit,
	))

	app := &App{
		Logger:        logger,
		Location:      location,
		ConnectionCLI: connectioninadapter.NewCLIHandler(connectionUC),
		ToolsCLI:      toolsinadapter.NewCLIHandler(toolsUC),
		connection:    manager,
	}

	var journalUC journalin.Usecase
	if cfg.Journal.Enabled {
		store, err := journaloutadapter.NewSQLiteEntryStore(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		app.store = store
		journalUC = journalusecase.NewInteractor(journalservice.NewJournalService(clk, id.UUID{}, store))
		handler := journalinadapter.NewCLIHandler(journalUC)
		app.JournalCLI = &handler
	}

	server := mcp.NewServer(mcp.ServerInfo{Name: ServerName, Version: version}, cfg.Bridge.CallTimeout, logger.Named("mcp"))
	if err := toolsinadapter.NewMCPHandler(toolsUC, connectionUC, journalUC, logger).Register(server); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("register tools: %w", err)
	}
	app.Server = server
	return app, nil
}

// Close releases the host session and the journal.
func (a *App) Close() error {
	var errs []error
	if a.connection != nil {
		if err := a.connection.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	return errors.Join(errs...)
}

func RunMonitor(app *App) error {
	var model uiapp.Model
	if app.JournalCLI != nil {
		model = uiapp.NewModel(app.ConnectionCLI, app.JournalCLI)
	} else {
		model = uiapp.NewModel(app.ConnectionCLI, nil)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// ResolveLocation reports where the scripting modules live on platform
// without starting anything.
func ResolveLocation(platform string) (connectiondomain.ModuleLocation, error) {
	return connectiondomain.ResolveModuleLocation(platform, os.Getenv)
}
