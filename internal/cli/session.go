package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kundanareddy2830/quantum-sight/internal/config"
	"github.com/kundanareddy2830/quantum-sight/internal/controller"
	"github.com/kundanareddy2830/quantum-sight/internal/db"
	"github.com/kundanareddy2830/quantum-sight/internal/events"
	"github.com/kundanareddy2830/quantum-sight/internal/logging"
	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

const journalSubscriberID = "journal"

// session is one controller run plus its optional journal.
type session struct {
	catalog  *stages.Catalog
	ctrl     *controller.Controller
	journal  *db.DB
	recorder *events.Recorder
}

func currentConfig() *config.Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

func catalogProjectDir() string {
	if dir := strings.TrimSpace(currentConfig().ProjectDir); dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}

func loadCatalogs() ([]*stages.Catalog, error) {
	catalogs, err := stages.LoadCatalogsFromSearchPaths(catalogProjectDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogues: %w", err)
	}
	return catalogs, nil
}

func resolveCatalog(catalogs []*stages.Catalog, name string) (*stages.Catalog, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &PreflightError{
			Message:  "no catalogue selected",
			Hint:     "Pass --catalog or set catalog in the config file",
			NextStep: "foresight stages list",
		}
	}
	catalog := stages.FindCatalog(catalogs, name)
	if catalog == nil {
		names := make([]string, 0, len(catalogs))
		for _, c := range catalogs {
			names = append(names, c.Name)
		}
		return nil, &PreflightError{
			Message:  fmt.Sprintf("unknown catalogue %q", name),
			Hint:     "Available: " + strings.Join(names, ", "),
			NextStep: "foresight stages list",
		}
	}
	return catalog, nil
}

func openSession(ctx context.Context, catalog *stages.Catalog, opts ...controller.Option) (*session, error) {
	registry, err := catalog.Registry()
	if err != nil {
		return nil, fmt.Errorf("catalogue %q: %w", catalog.Name, err)
	}

	ctrl, err := controller.New(registry, opts...)
	if err != nil {
		return nil, err
	}
	s := &session{catalog: catalog, ctrl: ctrl}

	cfg := currentConfig()
	if !cfg.Journal.Enabled {
		return s, nil
	}

	database, err := openJournal(ctx, cfg.Journal.Path)
	if err != nil {
		ctrl.Close()
		return nil, err
	}
	recorder, err := events.NewRecorder(db.NewEventRepository(database), registry)
	if err != nil {
		ctrl.Close()
		_ = database.Close()
		return nil, err
	}
	recorder.Start(ctx)
	if err := ctrl.Subscribe(journalSubscriberID, recorder); err != nil {
		recorder.Close()
		ctrl.Close()
		_ = database.Close()
		return nil, err
	}

	s.journal = database
	s.recorder = recorder
	logger := logging.Component("cli")
	logger.Debug().
		Str("session", recorder.SessionID()).
		Str("path", database.Path()).
		Msg("journal attached")
	return s, nil
}

// Close stops the controller, then flushes and closes the journal.
func (s *session) Close() {
	s.ctrl.Close()
	if s.recorder != nil {
		s.recorder.Close()
		if dropped := s.recorder.Dropped(); dropped > 0 {
			logger := logging.Component("cli")
			logger.Warn().Int("dropped", dropped).Msg("journal dropped events")
		}
	}
	if s.journal != nil {
		_ = s.journal.Close()
	}
}

func openJournal(ctx context.Context, path string) (*db.DB, error) {
	progress := startProgress("Opening journal")
	database, err := db.Open(path)
	if err != nil {
		progress.Fail(err)
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	applied, err := database.MigrateUp(ctx)
	if err != nil {
		progress.Fail(err)
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	detail := ""
	if applied > 0 {
		detail = fmt.Sprintf("%d migration(s) applied", applied)
	}
	progress.Done(detail)
	return database, nil
}
