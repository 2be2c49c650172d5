// Package wire provides dependency injection for the muse application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	cliadapter "github.com/example/muse/internal/adapters/cli"
	"github.com/example/muse/internal/adapters/filesystem"
	"github.com/example/muse/internal/adapters/gemini"
	"github.com/example/muse/internal/adapters/openai"
	"github.com/example/muse/internal/adapters/sqlite"
	"github.com/example/muse/internal/adapters/transport"
	"github.com/example/muse/internal/app"
	"github.com/example/muse/internal/config"
	"github.com/example/muse/internal/db"
	"github.com/example/muse/internal/logging"
	"github.com/example/muse/internal/metrics"
	"github.com/example/muse/internal/personas"
	"github.com/example/muse/internal/ports/primary"
	"github.com/example/muse/internal/ports/secondary"
)

// backendTimeout bounds a single reasoning or image call.
const backendTimeout = 3 * time.Minute

var (
	cfg            *config.Config
	logger         *zap.Logger
	database       *sql.DB
	registry       *personas.Registry
	meter          *metrics.Metrics
	thoughtService primary.ThoughtService
	contentService primary.ContentService
	initErr        error
	once           sync.Once
)

// Init builds every service. It is safe to call more than once; only the
// first call does any work and later calls return its error.
func Init() error {
	once.Do(func() { initErr = initServices() })
	return initErr
}

func mustInit() {
	if err := Init(); err != nil {
		fmt.Fprintf(os.Stderr, "muse: %v\n", err)
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the root logger.
func Logger() *zap.Logger {
	mustInit()
	return logger
}

// Metrics returns the process-wide metrics registry.
func Metrics() *metrics.Metrics {
	mustInit()
	return meter
}

// ThoughtService returns the singleton ThoughtService instance.
func ThoughtService() primary.ThoughtService {
	mustInit()
	return thoughtService
}

// ContentService returns the singleton ContentService instance.
func ContentService() primary.ContentService {
	mustInit()
	return contentService
}

// Close flushes the logger and closes the database.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		_ = database.Close()
	}
}

// initServices initializes all services and their dependencies.
func initServices() error {
	home, err := config.Home()
	if err != nil {
		return err
	}
	cfg, err = config.Load(home)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	database, err = db.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	registry, err = personas.NewRegistry(cfg.PersonasFile)
	if err != nil {
		return err
	}

	store, err := filesystem.NewArtStore(cfg.Blobs.Root, cfg.Blobs.BaseURL)
	if err != nil {
		return err
	}

	httpClient, err := transport.NewHTTPClient(cfg.Network.Proxy, backendTimeout)
	if err != nil {
		return err
	}

	reasoning, err := newReasoningBackend(cfg.Reasoning, httpClient)
	if err != nil {
		return err
	}
	images, err := newImageBackend(cfg.Image, httpClient)
	if err != nil {
		return err
	}

	meter = metrics.New()

	// Create repository adapters (secondary ports)
	thoughtRepo := sqlite.NewThoughtRepository(database)
	contentRepo := sqlite.NewContentRepository(database)

	// Create services (primary ports implementation)
	contentService = app.NewContentService(contentRepo, store, logger)
	thoughtService = app.NewThoughtService(thoughtRepo, contentService, registry, reasoning, images, logger, meter)

	logger.Debug("services initialized",
		zap.String("home", home),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("reasoning", cfg.Reasoning.Provider),
		zap.String("image", cfg.Image.Provider))
	return nil
}

// backend is satisfied by both provider clients.
type backend interface {
	secondary.ReasoningBackend
	secondary.ImageBackend
}

func newBackend(bc config.BackendConfig, httpClient *http.Client) (backend, error) {
	if bc.APIKey == "" {
		return unavailableBackend{provider: bc.Provider}, nil
	}
	switch bc.Provider {
	case config.ProviderGemini:
		c, err := gemini.New(context.Background(), gemini.Config{
			APIKey:     bc.APIKey,
			TextModel:  bc.Model,
			ImageModel: bc.Model,
			BaseURL:    bc.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := openai.New(openai.Config{
			APIKey:     bc.APIKey,
			BaseURL:    bc.BaseURL,
			TextModel:  bc.Model,
			ImageModel: bc.Model,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", bc.Provider)
	}
}

func newReasoningBackend(bc config.BackendConfig, httpClient *http.Client) (secondary.ReasoningBackend, error) {
	return newBackend(bc, httpClient)
}

func newImageBackend(bc config.BackendConfig, httpClient *http.Client) (secondary.ImageBackend, error) {
	return newBackend(bc, httpClient)
}

// unavailableBackend stands in for a provider with no API key, so commands
// that never call a model still work.
type unavailableBackend struct {
	provider string
}

func (b unavailableBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return "", b.err()
}

func (b unavailableBackend) GenerateImage(ctx context.Context, description string) ([]byte, error) {
	return nil, b.err()
}

func (b unavailableBackend) err() error {
	return fmt.Errorf("%w: no API key configured for %s", secondary.ErrBackendUnavailable, b.provider)
}

// ThoughtAdapter returns a new ThoughtAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ThoughtAdapter() *cliadapter.ThoughtAdapter {
	return ThoughtAdapterWithOutput(os.Stdout)
}

// ThoughtAdapterWithOutput returns a new ThoughtAdapter writing to the given output.
func ThoughtAdapterWithOutput(out io.Writer) *cliadapter.ThoughtAdapter {
	mustInit()
	return cliadapter.NewThoughtAdapter(thoughtService, out)
}

// ContentAdapter returns a new ContentAdapter writing rendered Markdown to stdout.
// raw disables terminal rendering.
func ContentAdapter(raw bool) (*cliadapter.ContentAdapter, error) {
	mustInit()
	if raw {
		return cliadapter.NewContentAdapter(contentService, nil, os.Stdout), nil
	}
	renderer, err := cliadapter.NewMarkdownRenderer(80)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return cliadapter.NewContentAdapter(contentService, renderer, os.Stdout), nil
}

// PersonaAdapter returns a new PersonaAdapter writing to stdout.
func PersonaAdapter() *cliadapter.PersonaAdapter {
	mustInit()
	return cliadapter.NewPersonaAdapter(registry, os.Stdout)
}
