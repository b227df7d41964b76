// Package careerpilot provides a high-level façade over the chat graph and
// its collaborators, enabling one-call construction of the conversational
// career-coaching service. Most applications interact with this package by:
//  1. Loading a config.Config from the environment
//  2. Creating an App via New() (optionally overriding stores or indexes)
//  3. Serving App.Service over HTTP (server package) or calling
//     Service.SendTurn directly
//
// Defaults are safe for local development: an embedded SQLite database and,
// when no Qdrant URL is configured, in-memory search indexes.
package careerpilot

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"

	"github.com/careerpilot/careerpilot/chat"
	"github.com/careerpilot/careerpilot/config"
	"github.com/careerpilot/careerpilot/logging"
	"github.com/careerpilot/careerpilot/model"
	"github.com/careerpilot/careerpilot/model/anthropic"
	"github.com/careerpilot/careerpilot/model/openai"
	"github.com/careerpilot/careerpilot/search"
	"github.com/careerpilot/careerpilot/store"
	"github.com/careerpilot/careerpilot/transcript"
)

// Options override individual collaborators during assembly. Any unset
// field is built from the config.
type Options struct {
	Logger logging.Logger

	// TranscriptStore overrides the SQLite-backed conversation store.
	TranscriptStore transcript.Store

	// Domain stores consumed by the mentor tools.
	Profiles     store.ProfileStore
	Applications store.ApplicationStore
	Reports      store.ReportStore

	// Search indexes consumed by the search tools.
	Jobs      search.Searcher
	Resources search.Searcher
}

// App aggregates the assembled service and the resources it owns.
type App struct {
	Service *chat.Service

	closers []func() error
}

// New assembles models, fallback chains, tools, the chat graph and the
// service from cfg. All dependencies are constructed once here and injected
// explicitly; nothing is lazily created at request time.
func New(cfg *config.Config, optFns ...func(o *Options)) (*App, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger

	app := &App{}

	routerChain, err := newChain(cfg, cfg.RouterModel, logger)
	if err != nil {
		return nil, err
	}
	mentorChain, err := newChain(cfg, cfg.MentorModel, logger)
	if err != nil {
		return nil, err
	}
	genericChain, err := newChain(cfg, cfg.GenericModel, logger)
	if err != nil {
		return nil, err
	}

	if opts.TranscriptStore == nil {
		ts, err := transcript.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, ts.Close)
		opts.TranscriptStore = ts
	}

	if opts.Profiles == nil || opts.Applications == nil || opts.Reports == nil {
		ds, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, ds.Close)
		if opts.Profiles == nil {
			opts.Profiles = ds
		}
		if opts.Applications == nil {
			opts.Applications = ds
		}
		if opts.Reports == nil {
			opts.Reports = ds
		}
	}

	if opts.Jobs == nil || opts.Resources == nil {
		jobs, resources, err := newIndexes(cfg, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		if opts.Jobs == nil {
			opts.Jobs = jobs
		}
		if opts.Resources == nil {
			opts.Resources = resources
		}
	}

	registry, err := chat.NewMentorTools(chat.ToolDeps{
		Profiles:     opts.Profiles,
		Applications: opts.Applications,
		Reports:      opts.Reports,
		Jobs:         opts.Jobs,
		Resources:    opts.Resources,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	router := chat.NewRouter(routerChain, func(o *chat.RouterOptions) { o.Logger = logger })
	mentor := chat.NewMentor(mentorChain, registry, func(o *chat.MentorOptions) { o.Logger = logger })
	generic := chat.NewGeneric(genericChain, func(o *chat.GenericOptions) { o.Logger = logger })
	executor := chat.NewToolExecutor(registry, func(o *chat.ToolExecutorOptions) { o.Logger = logger })

	graph, err := chat.NewGraph(router, mentor, generic, executor, func(o *chat.GraphOptions) {
		o.ToolLoopLimit = cfg.ToolLoopLimit
		o.Logger = logger
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("careerpilot: build chat graph: %w", err)
	}

	app.Service = chat.NewService(graph, opts.TranscriptStore, func(o *chat.ServiceOptions) { o.Logger = logger })
	return app, nil
}

// Close releases resources owned by the app (database handles).
func (a *App) Close() error {
	var firstErr error
	for _, close := range a.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// newChain builds the standard fallback chain: the named OpenAI model as
// primary, the configured Anthropic model as fallback. Mirrors the
// production posture of one fast primary with a cross-vendor backstop.
func newChain(cfg *config.Config, openaiModel string, logger logging.Logger) (*model.FallbackChain, error) {
	primary := openai.NewModel(func(o *openai.Options) { o.Model = openaiModel })
	fallback := anthropic.NewModel(func(o *anthropic.Options) {
		o.Model = anthropicsdk.Model(cfg.FallbackModel)
		o.APIKey = cfg.AnthropicAPIKey
	})
	return model.NewFallbackChain([]model.Model{primary, fallback}, func(o *model.FallbackChainOptions) {
		o.Logger = logger
	})
}

func newIndexes(cfg *config.Config, logger logging.Logger) (jobs, resources search.Searcher, err error) {
	client := openaisdk.NewClient()
	embedder := search.NewOpenAIEmbedderFromClient(&client, cfg.EmbeddingModel)

	if cfg.QdrantURL == "" {
		// No Qdrant configured: serve searches from empty in-memory
		// indexes so the assistant degrades to "nothing found" answers.
		return search.NewInMemoryIndex(embedder), search.NewInMemoryIndex(embedder), nil
	}

	jobsIdx, err := search.NewQdrantIndex(search.QdrantConfig{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.JobsCollection,
		Dims:       cfg.EmbeddingDims,
	}, embedder, logger)
	if err != nil {
		return nil, nil, err
	}

	resourcesIdx, err := search.NewQdrantIndex(search.QdrantConfig{
		URL:        cfg.QdrantURL,
		APIKey:     cfg.QdrantAPIKey,
		Collection: cfg.ResourcesCollection,
		Dims:       cfg.EmbeddingDims,
	}, embedder, logger)
	if err != nil {
		return nil, nil, err
	}

	return jobsIdx, resourcesIdx, nil
}
