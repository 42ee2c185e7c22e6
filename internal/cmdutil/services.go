package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devspell/cli/internal/advisor"
	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/config"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/export"
	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/synth"
	"github.com/devspell/cli/internal/templates"
)

// ServiceOptions selects which collaborators NewServices builds.
type ServiceOptions struct {
	// LLM builds the text-generation client. Scaffold-only commands leave
	// it off so they work without credentials.
	LLM bool

	// Persistence builds the configured store and exporter.
	Persistence bool
}

// Services bundles the collaborators built from configuration.
type Services struct {
	Client   llm.Client
	Sink     store.Sink
	Exporter export.Exporter
	Registry *templates.Registry
	Pipeline pipeline.Pipeline
	Advisor  *advisor.Advisor
}

// Close waits for outstanding saves and releases clients.
func (s *Services) Close() error {
	var errs []error
	if s.Sink != nil {
		errs = append(errs, s.Sink.Close())
	}
	if s.Client != nil {
		errs = append(errs, s.Client.Close())
	}
	return errors.Join(errs...)
}

// NewServices builds the pipeline and its collaborators from gc.
func NewServices(ctx context.Context, gc *cmdtypes.GlobalConfig, opts ServiceOptions) (*Services, error) {
	if gc == nil || gc.Config == nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("configuration not loaded")}
	}
	if gc.LoadErr != nil && (opts.LLM || opts.Persistence) {
		return nil, gc.LoadErr
	}
	cfg := gc.Config

	s := &Services{
		Sink:     store.Discard{},
		Registry: templates.Default(),
	}

	if opts.LLM {
		client, err := NewLLMClient(ctx, cfg.LLM)
		if err != nil {
			return nil, err
		}
		s.Client = client
	}

	if opts.Persistence {
		sink, err := NewSink(ctx, cfg.Store)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		if _, discard := sink.(store.Discard); !discard {
			sink = store.NewAsync(sink, store.DefaultSaveTimeout)
		}
		s.Sink = sink

		exp, err := NewExporter(cfg.Export)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Exporter = exp
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithRegistry(s.Registry),
		pipeline.WithSink(s.Sink),
		pipeline.WithSynthOptions(synth.WithTimeout(cfg.LLM.Timeout)),
	}
	if s.Exporter != nil {
		pipeOpts = append(pipeOpts, pipeline.WithExporter(s.Exporter))
	}
	s.Pipeline = pipeline.New(s.Client, pipeOpts...)

	if s.Client != nil {
		s.Advisor = advisor.New(s.Client, s.Registry)
	}

	return s, nil
}

// NewLLMClient builds the configured provider with its API key resolved
// from config or the provider's conventional variable.
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.Client, error) {
	if strings.TrimSpace(cfg.Provider) == "" {
		return nil, oerrors.NewValidationError("no llm provider configured", "", "llm.provider",
			"Set DEVSPELL_LLM_PROVIDER to gemini, groq or fake")
	}

	key := config.ResolveAPIKey(&cfg)
	config.LogResolvedValues([]config.ResolvedValue{
		{Key: "llm.provider", Value: cfg.Provider, Source: config.SourceConfig},
		key,
	})

	return llm.New(ctx, llm.Options{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   key.Value,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		Retries:  cfg.Retries,
		RPS:      cfg.RPS,
		Burst:    cfg.Burst,
	})
}

// NewSink builds the configured persistence sink.
func NewSink(ctx context.Context, cfg config.StoreConfig) (store.Sink, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", config.KindNone:
		return store.Discard{}, nil
	case config.KindMemory:
		return store.NewMemorySink(), nil
	case config.KindFirestore:
		output.Debug("connecting to firestore", "project", cfg.Firestore.ProjectID)
		return store.NewFirestoreSink(ctx, store.FirestoreOptions{
			ProjectID:       cfg.Firestore.ProjectID,
			CredentialsFile: cfg.Firestore.CredentialsFile,
		})
	case config.KindPostgres:
		sink, err := store.NewPostgresSink(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := sink.EnsureSchema(ctx); err != nil {
			_ = sink.Close()
			return nil, err
		}
		return sink, nil
	default:
		return nil, oerrors.NewValidationError(fmt.Sprintf("unknown store kind %q", cfg.Kind), "", "store.kind",
			"Use one of: none, memory, firestore, postgres")
	}
}

// NewExporter builds the configured archive exporter. It returns nil when
// exporting is disabled.
func NewExporter(cfg config.ExportConfig) (export.Exporter, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", config.KindNone:
		return nil, nil
	case config.KindFile:
		dir := cfg.Dir
		if dir == "" {
			paths, err := config.DefaultPaths()
			if err != nil {
				return nil, err
			}
			dir = paths.ArchiveDir
		}
		dir, err := config.ExpandPath(dir)
		if err != nil {
			return nil, err
		}
		return export.NewFileExporter(dir), nil
	case config.KindS3:
		exp, err := export.NewS3Exporter(export.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, oerrors.NewValidationError(err.Error(), "", "export.s3", "")
		}
		return exp, nil
	default:
		return nil, oerrors.NewValidationError(fmt.Sprintf("unknown export kind %q", cfg.Kind), "", "export.kind",
			"Use one of: none, file, s3")
	}
}
