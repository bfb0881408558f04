// Package model implements the agent-model lifecycle: create with USING
// args, batch prediction, describe and the (unsupported) finetune entry
// point. Task 6.3.
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/internal/domain/agent"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/engine"
	"github.com/srilakshmipotnuru/mindsdb/internal/domain/template"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/eventbus"
	"github.com/srilakshmipotnuru/mindsdb/internal/infra/llm"
)

// Storage keys for per-model JSON records.
const (
	argsKey        = "args"
	descriptionKey = "description"
)

// TopicPredictionCompleted is published on the event bus after every
// prediction batch; the usage recorder persists the payload.
const TopicPredictionCompleted = "prediction.completed"

var (
	// ErrMissingUsing is returned when create is called without a USING
	// clause.
	ErrMissingUsing = errors.New("the agent engine requires a USING clause")

	// ErrMissingPromptTemplate is returned when create is called without a
	// prompt_template argument.
	ErrMissingPromptTemplate = errors.New("please provide a `prompt_template` for this engine")

	// ErrPromptTemplateRequired is returned when neither the stored args nor
	// the predict params carry a template.
	ErrPromptTemplateRequired = errors.New("this model expects a prompt template, please provide one")

	// ErrNotDescribed is returned when describe("info") runs before any
	// prediction has persisted a description record.
	ErrNotDescribed = errors.New("this model needs to be used before it can be described")

	// ErrFinetuneNotSupported is returned by Finetune unconditionally.
	ErrFinetuneNotSupported = errors.New("fine-tuning is not supported for agent models")
)

// RunEvent is the payload published under TopicPredictionCompleted.
type RunEvent struct {
	ModelName   string
	AgentKind   string
	RowsTotal   int
	RowsSkipped int
	RowsFailed  int
	ElapsedMs   int64
}

// Prediction is the realigned output of one batch.
type Prediction struct {
	// Target is the output column name the completions belong under.
	Target string
	// Completions has one entry per input row; excluded rows carry an
	// invalid (null) entry.
	Completions []Completion
}

// Service ties model storage, credential resolution, the engine bridge and
// the agent factory together.
type Service struct {
	storage  *Storage
	creds    *CredentialResolver
	bus      eventbus.EventBus
	executor engine.Executor
	resolver engine.HandlerResolver

	openAIBaseURL string
	serperBaseURL string

	// provider overrides the constructed LLM client when set.
	provider llm.LLMProvider
}

// ServiceConfig wires a Service.
type ServiceConfig struct {
	Storage  *Storage
	Bus      eventbus.EventBus
	Executor engine.Executor
	Resolver engine.HandlerResolver

	OpenAIBaseURL string
	SerperBaseURL string

	Provider llm.LLMProvider
}

// NewService builds the model service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		storage:       cfg.Storage,
		creds:         NewCredentialResolver(cfg.Storage),
		bus:           cfg.Bus,
		executor:      cfg.Executor,
		resolver:      cfg.Resolver,
		openAIBaseURL: cfg.OpenAIBaseURL,
		serperBaseURL: cfg.SerperBaseURL,
		provider:      cfg.Provider,
	}
}

// ValidateCreate checks the creation arguments before anything is stored.
// Both failures are fatal configuration errors.
func ValidateCreate(using Args) error {
	if using == nil {
		return ErrMissingUsing
	}
	if _, ok := using["prompt_template"]; !ok {
		return ErrMissingPromptTemplate
	}
	return nil
}

// Create validates and registers a model, persisting its USING args and
// target column for later predictions.
func (s *Service) Create(ctx context.Context, name, target string, using Args) error {
	if err := ValidateCreate(using); err != nil {
		return err
	}
	if raw, ok := using["prompt_template"].(string); ok {
		if _, err := template.Compile(raw); err != nil {
			return fmt.Errorf("invalid prompt_template: %w", err)
		}
	}

	id, err := s.storage.CreateModel(ctx, name)
	if err != nil {
		return err
	}

	args := make(Args, len(using)+1)
	for k, v := range using {
		args[k] = v
	}
	args["target"] = target
	return s.storage.JSONSet(ctx, id, argsKey, args)
}

// Predict runs the model over a row batch. The agent is constructed once
// per call; predict params override stored args which override defaults.
func (s *Service) Predict(ctx context.Context, name string, rows []template.Row, predictParams Args) (*Prediction, error) {
	id, err := s.storage.LookupModel(ctx, name)
	if err != nil {
		return nil, err
	}

	args := Args{}
	if err := s.storage.JSONGet(ctx, id, argsKey, &args); err != nil {
		return nil, err
	}
	pred := predictParams
	if pred == nil {
		pred = Args{}
	}

	raw := StringOpt("prompt_template", "", pred, args)
	if raw == "" {
		return nil, ErrPromptTemplateRequired
	}
	tmpl, err := template.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile prompt template: %w", err)
	}

	opts, err := s.buildOptions(ctx, pred, args)
	if err != nil {
		return nil, err
	}

	kind := StringOpt("modal_dispatch", agent.DispatchDefault, args)
	a, desc, err := agent.Dispatch(kind, opts)
	if err != nil {
		return nil, err
	}
	if desc != nil {
		if err := s.storage.JSONSet(ctx, id, descriptionKey, desc); err != nil {
			return nil, err
		}
	}

	prompts, excluded, err := template.BuildPrompts(tmpl, rows)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	batch := RunBatch(ctx, a, prompts, excluded)

	if s.bus != nil {
		s.bus.Publish(TopicPredictionCompleted, RunEvent{
			ModelName:   name,
			AgentKind:   kind,
			RowsTotal:   len(rows),
			RowsSkipped: len(excluded),
			RowsFailed:  batch.Failed,
			ElapsedMs:   time.Since(start).Milliseconds(),
		})
	}

	return &Prediction{
		Target:      StringOpt("target", "completion", args),
		Completions: batch.Completions,
	}, nil
}

// buildOptions resolves the merged agent options for one prediction call.
// Stop sequences come from predict params only.
func (s *Service) buildOptions(ctx context.Context, pred, args Args) (agent.Options, error) {
	openAIKey, err := s.creds.Resolve(ctx, "openai", "openai_api_key", s.provider == nil, pred, args)
	if err != nil {
		return agent.Options{}, err
	}
	serperKey, err := s.creds.Resolve(ctx, "serper", "serper_api_key", false, pred, args)
	if err != nil {
		return agent.Options{}, err
	}

	return agent.Options{
		ModelName: StringOpt("model_name", agent.DefaultModelName, pred, args),
		AgentName: StringOpt("agent_name", agent.AgentTypeZeroShot, pred, args),

		Temperature:      FloatOpt("temperature", 0, pred, args),
		MaxTokens:        IntOpt("max_tokens", agent.DefaultMaxTokens, pred, args),
		TopP:             FloatOpt("top_p", 0, pred, args),
		FrequencyPenalty: FloatOpt("frequency_penalty", 0, pred, args),
		PresencePenalty:  FloatOpt("presence_penalty", 0, pred, args),
		N:                IntOpt("n", 0, pred, args),
		BestOf:           IntOpt("best_of", 0, pred, args),
		RequestTimeout:   IntOpt("request_timeout", 0, pred, args),
		Stops:            StringsOpt("stops", nil, pred),

		MaxIterations: IntOpt("max_iterations", agent.DefaultMaxIterations, pred, args),
		// An explicit empty predict-time list disables the generic tools;
		// only a fully absent key falls through to the stored list.
		ToolNames: StringsOpt("tools", nil, pred, args),
		Writer:    BoolOpt("writer", false, args),

		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: s.openAIBaseURL,
		SerperAPIKey:  serperKey,
		SerperBaseURL: s.serperBaseURL,

		Executor: s.executor,
		Resolver: s.resolver,
		Provider: s.provider,
	}, nil
}

// Describe returns the persisted description record for attribute "info",
// or the list of describable attributes for anything else.
func (s *Service) Describe(ctx context.Context, name, attribute string) (*engine.Result, error) {
	id, err := s.storage.LookupModel(ctx, name)
	if err != nil {
		return nil, err
	}

	if attribute != "info" {
		return &engine.Result{
			Columns: []string{"tables"},
			Rows:    [][]any{{"info"}},
		}, nil
	}

	var desc agent.Description
	if err := s.storage.JSONGet(ctx, id, descriptionKey, &desc); err != nil {
		if errors.Is(err, ErrStorageKeyNotFound) {
			return nil, ErrNotDescribed
		}
		return nil, err
	}

	return &engine.Result{
		Columns: []string{
			"allowed_tools", "agent_type", "max_iterations",
			"memory_type", "model_name", "temperature", "max_tokens",
			"top_p", "frequency_penalty", "presence_penalty",
			"n", "best_of", "request_timeout",
		},
		Rows: [][]any{{
			strings.Join(desc.AllowedTools, ", "),
			desc.AgentType,
			desc.MaxIterations,
			desc.MemoryType,
			desc.ModelName,
			desc.Temperature,
			desc.MaxTokens,
			desc.TopP,
			desc.FrequencyPenalty,
			desc.PresencePenalty,
			desc.N,
			desc.BestOf,
			desc.RequestTimeout,
		}},
	}, nil
}

// Finetune is not supported for agent-backed models.
func (s *Service) Finetune(_ context.Context, _ string) error {
	return ErrFinetuneNotSupported
}
