package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/llm"
)

const (
	SafeReply = "I'm here to listen. Can you tell me more about how you're feeling?"

	WarningAuth    = "API key invalid, using fallback responses."
	WarningService = "API error, using fallback responses."

	ResourceCrisisHotline     = "crisis_hotline"
	ResourceEmergencyServices = "emergency_services"
)

// Route indica que camino produjo la respuesta.
type Route string

const (
	RouteCrisis Route = "crisis"
	RouteModel  Route = "model"
	RouteRules  Route = "rules"
	RouteSafe   Route = "safe_default"
)

// Fallback reasons para metricas.
const (
	FallbackAuth    = "auth"
	FallbackService = "service"
	FallbackNoModel = "disabled"
)

// ResponseResult es la salida del motor; siempre esta bien formada.
type ResponseResult struct {
	Message   string           `json:"message"`
	IsCrisis  bool             `json:"is_crisis"`
	Sentiment *float64         `json:"sentiment"`
	Warning   string           `json:"warning,omitempty"`
	Error     string           `json:"error,omitempty"`
	Resources []string         `json:"resources,omitempty"`
	Route     Route            `json:"route"`
	Category  lexicon.Category `json:"category,omitempty"`
	Branch    Branch           `json:"branch,omitempty"`
}

// ModelAdapter es la dependencia opcional de modelo externo.
type ModelAdapter interface {
	Complete(ctx context.Context, message string, history []domain.ConversationTurn) (string, error)
}

// Scorer estima sentimiento sin fallar nunca.
type Scorer interface {
	Score(message string) float64
}

// Recorder recibe eventos del motor (metricas). Puede ser nil.
type Recorder interface {
	ObserveResponse(route string, category string)
	ObserveFallback(reason string)
	ObserveCrisis()
	ObserveModelLatency(outcome string, d time.Duration)
}

// Orchestrator decide entre crisis, modelo externo y reglas.
type Orchestrator struct {
	detector *CrisisDetector
	scorer   Scorer
	selector *Selector
	adapter  ModelAdapter
	timeout  time.Duration
	lex      *lexicon.Lexicon
	recorder Recorder
	logger   *zap.Logger
}

// Config agrupa las dependencias del Orchestrator.
type Config struct {
	Lexicon  *lexicon.Lexicon
	Scorer   Scorer
	Selector *Selector
	// Adapter nil significa modelo desactivado.
	Adapter  ModelAdapter
	Timeout  time.Duration
	Recorder Recorder
	Logger   *zap.Logger
}

func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Lexicon == nil {
		cfg.Lexicon = lexicon.Default()
	}
	if cfg.Selector == nil {
		cfg.Selector = NewSelector(cfg.Lexicon, nil, nil)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Orchestrator{
		detector: NewCrisisDetector(cfg.Lexicon),
		scorer:   cfg.Scorer,
		selector: cfg.Selector,
		adapter:  cfg.Adapter,
		timeout:  cfg.Timeout,
		lex:      cfg.Lexicon,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// DetectCrisis expone el detector para que los llamadores puedan priorizar la respuesta de crisis.
func (o *Orchestrator) DetectCrisis(message string) bool {
	return o.detector.Detect(message)
}

// ModelEnabled indica si hay adaptador configurado.
func (o *Orchestrator) ModelEnabled() bool {
	return o.adapter != nil
}

// GenerateResponse nunca entra en panico ni devuelve error: todo fallo termina en un resultado valido.
func (o *Orchestrator) GenerateResponse(ctx context.Context, message string, history []domain.ConversationTurn, dc DialogueContext) (result ResponseResult, next DialogueContext) {
	dc.TurnCount++

	var sentiment *float64
	defer func() {
		if r := recover(); r != nil {
			result, next = o.safeDefault(message, sentiment, fmt.Errorf("panic: %v", r), dc)
		}
	}()

	// la deteccion de crisis va antes de cualquier paso que pueda fallar
	if o.detector.Detect(message) {
		return o.crisis(dc)
	}

	var warning string
	if o.adapter != nil {
		reply, err := o.callModel(ctx, message, history)
		switch {
		case err == nil:
			s := o.score(message)
			o.observeResponse(RouteModel, lexicon.CategoryNone)
			return ResponseResult{
				Message:   reply,
				Sentiment: &s,
				Route:     RouteModel,
			}, dc.withIntents(lexicon.CategoryNone, lexicon.CategoryNone)
		case errors.Is(err, llm.ErrAuth):
			o.logger.Warn("llm auth failed, falling back to rules", zap.Error(err))
			o.observeFallback(FallbackAuth)
			warning = WarningAuth
		case errors.Is(err, llm.ErrService), errors.Is(err, context.DeadlineExceeded):
			o.logger.Warn("llm call failed, falling back to rules", zap.Error(err))
			o.observeFallback(FallbackService)
			warning = WarningService
		default:
			return o.safeDefault(message, nil, err, dc)
		}
	} else {
		o.observeFallback(FallbackNoModel)
	}

	s := o.score(message)
	sentiment = &s
	sel, err := o.selector.Choose(message, s, history, dc)
	if err != nil {
		return o.safeDefault(message, sentiment, err, dc)
	}

	o.observeResponse(RouteRules, sel.Context.LastBotIntent)
	return ResponseResult{
		Message:   sel.Reply,
		Sentiment: sentiment,
		Warning:   warning,
		Route:     RouteRules,
		Category:  sel.Context.LastBotIntent,
		Branch:    sel.Branch,
	}, sel.Context
}

func (o *Orchestrator) crisis(dc DialogueContext) (ResponseResult, DialogueContext) {
	o.logger.Warn("crisis language detected", zap.Int("turn", dc.TurnCount))
	if o.recorder != nil {
		o.recorder.ObserveCrisis()
	}
	o.observeResponse(RouteCrisis, lexicon.CategoryCrisis)
	// en crisis no se procesa nada mas, ni siquiera el sentimiento
	return ResponseResult{
		Message:   o.lex.CrisisScript(),
		IsCrisis:  true,
		Resources: []string{ResourceCrisisHotline, ResourceEmergencyServices},
		Route:     RouteCrisis,
		Category:  lexicon.CategoryCrisis,
	}, dc.withIntents(lexicon.CategoryCrisis, lexicon.CategoryCrisis)
}

func (o *Orchestrator) callModel(ctx context.Context, message string, history []domain.ConversationTurn) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	reply, err := o.adapter.Complete(ctx, message, history)
	outcome := "ok"
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("%w: empty reply", llm.ErrService)
	}
	if err != nil {
		outcome = "error"
		if ctx.Err() != nil && !errors.Is(err, llm.ErrAuth) {
			err = fmt.Errorf("%w: %v", llm.ErrService, err)
		}
	}
	if o.recorder != nil {
		o.recorder.ObserveModelLatency(outcome, time.Since(start))
	}
	return strings.TrimSpace(reply), err
}

func (o *Orchestrator) safeDefault(message string, sentiment *float64, cause error, dc DialogueContext) (ResponseResult, DialogueContext) {
	o.logger.Error("response generation failed", zap.Error(cause))
	if sentiment == nil {
		s := o.score(message)
		sentiment = &s
	}
	o.observeResponse(RouteSafe, lexicon.CategoryNone)
	return ResponseResult{
		Message:   SafeReply,
		Sentiment: sentiment,
		Error:     cause.Error(),
		Route:     RouteSafe,
	}, dc
}

// score nunca falla: un scorer que entra en panico cuenta como neutral.
func (o *Orchestrator) score(message string) (s float64) {
	if o.scorer == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("sentiment scorer panic", zap.Any("panic", r))
			s = 0
		}
	}()
	return o.scorer.Score(message)
}

func (o *Orchestrator) observeResponse(route Route, cat lexicon.Category) {
	if o.recorder != nil {
		o.recorder.ObserveResponse(string(route), string(cat))
	}
}

func (o *Orchestrator) observeFallback(reason string) {
	if o.recorder != nil {
		o.recorder.ObserveFallback(reason)
	}
}

// Greeting devuelve el saludo de apertura; si el banco falla usa la respuesta segura.
func (o *Orchestrator) Greeting() string {
	g, err := o.selector.Greeting()
	if err != nil || g == "" {
		o.logger.Warn("greeting bank unavailable", zap.Error(err))
		return SafeReply
	}
	return g
}
