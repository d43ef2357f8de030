package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mindcare-bot/internal/chatbot"
	"mindcare-bot/internal/config"
	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/llm"
	"mindcare-bot/internal/nlp"
)

// Engine es el motor de respuestas armado desde la configuracion.
type Engine struct {
	Lexicon      *lexicon.Lexicon
	Orchestrator *chatbot.Orchestrator
}

// BuildEngine arma lexicon, NLP, selector y adaptador de modelo.
// Sin recursos NLP el motor degrada a normalizacion basica y sentimiento neutral.
func BuildEngine(cfg *config.Config, logger *zap.Logger, recorder chatbot.Recorder) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	lex, err := lexicon.LoadOverlay(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	res, err := nlp.LoadResources(cfg.NLPResourcesPath)
	if err != nil {
		if !errors.Is(err, nlp.ErrResourcesUnavailable) {
			return nil, fmt.Errorf("load nlp resources: %w", err)
		}
		logger.Warn("nlp resources unavailable, using basic normalizer and neutral sentiment", zap.Error(err))
		res = nil
	}

	var estimator nlp.PolarityEstimator
	if res != nil {
		estimator = nlp.NewLexiconEstimator(res)
	}
	scorer := nlp.NewSentimentScorer(estimator, logger)

	var chooser chatbot.Chooser
	if cfg.ResponseRandomSeed != 0 {
		chooser = chatbot.NewSeededChooser(cfg.ResponseRandomSeed)
	}
	selector := chatbot.NewSelector(lex, nlp.NewNormalizer(res, lex), chooser)

	orchCfg := chatbot.Config{
		Lexicon:  lex,
		Scorer:   scorer,
		Selector: selector,
		Timeout:  cfg.LLMTimeout,
		Recorder: recorder,
		Logger:   logger,
	}
	if cfg.ModelEnabled() {
		orchCfg.Adapter = llm.NewHTTPClient(llm.Options{
			BaseURL:     cfg.LLMBaseURL,
			APIKey:      cfg.LLMAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			TopP:        cfg.LLMTopP,
			Timeout:     cfg.LLMTimeout,
		}, logger)
	} else {
		logger.Info("llm api key not configured, using rule-based responses")
	}

	return &Engine{
		Lexicon:      lex,
		Orchestrator: chatbot.NewOrchestrator(orchCfg),
	}, nil
}
