package nlp

import (
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
)

var ErrEstimatorNotConfigured = errors.New("polarity estimator not configured")

// PolarityEstimator estima la polaridad de un texto en [-1, 1].
type PolarityEstimator interface {
	Polarity(text string) (float64, error)
}

const (
	negationFactor = -0.5
	negationWindow = 3
)

// LexiconEstimator promedia la polaridad de las palabras conocidas,
// ajustada por intensificadores y negaciones cercanas.
type LexiconEstimator struct {
	polarity     map[string]float64
	intensifiers map[string]float64
	negations    map[string]struct{}
}

// NewLexiconEstimator construye el estimador desde los recursos cargados.
func NewLexiconEstimator(res *Resources) *LexiconEstimator {
	if res == nil {
		res = MustDefaultResources()
	}
	e := &LexiconEstimator{
		polarity:     make(map[string]float64, len(res.Polarity)),
		intensifiers: make(map[string]float64, len(res.Intensifiers)),
		negations:    make(map[string]struct{}, len(res.Negations)),
	}
	for w, p := range res.Polarity {
		e.polarity[strings.ToLower(w)] = p
	}
	for w, m := range res.Intensifiers {
		e.intensifiers[strings.ToLower(w)] = m
	}
	for _, w := range res.Negations {
		e.negations[strings.ToLower(w)] = struct{}{}
	}
	return e
}

func (e *LexiconEstimator) Polarity(text string) (float64, error) {
	if e == nil {
		return 0, ErrEstimatorNotConfigured
	}
	tokens := tokenize(text)
	var (
		sum   float64
		count int
	)
	for i, tok := range tokens {
		p, ok := e.polarity[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if mult, ok := e.intensifiers[tokens[i-1]]; ok {
				p *= mult
			}
		}
		if e.negated(tokens, i) {
			p *= negationFactor
		}
		sum += clamp(p)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return clamp(sum / float64(count)), nil
}

func (e *LexiconEstimator) negated(tokens []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for _, tok := range tokens[start:i] {
		if _, ok := e.negations[tok]; ok {
			return true
		}
	}
	return false
}

// SentimentScorer envuelve un estimador y absorbe cualquier fallo devolviendo 0.0.
type SentimentScorer struct {
	estimator PolarityEstimator
	logger    *zap.Logger
}

func NewSentimentScorer(estimator PolarityEstimator, logger *zap.Logger) *SentimentScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SentimentScorer{estimator: estimator, logger: logger}
}

// Score devuelve la polaridad en [-1, 1]. Nunca falla.
func (s *SentimentScorer) Score(message string) (score float64) {
	if s == nil || s.estimator == nil || strings.TrimSpace(message) == "" {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("sentiment estimator panic", zap.Any("panic", r))
			score = 0
		}
	}()

	p, err := s.estimator.Polarity(message)
	if err != nil {
		s.logger.Warn("sentiment estimator failed", zap.Error(err))
		return 0
	}
	if math.IsNaN(p) {
		return 0
	}
	return clamp(p)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
