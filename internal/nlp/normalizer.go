package nlp

import (
	"regexp"
	"strings"
)

// Normalizer transforma texto crudo en la forma contra la que se escriben los patrones.
type Normalizer interface {
	Normalize(text string) string
}

// Vocabulary expone las palabras que ningun paso de normalizacion puede eliminar.
type Vocabulary interface {
	InVocabulary(word string) bool
}

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// tokenize pasa a minusculas, elimina puntuacion y separa por espacios.
func tokenize(text string) []string {
	return strings.Fields(reNonWord.ReplaceAllString(strings.ToLower(text), ""))
}

// BasicNormalizer solo aplica minusculas y limpieza de puntuacion.
type BasicNormalizer struct{}

func (BasicNormalizer) Normalize(text string) string {
	return strings.Join(tokenize(text), " ")
}

// LinguisticNormalizer ademas lematiza y descarta stopwords.
type LinguisticNormalizer struct {
	stopwords map[string]struct{}
	lemmas    map[string]string
	protected Vocabulary
}

// NewLinguisticNormalizer construye el normalizador completo. protected puede ser nil.
func NewLinguisticNormalizer(res *Resources, protected Vocabulary) *LinguisticNormalizer {
	n := &LinguisticNormalizer{
		stopwords: make(map[string]struct{}),
		lemmas:    make(map[string]string),
		protected: protected,
	}
	if res == nil {
		return n
	}
	for _, w := range res.Stopwords {
		n.stopwords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for k, v := range res.Lemmas {
		n.lemmas[strings.ToLower(k)] = strings.ToLower(v)
	}
	return n
}

func (n *LinguisticNormalizer) Normalize(text string) string {
	tokens := tokenize(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if n.isProtected(tok) {
			out = append(out, tok)
			continue
		}
		if _, stop := n.stopwords[tok]; stop {
			continue
		}
		if lemma, ok := n.lemmas[tok]; ok {
			tok = lemma
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func (n *LinguisticNormalizer) isProtected(tok string) bool {
	return n.protected != nil && n.protected.InVocabulary(tok)
}

// NewNormalizer elige la implementacion segun la disponibilidad de recursos.
func NewNormalizer(res *Resources, protected Vocabulary) Normalizer {
	if res == nil {
		return BasicNormalizer{}
	}
	return NewLinguisticNormalizer(res, protected)
}
