package chatbot

import (
	"strings"

	"mindcare-bot/internal/lexicon"
)

// CrisisDetector busca frases de crisis como substrings del mensaje en minusculas.
// Es puro: mismo input, mismo resultado.
type CrisisDetector struct {
	phrases []string
}

func NewCrisisDetector(lex *lexicon.Lexicon) *CrisisDetector {
	return &CrisisDetector{phrases: lex.CrisisPhrases()}
}

func (d *CrisisDetector) Detect(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range d.phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
