package chatbot

import "mindcare-bot/internal/lexicon"

// IntentClassifier resuelve la categoria de un texto ya normalizado.
type IntentClassifier struct {
	lex *lexicon.Lexicon
}

func NewIntentClassifier(lex *lexicon.Lexicon) *IntentClassifier {
	return &IntentClassifier{lex: lex}
}

// Classify prueba how_are_you_question primero y despues la tabla en orden.
// Devuelve CategoryNone si nada matchea.
func (c *IntentClassifier) Classify(normalized string) lexicon.Category {
	if c.lex.HowAreYouPatterns().Matches(normalized) {
		return lexicon.CategoryHowAreYou
	}
	for _, cp := range c.lex.Patterns() {
		if cp.Matches(normalized) {
			return cp.Category
		}
	}
	return lexicon.CategoryNone
}
