package chatbot

import "mindcare-bot/internal/lexicon"

// DialogueContext es el estado de conversacion entre turnos.
// Es un valor: se recibe y se devuelve, nunca se comparte.
type DialogueContext struct {
	LastUserIntent lexicon.Category `json:"last_user_intent"`
	LastBotIntent  lexicon.Category `json:"last_bot_intent"`
	TurnCount      int              `json:"turn_count"`
}

func (dc DialogueContext) withIntents(user, bot lexicon.Category) DialogueContext {
	dc.LastUserIntent = user
	dc.LastBotIntent = bot
	return dc
}

// IsZero indica si no hubo ningun turno todavia.
func (dc DialogueContext) IsZero() bool {
	return dc == DialogueContext{}
}
