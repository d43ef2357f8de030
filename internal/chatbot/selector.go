package chatbot

import (
	"errors"
	"fmt"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/nlp"
)

var ErrEmptyBank = errors.New("response bank is empty")

const (
	negativeThreshold = -0.4
	positiveThreshold = 0.4
	neutralBand       = 0.2
)

// Branch identifica la regla del selector que produjo la respuesta.
type Branch string

const (
	BranchHowAreYou         Branch = "how_are_you"
	BranchCopingFollowUp    Branch = "coping_follow_up"
	BranchResourceOffer     Branch = "resource_offer"
	BranchRepeatedGratitude Branch = "repeated_gratitude"
	BranchGratitude         Branch = "gratitude"
	BranchGoodbye           Branch = "goodbye"
	BranchIntent            Branch = "intent"
	BranchNegative          Branch = "negative_sentiment"
	BranchPositive          Branch = "positive_sentiment"
	BranchNeutral           Branch = "neutral"
	BranchUncertain         Branch = "uncertain"
)

// Selection es el resultado completo de una seleccion.
type Selection struct {
	Reply   string
	Context DialogueContext
	Branch  Branch
	Intent  lexicon.Category
}

// Selector es el motor por reglas. No guarda estado: el contexto entra y sale por valor.
type Selector struct {
	lex        *lexicon.Lexicon
	normalizer nlp.Normalizer
	classifier *IntentClassifier
	chooser    Chooser
}

func NewSelector(lex *lexicon.Lexicon, normalizer nlp.Normalizer, chooser Chooser) *Selector {
	if normalizer == nil {
		normalizer = nlp.BasicNormalizer{}
	}
	if chooser == nil {
		chooser = DefaultChooser()
	}
	return &Selector{
		lex:        lex,
		normalizer: normalizer,
		classifier: NewIntentClassifier(lex),
		chooser:    chooser,
	}
}

// Select elige una respuesta y devuelve el contexto actualizado.
func (s *Selector) Select(message string, sentiment float64, history []domain.ConversationTurn, dc DialogueContext) (string, DialogueContext, error) {
	sel, err := s.Choose(message, sentiment, history, dc)
	if err != nil {
		return "", dc, err
	}
	return sel.Reply, sel.Context, nil
}

// Choose es Select con el detalle de la regla aplicada.
// history no cambia la decision; se acepta para mantener el contrato con el adaptador de modelo.
func (s *Selector) Choose(message string, sentiment float64, _ []domain.ConversationTurn, dc DialogueContext) (Selection, error) {
	normalized := s.normalizer.Normalize(message)
	current := s.classifier.Classify(normalized)

	if current == lexicon.CategoryHowAreYou {
		return s.fromBank(current, BranchHowAreYou, current, dc.withIntents(current, current))
	}

	if sel, ok := s.contextual(current, normalized, dc); ok {
		return sel, nil
	}

	if current != lexicon.CategoryNone {
		bankCat := current
		if !s.lex.HasBank(bankCat) {
			bankCat = lexicon.CategoryGeneralSupport
		}
		return s.fromBank(bankCat, BranchIntent, current, dc.withIntents(current, current))
	}

	return s.bySentiment(sentiment, dc)
}

func (s *Selector) contextual(current lexicon.Category, normalized string, dc DialogueContext) (Selection, bool) {
	sel := Selection{Intent: current}
	switch {
	case dc.LastBotIntent == lexicon.CategoryCopingStrategy && isOneOf(current,
		lexicon.CategoryAffirmation, lexicon.CategoryPositive, lexicon.CategoryGeneralSupport):
		sel.Reply = pick(s.chooser, s.lex.CopingFollowUps())
		sel.Context = dc.withIntents(current, lexicon.CategoryProactiveOfferSupport)
		sel.Branch = BranchCopingFollowUp

	case dc.LastBotIntent == lexicon.CategorySeekingResources && s.acceptsResources(current, normalized):
		// un "si" suelto queda registrado como afirmacion
		if current == lexicon.CategoryNone {
			sel.Intent = lexicon.CategoryAffirmation
		}
		sel.Reply = pick(s.chooser, s.lex.ResourceOffers())
		sel.Context = dc.withIntents(sel.Intent, lexicon.CategoryProvidingResourcesDetail)
		sel.Branch = BranchResourceOffer

	case dc.LastUserIntent == lexicon.CategoryGratitude && current == lexicon.CategoryGratitude:
		sel.Reply = pick(s.chooser, s.lex.Bank(lexicon.CategoryGratitude))
		sel.Context = dc.withIntents(lexicon.CategoryGratitude, lexicon.CategoryGratitude)
		sel.Branch = BranchRepeatedGratitude

	case current == lexicon.CategoryGratitude:
		sel.Reply = pick(s.chooser, s.lex.Bank(lexicon.CategoryGratitude))
		sel.Context = dc.withIntents(lexicon.CategoryGratitude, lexicon.CategoryGratitude)
		sel.Branch = BranchGratitude

	case current == lexicon.CategoryGoodbye:
		sel.Reply = pick(s.chooser, s.lex.Bank(lexicon.CategoryGoodbye))
		sel.Context = dc.withIntents(lexicon.CategoryGoodbye, lexicon.CategoryGoodbye)
		sel.Branch = BranchGoodbye

	default:
		return Selection{}, false
	}
	return sel, sel.Reply != ""
}

// acceptsResources reconoce la confirmacion tras ofrecer recursos.
// El matcher afirmativo solo se consulta cuando ninguna categoria matcheo.
func (s *Selector) acceptsResources(current lexicon.Category, normalized string) bool {
	if isOneOf(current, lexicon.CategoryAffirmation, lexicon.CategoryGeneralSupport) {
		return true
	}
	if current != lexicon.CategoryNone {
		return false
	}
	for _, re := range s.lex.AffirmativePatterns() {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

func (s *Selector) bySentiment(sentiment float64, dc DialogueContext) (Selection, error) {
	switch {
	case sentiment < negativeThreshold:
		return s.fromOptions(
			s.lex.Union(lexicon.CategoryDepression, lexicon.CategoryAnxiety, lexicon.CategoryStress, lexicon.CategoryGeneralSupport),
			BranchNegative,
			dc.withIntents(lexicon.CategoryNegativeSentiment, lexicon.CategoryGeneralSupport),
		)
	case sentiment > positiveThreshold:
		return s.fromOptions(
			s.lex.Bank(lexicon.CategoryPositive),
			BranchPositive,
			dc.withIntents(lexicon.CategoryPositiveSentiment, lexicon.CategoryPositive),
		)
	case sentiment >= -neutralBand && sentiment <= neutralBand:
		return s.fromOptions(
			s.lex.Bank(lexicon.CategoryNeutralInquiry),
			BranchNeutral,
			dc.withIntents(lexicon.CategoryNeutralInquiry, lexicon.CategoryNeutralInquiry),
		)
	default:
		return s.fromOptions(
			s.lex.Union(lexicon.CategoryGeneralSupport, lexicon.CategoryUncertain),
			BranchUncertain,
			dc.withIntents(lexicon.CategoryUncertain, lexicon.CategoryUncertain),
		)
	}
}

func (s *Selector) fromBank(cat lexicon.Category, branch Branch, intent lexicon.Category, next DialogueContext) (Selection, error) {
	sel, err := s.fromOptions(s.lex.Bank(cat), branch, next)
	if err != nil {
		return Selection{}, fmt.Errorf("category %s: %w", cat, err)
	}
	sel.Intent = intent
	return sel, nil
}

func (s *Selector) fromOptions(options []string, branch Branch, next DialogueContext) (Selection, error) {
	if len(options) == 0 {
		return Selection{}, ErrEmptyBank
	}
	return Selection{Reply: pick(s.chooser, options), Context: next, Branch: branch}, nil
}

func isOneOf(c lexicon.Category, set ...lexicon.Category) bool {
	for _, x := range set {
		if c == x {
			return true
		}
	}
	return false
}

// Greeting elige el saludo de apertura de una sesion.
func (s *Selector) Greeting() (string, error) {
	bank := s.lex.Bank(lexicon.CategoryGreeting)
	if len(bank) == 0 {
		return "", fmt.Errorf("category %s: %w", lexicon.CategoryGreeting, ErrEmptyBank)
	}
	return pick(s.chooser, bank), nil
}
