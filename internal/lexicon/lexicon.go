package lexicon

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category identifica la clase emocional/tematica de un mensaje.
// La categoria vacia significa "desconocida".
type Category string

const (
	CategoryNone                  Category = ""
	CategoryGreeting              Category = "greeting"
	CategoryAnxiety               Category = "anxiety"
	CategoryDepression            Category = "depression"
	CategoryStress                Category = "stress"
	CategoryLoneliness            Category = "loneliness"
	CategoryAnger                 Category = "anger"
	CategoryGrief                 Category = "grief"
	CategorySelfEsteem            Category = "self_esteem"
	CategorySleepIssues           Category = "sleep_issues"
	CategoryCopingStrategy        Category = "coping_strategy"
	CategorySeekingResources      Category = "seeking_resources"
	CategoryPositive              Category = "positive"
	CategoryNeutralInquiry        Category = "neutral_inquiry"
	CategoryUncertain             Category = "uncertain"
	CategoryGeneralSupport        Category = "general_support"
	CategoryAffirmation           Category = "affirmation"
	CategoryProactiveOfferSupport Category = "proactive_offer_support"
	CategoryGratitude             Category = "gratitude"
	CategoryHowAreYou             Category = "how_are_you_question"
	CategoryGoodbye               Category = "goodbye"

	// Etiquetas que solo viven en el contexto de dialogo (no tienen banco propio).
	CategoryCrisis                   Category = "crisis"
	CategoryNegativeSentiment        Category = "negative_sentiment"
	CategoryPositiveSentiment        Category = "positive_sentiment"
	CategoryProvidingResourcesDetail Category = "providing_resources_detail"
)

// requiredBanks son las categorias que el selector usa en ramas fijas.
var requiredBanks = []Category{
	CategoryHowAreYou,
	CategoryGratitude,
	CategoryGoodbye,
	CategoryGeneralSupport,
	CategoryDepression,
	CategoryAnxiety,
	CategoryStress,
	CategoryPositive,
	CategoryNeutralInquiry,
	CategoryUncertain,
}

var (
	ErrNoCrisisPhrases   = errors.New("lexicon: crisis lexicon is empty")
	ErrCrisisScript      = errors.New("lexicon: crisis script must reference the 988 hotline")
	ErrMissingBank       = errors.New("lexicon: missing response bank")
	ErrInvalidPattern    = errors.New("lexicon: invalid pattern")
	ErrMissingFollowUps  = errors.New("lexicon: contextual follow-up set is empty")
	ErrDuplicatePatterns = errors.New("lexicon: category declared twice in pattern table")
)

// CategoryPatterns agrupa los matchers de una categoria en orden de prueba.
type CategoryPatterns struct {
	Category Category
	Patterns []*regexp.Regexp
}

// Matches indica si algun patron de la categoria matchea el texto normalizado.
func (cp CategoryPatterns) Matches(normalized string) bool {
	for _, re := range cp.Patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// Lexicon es la configuracion inmutable del motor: crisis, bancos y patrones.
// Se construye una sola vez al arrancar y se comparte por puntero; ningun metodo lo muta.
type Lexicon struct {
	crisisPhrases   []string
	crisisScript    string
	banks           map[Category][]string
	howAreYou       CategoryPatterns
	patterns        []CategoryPatterns
	affirmative     []*regexp.Regexp
	copingFollowUps []string
	resourceOffers  []string
	vocabulary      map[string]struct{}
}

// New compila y valida una definicion.
func New(def Definition) (*Lexicon, error) {
	l := &Lexicon{
		crisisScript:    def.CrisisScript,
		banks:           make(map[Category][]string, len(def.Banks)),
		copingFollowUps: cleanList(def.CopingFollowUps),
		resourceOffers:  cleanList(def.ResourceOffers),
		vocabulary:      make(map[string]struct{}),
	}

	for _, p := range def.CrisisPhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			l.crisisPhrases = append(l.crisisPhrases, p)
		}
	}

	for cat, responses := range def.Banks {
		if cleaned := cleanList(responses); len(cleaned) > 0 {
			l.banks[cat] = cleaned
		}
	}

	seen := make(map[Category]bool, len(def.Patterns))
	for _, pd := range def.Patterns {
		if seen[pd.Category] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePatterns, pd.Category)
		}
		seen[pd.Category] = true

		compiled, err := l.compile(pd.Expressions)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", pd.Category, err)
		}
		cp := CategoryPatterns{Category: pd.Category, Patterns: compiled}
		if pd.Category == CategoryHowAreYou {
			l.howAreYou = cp
			continue
		}
		l.patterns = append(l.patterns, cp)
	}

	affirmative, err := l.compile(def.AffirmativePatterns)
	if err != nil {
		return nil, fmt.Errorf("affirmative patterns: %w", err)
	}
	l.affirmative = affirmative

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lexicon) compile(expressions []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(expressions))
	for _, expr := range expressions {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, expr, err)
		}
		out = append(out, re)
		for _, w := range patternWords(expr) {
			l.vocabulary[w] = struct{}{}
		}
	}
	return out, nil
}

// Validate verifica los invariantes del lexico.
func (l *Lexicon) Validate() error {
	if len(l.crisisPhrases) == 0 {
		return ErrNoCrisisPhrases
	}
	if !strings.Contains(l.crisisScript, "988") {
		return ErrCrisisScript
	}
	for _, cat := range requiredBanks {
		if len(l.banks[cat]) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingBank, cat)
		}
	}
	if len(l.howAreYou.Patterns) > 0 && len(l.banks[CategoryHowAreYou]) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingBank, CategoryHowAreYou)
	}
	for _, cp := range l.patterns {
		if len(l.banks[cp.Category]) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingBank, cp.Category)
		}
	}
	if len(l.copingFollowUps) == 0 || len(l.resourceOffers) == 0 {
		return ErrMissingFollowUps
	}
	return nil
}

// CrisisPhrases devuelve las frases de crisis (solo lectura).
func (l *Lexicon) CrisisPhrases() []string { return l.crisisPhrases }

// CrisisScript devuelve el texto fijo de intervencion en crisis.
func (l *Lexicon) CrisisScript() string { return l.crisisScript }

// Bank devuelve el banco de respuestas de una categoria (solo lectura).
func (l *Lexicon) Bank(cat Category) []string { return l.banks[cat] }

// HasBank indica si la categoria tiene respuestas.
func (l *Lexicon) HasBank(cat Category) bool { return len(l.banks[cat]) > 0 }

// Union concatena los bancos indicados en el orden dado.
func (l *Lexicon) Union(cats ...Category) []string {
	var out []string
	for _, c := range cats {
		out = append(out, l.banks[c]...)
	}
	return out
}

// HowAreYouPatterns se prueban antes que cualquier otra categoria.
func (l *Lexicon) HowAreYouPatterns() CategoryPatterns { return l.howAreYou }

// Patterns devuelve la tabla ordenada, sin how_are_you_question.
func (l *Lexicon) Patterns() []CategoryPatterns { return l.patterns }

// AffirmativePatterns reconocen un "si" explicito tras ofrecer recursos.
func (l *Lexicon) AffirmativePatterns() []*regexp.Regexp { return l.affirmative }

// CopingFollowUps son las respuestas de animo tras una estrategia de afrontamiento.
func (l *Lexicon) CopingFollowUps() []string { return l.copingFollowUps }

// ResourceOffers son las respuestas que detallan recursos tras una confirmacion.
func (l *Lexicon) ResourceOffers() []string { return l.resourceOffers }

// InVocabulary indica si la palabra aparece literalmente en algun patron.
// El normalizador no la descarta ni la lematiza.
func (l *Lexicon) InVocabulary(word string) bool {
	_, ok := l.vocabulary[word]
	return ok
}

// Vocabulary devuelve una copia del vocabulario de patrones.
func (l *Lexicon) Vocabulary() map[string]struct{} {
	out := make(map[string]struct{}, len(l.vocabulary))
	for w := range l.vocabulary {
		out[w] = struct{}{}
	}
	return out
}

// Categories lista las categorias con banco, util para diagnostico.
func (l *Lexicon) Categories() []Category {
	out := make([]Category, 0, len(l.banks))
	for c := range l.banks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var (
	reEscape   = regexp.MustCompile(`\\[a-zA-Z]`)
	reWordRuns = regexp.MustCompile(`[a-z0-9]+`)
)

// patternWords extrae las palabras literales de una expresion (\b y similares se ignoran).
func patternWords(expr string) []string {
	cleaned := reEscape.ReplaceAllString(strings.ToLower(expr), " ")
	return reWordRuns.FindAllString(cleaned, -1)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
