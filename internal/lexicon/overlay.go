package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition es la forma cruda (serializable) de un lexico.
type Definition struct {
	CrisisPhrases       []string              `yaml:"crisis_phrases"`
	CrisisScript        string                `yaml:"crisis_script"`
	Banks               map[Category][]string `yaml:"banks"`
	Patterns            []PatternDefinition   `yaml:"patterns"`
	AffirmativePatterns []string              `yaml:"affirmative_patterns"`
	CopingFollowUps     []string              `yaml:"coping_follow_ups"`
	ResourceOffers      []string              `yaml:"resource_offers"`
}

// PatternDefinition declara las expresiones de una categoria.
type PatternDefinition struct {
	Category    Category `yaml:"category"`
	Expressions []string `yaml:"expressions"`
}

// LoadOverlay lee un YAML y lo aplica sobre la definicion incorporada.
// Un path vacio devuelve el lexico por defecto.
func LoadOverlay(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon overlay: %w", err)
	}
	return ParseOverlay(raw)
}

// ParseOverlay aplica un overlay YAML sobre la definicion incorporada:
//   - crisis_phrases se agregan a las existentes
//   - crisis_script, coping_follow_ups, resource_offers y affirmative_patterns reemplazan si no estan vacios
//   - banks reemplaza el banco de cada categoria presente
//   - patterns extiende la categoria si ya existe; si no, se agrega al final de la tabla
func ParseOverlay(raw []byte) (*Lexicon, error) {
	var overlay Definition
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("decode lexicon overlay: %w", err)
	}
	return New(Merge(DefaultDefinition(), overlay))
}

// Merge combina base y overlay sin mutar ninguna de las dos.
func Merge(base, overlay Definition) Definition {
	out := Definition{
		CrisisPhrases:       append(append([]string{}, base.CrisisPhrases...), overlay.CrisisPhrases...),
		CrisisScript:        base.CrisisScript,
		Banks:               make(map[Category][]string, len(base.Banks)+len(overlay.Banks)),
		AffirmativePatterns: base.AffirmativePatterns,
		CopingFollowUps:     base.CopingFollowUps,
		ResourceOffers:      base.ResourceOffers,
	}
	if overlay.CrisisScript != "" {
		out.CrisisScript = overlay.CrisisScript
	}
	if len(overlay.AffirmativePatterns) > 0 {
		out.AffirmativePatterns = overlay.AffirmativePatterns
	}
	if len(overlay.CopingFollowUps) > 0 {
		out.CopingFollowUps = overlay.CopingFollowUps
	}
	if len(overlay.ResourceOffers) > 0 {
		out.ResourceOffers = overlay.ResourceOffers
	}

	for cat, bank := range base.Banks {
		out.Banks[cat] = bank
	}
	for cat, bank := range overlay.Banks {
		out.Banks[cat] = bank
	}

	out.Patterns = make([]PatternDefinition, 0, len(base.Patterns)+len(overlay.Patterns))
	index := make(map[Category]int, len(base.Patterns))
	for _, pd := range base.Patterns {
		index[pd.Category] = len(out.Patterns)
		out.Patterns = append(out.Patterns, PatternDefinition{
			Category:    pd.Category,
			Expressions: append([]string{}, pd.Expressions...),
		})
	}
	for _, pd := range overlay.Patterns {
		if i, ok := index[pd.Category]; ok {
			out.Patterns[i].Expressions = append(out.Patterns[i].Expressions, pd.Expressions...)
			continue
		}
		index[pd.Category] = len(out.Patterns)
		out.Patterns = append(out.Patterns, PatternDefinition{
			Category:    pd.Category,
			Expressions: append([]string{}, pd.Expressions...),
		})
	}
	return out
}
