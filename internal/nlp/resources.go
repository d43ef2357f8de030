package nlp

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed nlp_en.yaml
var embeddedResources []byte

// ErrResourcesUnavailable indica que no hay recursos linguisticos; el llamador degrada a BasicNormalizer.
var ErrResourcesUnavailable = errors.New("nlp resources unavailable")

// ResourcesDisabled desactiva la normalizacion completa desde configuracion.
const ResourcesDisabled = "off"

// Resources agrupa stopwords, lemas y el lexico de polaridad.
type Resources struct {
	Stopwords    []string           `yaml:"stopwords"`
	Lemmas       map[string]string  `yaml:"lemmas"`
	Polarity     map[string]float64 `yaml:"polarity"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`
}

// LoadResources carga los recursos:
//   - path vacio: recursos incorporados
//   - "off": ErrResourcesUnavailable
//   - archivo inexistente: ErrResourcesUnavailable envuelto
func LoadResources(path string) (*Resources, error) {
	switch strings.TrimSpace(path) {
	case "":
		return ParseResources(embeddedResources)
	case ResourcesDisabled:
		return nil, ErrResourcesUnavailable
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourcesUnavailable, path)
		}
		return nil, fmt.Errorf("read nlp resources: %w", err)
	}
	return ParseResources(raw)
}

// ParseResources decodifica un YAML de recursos.
func ParseResources(raw []byte) (*Resources, error) {
	var res Resources
	if err := yaml.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode nlp resources: %w", err)
	}
	if len(res.Stopwords) == 0 && len(res.Lemmas) == 0 && len(res.Polarity) == 0 {
		return nil, ErrResourcesUnavailable
	}
	return &res, nil
}

// MustDefaultResources devuelve los recursos incorporados.
func MustDefaultResources() *Resources {
	res, err := ParseResources(embeddedResources)
	if err != nil {
		panic("nlp: embedded resources are invalid: " + err.Error())
	}
	return res
}
