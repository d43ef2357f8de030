package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mindcare-bot/internal/app"
	"mindcare-bot/internal/chatbot"
	"mindcare-bot/internal/lexicon"
)

// Scenario es una conversacion guionada con expectativas por turno.
type Scenario struct {
	Name  string         `yaml:"name"`
	Turns []ScenarioTurn `yaml:"turns"`
}

// ScenarioTurn describe un mensaje y lo que se espera de la respuesta.
// Los campos vacios no se verifican.
type ScenarioTurn struct {
	Input    string `yaml:"input"`
	Crisis   *bool  `yaml:"crisis,omitempty"`
	Route    string `yaml:"route,omitempty"`
	Branch   string `yaml:"branch,omitempty"`
	Category string `yaml:"category,omitempty"`
	// BankOf exige que la respuesta salga del banco indicado.
	BankOf string `yaml:"bank_of,omitempty"`
}

type scenarioResult struct {
	Name     string
	Failures []string
}

func (r scenarioResult) Passed() bool { return len(r.Failures) == 0 }

func boolPtr(b bool) *bool { return &b }

func defaultScenarios() []Scenario {
	return []Scenario{
		{Name: "crisis corta el flujo", Turns: []ScenarioTurn{
			{Input: "I want to kill myself", Crisis: boolPtr(true), Route: string(chatbot.RouteCrisis)},
		}},
		{Name: "ansiedad por reglas", Turns: []ScenarioTurn{
			{Input: "I feel so anxious about everything", Crisis: boolPtr(false), Branch: string(chatbot.BranchIntent), Category: string(lexicon.CategoryAnxiety), BankOf: string(lexicon.CategoryAnxiety)},
		}},
		{Name: "seguimiento de estrategias", Turns: []ScenarioTurn{
			{Input: "what are some strategies to cope", Category: string(lexicon.CategoryCopingStrategy)},
			{Input: "you're right", Branch: string(chatbot.BranchCopingFollowUp)},
		}},
		{Name: "oferta de recursos", Turns: []ScenarioTurn{
			{Input: "can you help me find a therapist", Category: string(lexicon.CategorySeekingResources)},
			{Input: "yes please", Branch: string(chatbot.BranchResourceOffer)},
		}},
		{Name: "gratitud repetida", Turns: []ScenarioTurn{
			{Input: "thank you", Branch: string(chatbot.BranchGratitude)},
			{Input: "thanks so much", Branch: string(chatbot.BranchRepeatedGratitude)},
		}},
		{Name: "pregunta como estas", Turns: []ScenarioTurn{
			{Input: "how are you?", Branch: string(chatbot.BranchHowAreYou)},
		}},
		{Name: "despedida", Turns: []ScenarioTurn{
			{Input: "goodbye", Branch: string(chatbot.BranchGoodbye)},
		}},
	}
}

// loadScenarios lee un archivo YAML con una lista de escenarios.
func loadScenarios(path string) ([]Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var scenarios []Scenario
	if err := yaml.Unmarshal(raw, &scenarios); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	for i, sc := range scenarios {
		if len(sc.Turns) == 0 {
			return nil, fmt.Errorf("scenario %d (%s) has no turns", i+1, sc.Name)
		}
	}
	return scenarios, nil
}

func runScenario(ctx context.Context, orch *chatbot.Orchestrator, lex *lexicon.Lexicon, sc Scenario) scenarioResult {
	bot := chatbot.New(orch)
	result := scenarioResult{Name: sc.Name}
	for i, turn := range sc.Turns {
		res := bot.Respond(ctx, turn.Input)
		fail := func(format string, args ...any) {
			result.Failures = append(result.Failures, fmt.Sprintf("turn %d %q: ", i+1, turn.Input)+fmt.Sprintf(format, args...))
		}
		if strings.TrimSpace(res.Message) == "" {
			fail("empty reply")
		}
		if turn.Crisis != nil && res.IsCrisis != *turn.Crisis {
			fail("crisis=%t, want %t", res.IsCrisis, *turn.Crisis)
		}
		if turn.Route != "" && string(res.Route) != turn.Route {
			fail("route=%s, want %s", res.Route, turn.Route)
		}
		if turn.Branch != "" && string(res.Branch) != turn.Branch {
			fail("branch=%s, want %s", res.Branch, turn.Branch)
		}
		if turn.Category != "" && string(res.Category) != turn.Category {
			fail("category=%s, want %s", res.Category, turn.Category)
		}
		if turn.BankOf != "" && !contains(lex.Bank(lexicon.Category(turn.BankOf)), res.Message) {
			fail("reply not in %s bank: %q", turn.BankOf, res.Message)
		}
	}
	return result
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func newScenariosCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Replay scripted conversations against the rule engine",
		Long: `Run scripted conversations and report which expectations hold. The external
model is always disabled here so results only depend on the lexicon.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnv()
			if err != nil {
				return err
			}
			cfg.LLMAPIKey = ""
			if cfg.ResponseRandomSeed == 0 {
				cfg.ResponseRandomSeed = 1
			}
			logger := opts.logger()
			defer logger.Sync()

			scenarios := defaultScenarios()
			if file != "" {
				if scenarios, err = loadScenarios(file); err != nil {
					return err
				}
			}
			engine, err := app.BuildEngine(cfg, logger, nil)
			if err != nil {
				return err
			}
			failed := reportScenarios(cmd.Context(), cmd.OutOrStdout(), engine, scenarios)
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with scenarios (defaults to the built-in set)")
	return cmd
}

func reportScenarios(ctx context.Context, out io.Writer, engine *app.Engine, scenarios []Scenario) int {
	if ctx == nil {
		ctx = context.Background()
	}
	failed := 0
	for _, sc := range scenarios {
		res := runScenario(ctx, engine.Orchestrator, engine.Lexicon, sc)
		if res.Passed() {
			fmt.Fprintf(out, "%sPASS%s %s\n", colorGreen, colorReset, res.Name)
			continue
		}
		failed++
		fmt.Fprintf(out, "%sFAIL%s %s\n", colorYellow, colorReset, res.Name)
		for _, f := range res.Failures {
			fmt.Fprintf(out, "     %s\n", f)
		}
	}
	fmt.Fprintf(out, "==== %d/%d passed ====\n", len(scenarios)-failed, len(scenarios))
	return failed
}
