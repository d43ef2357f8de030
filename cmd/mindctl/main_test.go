package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mindcare-bot/internal/app"
	"mindcare-bot/internal/chatbot"
	"mindcare-bot/internal/config"
	"mindcare-bot/internal/service"
)

func newTestEngine(t *testing.T) *app.Engine {
	t.Helper()
	engine, err := app.BuildEngine(&config.Config{ResponseRandomSeed: 1}, nil, nil)
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return engine
}

func TestDefaultScenariosPass(t *testing.T) {
	engine := newTestEngine(t)
	for _, sc := range defaultScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			res := runScenario(context.Background(), engine.Orchestrator, engine.Lexicon, sc)
			if !res.Passed() {
				t.Fatalf("scenario failed: %v", res.Failures)
			}
		})
	}
}

func TestRunScenario_ReportsMismatch(t *testing.T) {
	engine := newTestEngine(t)
	sc := Scenario{Name: "esperado incorrecto", Turns: []ScenarioTurn{
		{Input: "I want to kill myself", Crisis: boolPtr(false), Branch: string(chatbot.BranchGoodbye)},
	}}
	res := runScenario(context.Background(), engine.Orchestrator, engine.Lexicon, sc)
	if res.Passed() || len(res.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %v", res.Failures)
	}
}

func TestReportScenarios(t *testing.T) {
	engine := newTestEngine(t)
	var out bytes.Buffer
	failed := reportScenarios(context.Background(), &out, engine, []Scenario{
		{Name: "ok", Turns: []ScenarioTurn{{Input: "goodbye", Branch: string(chatbot.BranchGoodbye)}}},
		{Name: "mal", Turns: []ScenarioTurn{{Input: "goodbye", Branch: string(chatbot.BranchGratitude)}}},
	})
	if failed != 1 {
		t.Fatalf("expected 1 failure, got %d", failed)
	}
	if !strings.Contains(out.String(), "1/2 passed") {
		t.Fatalf("unexpected report: %s", out.String())
	}
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()

	t.Run("archivo valido", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yaml")
		raw := "- name: saludo\n  turns:\n    - input: hello\n      crisis: false\n"
		if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		scenarios, err := loadScenarios(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(scenarios) != 1 || scenarios[0].Turns[0].Crisis == nil || *scenarios[0].Turns[0].Crisis {
			t.Fatalf("unexpected scenarios: %+v", scenarios)
		}
	})

	t.Run("escenario sin turnos", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		if err := os.WriteFile(path, []byte("- name: vacio\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := loadScenarios(path); err == nil {
			t.Fatalf("expected error for scenario without turns")
		}
	})
}

func TestRunChat(t *testing.T) {
	engine := newTestEngine(t)
	bot := chatbot.New(engine.Orchestrator)
	in := strings.NewReader("I want to end my life\nreset\n\nquit\n")
	var out bytes.Buffer

	if err := runChat(context.Background(), in, &out, bot, true); err != nil {
		t.Fatalf("run chat: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "988") {
		t.Fatalf("expected crisis script in output: %s", text)
	}
	if !strings.Contains(text, "crisis=true") || !strings.Contains(text, "Conversation reset.") {
		t.Fatalf("expected meta line and reset notice: %s", text)
	}
	if !bot.Context().IsZero() {
		t.Fatalf("expected context cleared by reset")
	}
}

func TestLexiconCheckCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	if err := os.WriteFile(path, []byte("crisis_phrases:\n  - no way out\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"lexicon", "check", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "is valid") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestTokenCommand(t *testing.T) {
	t.Run("sin secreto", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"token"})
		if err := cmd.Execute(); err == nil {
			t.Fatalf("expected error without JWT_SECRET")
		}
	})

	t.Run("emite token valido", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "dev-secret")
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"token", "--user", "u-1", "--name", "Ana"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("execute: %v", err)
		}
		var got struct {
			UserID      string `json:"user_id"`
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("decode output: %v (%s)", err, out.String())
		}
		if got.UserID != "u-1" || got.AccessToken == "" {
			t.Fatalf("unexpected output: %+v", got)
		}

		svc := service.NewJWTService("dev-secret", "mindcare-bot", "mindcare-api", 0)
		id, err := svc.ParseAccessToken(got.AccessToken)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if id.UserID != "u-1" || id.DisplayName != "Ana" {
			t.Fatalf("unexpected identity: %+v", id)
		}
	})
}
