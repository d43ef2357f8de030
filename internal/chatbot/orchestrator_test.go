package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"mindcare-bot/internal/domain"
	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/llm"
	"mindcare-bot/internal/nlp"
)

type blockingAdapter struct{}

func (blockingAdapter) Complete(ctx context.Context, _ string, _ []domain.ConversationTurn) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type panicAdapter struct{}

func (panicAdapter) Complete(context.Context, string, []domain.ConversationTurn) (string, error) {
	panic("adapter exploded")
}

type panicScorer struct{}

func (panicScorer) Score(string) float64 { panic("scorer exploded") }

type fakeRecorder struct {
	mu        sync.Mutex
	routes    []string
	fallbacks []string
	crises    int
	latencies int
}

func (r *fakeRecorder) ObserveResponse(route, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *fakeRecorder) ObserveFallback(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, reason)
}

func (r *fakeRecorder) ObserveCrisis() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crises++
}

func (r *fakeRecorder) ObserveModelLatency(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies++
}

func newTestOrchestrator(adapter ModelAdapter, scorer Scorer, rec Recorder) *Orchestrator {
	lex := lexicon.Default()
	if scorer == nil {
		scorer = nlp.NewSentimentScorer(nlp.NewLexiconEstimator(nlp.MustDefaultResources()), nil)
	}
	cfg := Config{
		Lexicon:  lex,
		Scorer:   scorer,
		Selector: NewSelector(lex, nlp.NewNormalizer(nlp.MustDefaultResources(), lex), nil),
		Timeout:  50 * time.Millisecond,
		Recorder: rec,
	}
	if adapter != nil {
		cfg.Adapter = adapter
	}
	return NewOrchestrator(cfg)
}

func TestGenerateResponse_Crisis(t *testing.T) {
	mock := &llm.MockClient{Response: "model reply"}
	rec := &fakeRecorder{}
	o := newTestOrchestrator(mock, nil, rec)

	res, dc := o.GenerateResponse(context.Background(), "I want to kill myself", nil, DialogueContext{LastBotIntent: lexicon.CategoryAnxiety})
	if !res.IsCrisis {
		t.Fatalf("expected crisis")
	}
	if !strings.Contains(res.Message, "988") {
		t.Fatalf("expected 988 in crisis message")
	}
	if len(res.Resources) == 0 {
		t.Fatalf("expected crisis resources")
	}
	if res.Route != RouteCrisis {
		t.Fatalf("expected crisis route, got %s", res.Route)
	}
	if mock.Calls != 0 {
		t.Fatalf("adapter must not run on crisis")
	}
	if dc.LastUserIntent != lexicon.CategoryCrisis || dc.TurnCount != 1 {
		t.Fatalf("unexpected context: %+v", dc)
	}
	if rec.crises != 1 {
		t.Fatalf("expected crisis to be recorded")
	}
	if res.Sentiment != nil {
		t.Fatalf("expected no sentiment on crisis")
	}
	if !o.DetectCrisis("I want to kill myself") || o.DetectCrisis("I feel a bit tired") {
		t.Fatalf("DetectCrisis should match the detector")
	}
}

func TestGenerateResponse_CrisisSurvivesBrokenScorer(t *testing.T) {
	o := newTestOrchestrator(nil, panicScorer{}, nil)
	res, _ := o.GenerateResponse(context.Background(), "i want to end my life", nil, DialogueContext{})
	if !res.IsCrisis || !strings.Contains(res.Message, "988") {
		t.Fatalf("crisis must be delivered even when the scorer fails: %+v", res)
	}
	if res.Sentiment != nil {
		t.Fatalf("crisis payload must not carry a sentiment, got %v", *res.Sentiment)
	}
}

func TestGenerateResponse_RulesWithoutAdapter(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)
	lex := lexicon.Default()

	res, dc := o.GenerateResponse(context.Background(), "I'm feeling anxious about my exam", nil, DialogueContext{})
	if res.IsCrisis {
		t.Fatalf("unexpected crisis")
	}
	if res.Category != lexicon.CategoryAnxiety {
		t.Fatalf("expected anxiety, got %q", res.Category)
	}
	if !contains(lex.Bank(lexicon.CategoryAnxiety), res.Message) {
		t.Fatalf("expected anxiety bank response, got %q", res.Message)
	}
	if res.Warning != "" || res.Error != "" {
		t.Fatalf("unexpected warning/error: %+v", res)
	}
	if res.Sentiment == nil {
		t.Fatalf("expected sentiment")
	}
	if dc.TurnCount != 1 || dc.LastBotIntent != lexicon.CategoryAnxiety {
		t.Fatalf("unexpected context: %+v", dc)
	}
}

func TestGenerateResponse_ModelSuccess(t *testing.T) {
	mock := &llm.MockClient{Response: "  It sounds hard. I'm here.  "}
	o := newTestOrchestrator(mock, nil, nil)
	history := []domain.ConversationTurn{{Role: domain.TurnRoleUser, Content: "hola"}}

	res, dc := o.GenerateResponse(context.Background(), "I had a terrible day", history,
		DialogueContext{LastUserIntent: lexicon.CategoryStress, LastBotIntent: lexicon.CategoryStress, TurnCount: 4})
	if res.Route != RouteModel || res.Message != "It sounds hard. I'm here." {
		t.Fatalf("unexpected model result: %+v", res)
	}
	if res.Sentiment == nil || *res.Sentiment >= 0 {
		t.Fatalf("expected negative sentiment computed from the user message")
	}
	if dc.LastUserIntent != lexicon.CategoryNone || dc.LastBotIntent != lexicon.CategoryNone || dc.TurnCount != 5 {
		t.Fatalf("model path must clear intents: %+v", dc)
	}
	if mock.LastMessage != "I had a terrible day" || len(mock.LastHistory) != 1 {
		t.Fatalf("adapter received unexpected input")
	}
}

func TestGenerateResponse_AdapterFailures(t *testing.T) {
	cases := []struct {
		name    string
		adapter ModelAdapter
		warning string
		reason  string
	}{
		{"auth", &llm.MockClient{Err: fmt.Errorf("%w: status=401", llm.ErrAuth)}, WarningAuth, FallbackAuth},
		{"service", &llm.MockClient{Err: fmt.Errorf("%w: status=500", llm.ErrService)}, WarningService, FallbackService},
		{"respuesta vacia", &llm.MockClient{Response: "   "}, WarningService, FallbackService},
		{"timeout", blockingAdapter{}, WarningService, FallbackService},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			o := newTestOrchestrator(c.adapter, nil, rec)
			res, _ := o.GenerateResponse(context.Background(), "I'm feeling anxious about my exam", nil, DialogueContext{})
			if res.Warning != c.warning {
				t.Fatalf("expected warning %q, got %q", c.warning, res.Warning)
			}
			if res.IsCrisis || res.Message == "" || res.Route != RouteRules {
				t.Fatalf("expected rule-based fallback, got %+v", res)
			}
			if len(rec.fallbacks) != 1 || rec.fallbacks[0] != c.reason {
				t.Fatalf("expected fallback %s, got %v", c.reason, rec.fallbacks)
			}
		})
	}
}

func TestGenerateResponse_UnexpectedFailures(t *testing.T) {
	cases := []struct {
		name    string
		adapter ModelAdapter
		scorer  Scorer
	}{
		{"error no clasificado", &llm.MockClient{Err: errors.New("boom")}, nil},
		{"panic del adaptador", panicAdapter{}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := newTestOrchestrator(c.adapter, c.scorer, nil)
			in := DialogueContext{LastBotIntent: lexicon.CategoryGrief}
			res, dc := o.GenerateResponse(context.Background(), "hello there", nil, in)
			if res.Message != SafeReply {
				t.Fatalf("expected safe reply, got %q", res.Message)
			}
			if res.Error == "" || res.IsCrisis || res.Route != RouteSafe {
				t.Fatalf("unexpected result: %+v", res)
			}
			if res.Sentiment == nil {
				t.Fatalf("expected best-effort sentiment")
			}
			if dc.LastBotIntent != lexicon.CategoryGrief || dc.TurnCount != 1 {
				t.Fatalf("safe path must only advance the turn: %+v", dc)
			}
		})
	}
}

func TestGenerateResponse_AlwaysNonEmpty(t *testing.T) {
	adapters := map[string]ModelAdapter{
		"sin adaptador": nil,
		"auth":          &llm.MockClient{Err: llm.ErrAuth},
		"panic":         panicAdapter{},
	}
	scorers := map[string]Scorer{
		"lexico":           nil,
		"estimador rompe":  nlp.NewSentimentScorer(panicEstimator{}, nil),
		"scorer en panico": panicScorer{},
	}
	inputs := []string{"", "   ", "hello", "thank you", "I can't sleep", "I want to die", "!!!", strings.Repeat("a", 5000)}

	for an, adapter := range adapters {
		for sn, scorer := range scorers {
			o := newTestOrchestrator(adapter, scorer, nil)
			for _, in := range inputs {
				res, _ := o.GenerateResponse(context.Background(), in, nil, DialogueContext{})
				if res.Message == "" {
					t.Fatalf("%s/%s: empty message for %q", an, sn, in)
				}
				if res.Sentiment != nil && (*res.Sentiment < -1 || *res.Sentiment > 1) {
					t.Fatalf("%s/%s: sentiment out of range for %q", an, sn, in)
				}
			}
		}
	}
}

type panicEstimator struct{}

func (panicEstimator) Polarity(string) (float64, error) { panic("estimator exploded") }

func TestChatbot_GratitudeTwice(t *testing.T) {
	bot := New(newTestOrchestrator(nil, nil, nil))
	lex := lexicon.Default()

	first := bot.Respond(context.Background(), "thank you")
	if first.Branch != BranchGratitude {
		t.Fatalf("expected gratitude branch, got %s", first.Branch)
	}
	second := bot.Respond(context.Background(), "thanks again")
	if second.Branch != BranchRepeatedGratitude {
		t.Fatalf("expected repeated gratitude branch, got %s", second.Branch)
	}
	if !contains(lex.Bank(lexicon.CategoryGratitude), second.Message) {
		t.Fatalf("expected gratitude bank response")
	}
	if dc := bot.Context(); dc.LastBotIntent != lexicon.CategoryGratitude || dc.TurnCount != 2 {
		t.Fatalf("unexpected context: %+v", dc)
	}

	bot.Reset()
	if !bot.Context().IsZero() {
		t.Fatalf("expected reset context")
	}
}

func TestChatbot_PassesHistoryToAdapter(t *testing.T) {
	mock := &llm.MockClient{Response: "ok"}
	bot := New(newTestOrchestrator(mock, nil, nil))

	for i := 0; i < 15; i++ {
		bot.Respond(context.Background(), fmt.Sprintf("message %d", i))
	}
	if len(mock.LastHistory) != historyWindow {
		t.Fatalf("expected history bounded to %d, got %d", historyWindow, len(mock.LastHistory))
	}
	last := mock.LastHistory[len(mock.LastHistory)-1]
	if last.Role != domain.TurnRoleAssistant || last.Content != "ok" {
		t.Fatalf("expected last turn to be the previous bot reply, got %+v", last)
	}
}

func TestChatbot_ResourceFlow(t *testing.T) {
	bot := New(newTestOrchestrator(nil, nil, nil))
	lex := lexicon.Default()

	first := bot.Respond(context.Background(), "Can you help me find a therapist?")
	if first.Category != lexicon.CategorySeekingResources {
		t.Fatalf("expected seeking_resources, got %q", first.Category)
	}
	second := bot.Respond(context.Background(), "yes please")
	if second.Branch != BranchResourceOffer || !contains(lex.ResourceOffers(), second.Message) {
		t.Fatalf("expected resource offer, got %+v", second)
	}
}
