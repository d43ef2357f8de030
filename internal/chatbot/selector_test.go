package chatbot

import (
	"strings"
	"testing"

	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/nlp"
)

type firstChooser struct{}

func (firstChooser) IntN(int) int { return 0 }

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func newTestSelector() *Selector {
	lex := lexicon.Default()
	return NewSelector(lex, nlp.NewNormalizer(nlp.MustDefaultResources(), lex), DefaultChooser())
}

func TestCrisisDetector(t *testing.T) {
	d := NewCrisisDetector(lexicon.Default())

	positives := []string{
		"I want to KILL MYSELF",
		"sometimes i think about suicide",
		"I just want to end it all.",
		"Thinking of self-harm again",
		"that movie was to die for", // falso positivo conocido de "die"
	}
	for _, msg := range positives {
		if !d.Detect(msg) {
			t.Fatalf("expected crisis for %q", msg)
		}
		if d.Detect(msg) != d.Detect(msg) {
			t.Fatalf("detector must be idempotent")
		}
	}

	negatives := []string{"", "I had a long week at work", "feeling anxious about my exam", "thank you"}
	for _, msg := range negatives {
		if d.Detect(msg) {
			t.Fatalf("unexpected crisis for %q", msg)
		}
	}
}

func TestCrisisDetector_EveryPhraseAnyCase(t *testing.T) {
	lex := lexicon.Default()
	d := NewCrisisDetector(lex)
	for _, phrase := range lex.CrisisPhrases() {
		msg := "Lately " + strings.ToUpper(phrase) + " keeps coming up"
		if !d.Detect(msg) {
			t.Fatalf("expected crisis for %q", msg)
		}
	}
}

func TestIntentClassifier(t *testing.T) {
	c := NewIntentClassifier(lexicon.Default())
	n := nlp.BasicNormalizer{}

	cases := []struct {
		text string
		want lexicon.Category
	}{
		{"How are you? I feel anxious", lexicon.CategoryHowAreYou},
		{"I need coping strategies for my anxiety", lexicon.CategoryCopingStrategy},
		{"I'm feeling anxious about my exam", lexicon.CategoryAnxiety},
		{"I can't sleep", lexicon.CategorySleepIssues},
		{"thanks again", lexicon.CategoryGratitude},
		{"goodbye", lexicon.CategoryGoodbye},
		{"You're right", lexicon.CategoryAffirmation},
		{"the weather report", lexicon.CategoryNone},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			normalized := n.Normalize(tc.text)
			got := c.Classify(normalized)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if again := c.Classify(normalized); again != got {
				t.Fatalf("classification must be deterministic")
			}
		})
	}
}

func TestSelector_HowAreYou(t *testing.T) {
	s := newTestSelector()
	lex := lexicon.Default()

	reply, dc, err := s.Select("Hi, how are you?", 0, nil, DialogueContext{LastBotIntent: lexicon.CategoryCopingStrategy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !contains(lex.Bank(lexicon.CategoryHowAreYou), reply) {
		t.Fatalf("expected how_are_you response, got %q", reply)
	}
	if dc.LastUserIntent != lexicon.CategoryHowAreYou || dc.LastBotIntent != lexicon.CategoryHowAreYou {
		t.Fatalf("unexpected context: %+v", dc)
	}
}

func TestSelector_ContextualRules(t *testing.T) {
	s := newTestSelector()
	lex := lexicon.Default()

	t.Run("seguimiento de estrategia", func(t *testing.T) {
		sel, err := s.Choose("You're right", 0, nil, DialogueContext{LastBotIntent: lexicon.CategoryCopingStrategy})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchCopingFollowUp || !contains(lex.CopingFollowUps(), sel.Reply) {
			t.Fatalf("expected coping follow-up, got %+v", sel)
		}
		if sel.Context.LastBotIntent != lexicon.CategoryProactiveOfferSupport || sel.Context.LastUserIntent != lexicon.CategoryAffirmation {
			t.Fatalf("unexpected context: %+v", sel.Context)
		}
	})

	t.Run("oferta de recursos por afirmacion", func(t *testing.T) {
		sel, err := s.Choose("I understand", 0, nil, DialogueContext{LastBotIntent: lexicon.CategorySeekingResources})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchResourceOffer || !contains(lex.ResourceOffers(), sel.Reply) {
			t.Fatalf("expected resource offer, got %+v", sel)
		}
		if sel.Context.LastBotIntent != lexicon.CategoryProvidingResourcesDetail {
			t.Fatalf("unexpected context: %+v", sel.Context)
		}
	})

	t.Run("oferta de recursos por si explicito", func(t *testing.T) {
		for _, msg := range []string{"Yes please!", "yeah", "Sure.", "ok"} {
			sel, err := s.Choose(msg, 0, nil, DialogueContext{LastBotIntent: lexicon.CategorySeekingResources})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.Branch != BranchResourceOffer {
				t.Fatalf("expected resource offer for %q, got %s", msg, sel.Branch)
			}
			if sel.Context.LastUserIntent != lexicon.CategoryAffirmation || sel.Intent != lexicon.CategoryAffirmation {
				t.Fatalf("expected affirmation user intent, got %q", sel.Context.LastUserIntent)
			}
		}
	})

	t.Run("si fuera de contexto cae al sentimiento", func(t *testing.T) {
		sel, err := s.Choose("yes", 0, nil, DialogueContext{LastBotIntent: lexicon.CategoryAnxiety})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchNeutral {
			t.Fatalf("expected neutral fallback, got %s", sel.Branch)
		}
	})

	t.Run("gratitud repetida", func(t *testing.T) {
		sel, err := s.Choose("thanks again", 0, nil, DialogueContext{LastUserIntent: lexicon.CategoryGratitude, LastBotIntent: lexicon.CategoryGratitude})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchRepeatedGratitude || !contains(lex.Bank(lexicon.CategoryGratitude), sel.Reply) {
			t.Fatalf("expected repeated gratitude, got %+v", sel)
		}
	})

	t.Run("gratitud simple", func(t *testing.T) {
		sel, err := s.Choose("thank you", 0, nil, DialogueContext{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchGratitude {
			t.Fatalf("expected gratitude, got %s", sel.Branch)
		}
		if sel.Context.LastUserIntent != lexicon.CategoryGratitude || sel.Context.LastBotIntent != lexicon.CategoryGratitude {
			t.Fatalf("unexpected context: %+v", sel.Context)
		}
	})

	t.Run("despedida", func(t *testing.T) {
		sel, err := s.Choose("Goodbye!", 0, nil, DialogueContext{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sel.Branch != BranchGoodbye || !contains(lex.Bank(lexicon.CategoryGoodbye), sel.Reply) {
			t.Fatalf("expected goodbye, got %+v", sel)
		}
	})
}

func TestSelector_IntentBank(t *testing.T) {
	s := newTestSelector()
	lex := lexicon.Default()

	reply, dc, err := s.Select("I'm feeling anxious about my exam", -0.9, nil, DialogueContext{TurnCount: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !contains(lex.Bank(lexicon.CategoryAnxiety), reply) {
		t.Fatalf("expected anxiety response, got %q", reply)
	}
	if dc.LastUserIntent != lexicon.CategoryAnxiety || dc.LastBotIntent != lexicon.CategoryAnxiety {
		t.Fatalf("unexpected context: %+v", dc)
	}
	if dc.TurnCount != 3 {
		t.Fatalf("selector must not touch the turn counter")
	}
}

func TestSelector_SentimentBands(t *testing.T) {
	s := newTestSelector()
	lex := lexicon.Default()

	negative := lex.Union(lexicon.CategoryDepression, lexicon.CategoryAnxiety, lexicon.CategoryStress, lexicon.CategoryGeneralSupport)
	uncertain := lex.Union(lexicon.CategoryGeneralSupport, lexicon.CategoryUncertain)

	cases := []struct {
		sentiment float64
		branch    Branch
		options   []string
		user, bot lexicon.Category
	}{
		{-0.9, BranchNegative, negative, lexicon.CategoryNegativeSentiment, lexicon.CategoryGeneralSupport},
		{-0.41, BranchNegative, negative, lexicon.CategoryNegativeSentiment, lexicon.CategoryGeneralSupport},
		{-0.4, BranchUncertain, uncertain, lexicon.CategoryUncertain, lexicon.CategoryUncertain},
		{-0.3, BranchUncertain, uncertain, lexicon.CategoryUncertain, lexicon.CategoryUncertain},
		{-0.2, BranchNeutral, lex.Bank(lexicon.CategoryNeutralInquiry), lexicon.CategoryNeutralInquiry, lexicon.CategoryNeutralInquiry},
		{0, BranchNeutral, lex.Bank(lexicon.CategoryNeutralInquiry), lexicon.CategoryNeutralInquiry, lexicon.CategoryNeutralInquiry},
		{0.2, BranchNeutral, lex.Bank(lexicon.CategoryNeutralInquiry), lexicon.CategoryNeutralInquiry, lexicon.CategoryNeutralInquiry},
		{0.3, BranchUncertain, uncertain, lexicon.CategoryUncertain, lexicon.CategoryUncertain},
		{0.4, BranchUncertain, uncertain, lexicon.CategoryUncertain, lexicon.CategoryUncertain},
		{0.41, BranchPositive, lex.Bank(lexicon.CategoryPositive), lexicon.CategoryPositiveSentiment, lexicon.CategoryPositive},
	}
	for _, c := range cases {
		sel, err := s.Choose("the weather report", c.sentiment, nil, DialogueContext{})
		if err != nil {
			t.Fatalf("sentiment %.2f: unexpected error: %v", c.sentiment, err)
		}
		if sel.Branch != c.branch {
			t.Fatalf("sentiment %.2f: expected %s, got %s", c.sentiment, c.branch, sel.Branch)
		}
		if !contains(c.options, sel.Reply) {
			t.Fatalf("sentiment %.2f: reply %q outside expected set", c.sentiment, sel.Reply)
		}
		if sel.Context.LastUserIntent != c.user || sel.Context.LastBotIntent != c.bot {
			t.Fatalf("sentiment %.2f: unexpected context %+v", c.sentiment, sel.Context)
		}
	}
}

func TestSelector_SeededChooserIsReproducible(t *testing.T) {
	lex := lexicon.Default()
	a := NewSelector(lex, nil, NewSeededChooser(42))
	b := NewSelector(lex, nil, NewSeededChooser(42))
	for i := 0; i < 5; i++ {
		ra, _, _ := a.Select("I feel so stressed", 0, nil, DialogueContext{})
		rb, _, _ := b.Select("I feel so stressed", 0, nil, DialogueContext{})
		if ra != rb {
			t.Fatalf("expected identical picks with the same seed")
		}
	}
}

func TestSelector_FirstChooserPicksFirstEntry(t *testing.T) {
	lex := lexicon.Default()
	s := NewSelector(lex, nil, firstChooser{})
	reply, _, err := s.Select("I'm so lonely", 0, nil, DialogueContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "lonely" aparece antes en depression que en loneliness
	if reply != lex.Bank(lexicon.CategoryDepression)[0] {
		t.Fatalf("expected first depression entry, got %q", reply)
	}
}

func TestSelector_Greeting(t *testing.T) {
	lex := lexicon.Default()
	sel := NewSelector(lex, nil, firstChooser{})
	g, err := sel.Greeting()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g != lex.Bank(lexicon.CategoryGreeting)[0] {
		t.Fatalf("expected first greeting, got %q", g)
	}

	orch := NewOrchestrator(Config{Lexicon: lex, Selector: sel})
	if orch.Greeting() != g {
		t.Fatalf("orchestrator greeting should come from the selector")
	}
}
