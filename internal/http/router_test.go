package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mindcare-bot/internal/chatbot"
	"mindcare-bot/internal/lexicon"
	"mindcare-bot/internal/metrics"
	"mindcare-bot/internal/repository"
	"mindcare-bot/internal/service"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	return newTestServerWithLimiter(t, nil)
}

func newTestServerWithLimiter(t *testing.T, limiter service.MessageRateLimiter) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	collector := metrics.New("test")
	lex := lexicon.Default()
	orch := chatbot.NewOrchestrator(chatbot.Config{
		Lexicon:  lex,
		Selector: chatbot.NewSelector(lex, nil, chatbot.NewSeededChooser(1)),
		Recorder: collector,
	})

	convs := repository.NewMemoryConversationRepository()
	resources := service.NewResourceService(repository.NewMemoryResourceRepository(), nil)
	if _, err := resources.Seed(context.Background(), service.DefaultResources()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	conversations := service.NewConversationService(service.ConversationDeps{
		Conversations: convs,
		Messages:      service.NewMessageService(repository.NewMemoryMessageRepository()),
		Contexts:      service.NewMemoryDialogueContextStore(time.Hour),
		Resources:     resources,
		Responder:     orch,
	})
	moods := service.NewMoodService(repository.NewMemoryMoodRepository(), convs)

	jwtSvc, token := newTestJWT(t)
	router := NewRouter(RouterDeps{
		Chat:         NewChatHandler(nil, conversations),
		Mood:         NewMoodHandler(nil, moods),
		Resources:    NewResourceHandler(nil, resources),
		OptionalAuth: OptionalAuthMiddleware(jwtSvc),
		RequireAuth:  RequireAuthMiddleware(jwtSvc),
		Metrics:      collector.Handler(),
		Recorder:     collector,
		Limiter:      limiter,
	})
	return testServer{router: router, token: token}
}

func (s testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestProcessMessage_RejectsEmptyInput(t *testing.T) {
	srv := newTestServer(t)
	cases := map[string]string{
		"vacio":     `{"message":""}`,
		"espacios":  `{"message":"   "}`,
		"sin campo": `{}`,
		"json roto": `{"message":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/process-message", body, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestProcessMessage_RulesReply(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/process-message", `{"message":"I can't sleep at night"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	out := decode[service.ProcessOutput](t, rec)
	if out.BotResponse == "" || out.SessionID == "" || out.MessageID == "" {
		t.Fatalf("incomplete response: %+v", out)
	}
	if out.IsCrisis {
		t.Fatalf("unexpected crisis flag")
	}
	if out.Sentiment == nil || *out.Sentiment < -1 || *out.Sentiment > 1 {
		t.Fatalf("sentiment out of range: %v", out.Sentiment)
	}
}

func TestProcessMessage_Crisis(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/process-message", `{"message":"I want to end my life","session_id":"s1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decode[service.ProcessOutput](t, rec)
	if !out.IsCrisis || !strings.Contains(out.BotResponse, "988") {
		t.Fatalf("expected crisis script, got %+v", out)
	}
	if len(out.SupportResources) == 0 {
		t.Fatalf("expected support resources")
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/session", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	start := decode[service.SessionStart](t, rec)
	if start.SessionID == "" || start.Greeting == "" {
		t.Fatalf("unexpected session: %+v", start)
	}

	body := `{"message":"hello","session_id":"` + start.SessionID + `"}`
	if rec := srv.do(t, http.MethodPost, "/process-message", body, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/chat/"+start.SessionID+"/messages", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	transcript := decode[struct {
		Messages []map[string]any `json:"messages"`
	}](t, rec)
	if len(transcript.Messages) != 3 {
		t.Fatalf("expected greeting + 2 messages, got %d", len(transcript.Messages))
	}

	if rec := srv.do(t, http.MethodPost, "/chat/"+start.SessionID+"/clear", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/process-message", body, ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after clear, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/chat/missing/messages", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}
}

func TestSessionOwnership(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/session", "", srv.token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	start := decode[service.SessionStart](t, rec)
	path := "/chat/" + start.SessionID

	if rec := srv.do(t, http.MethodGet, path+"/messages", "", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous reader, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, path+"/clear", "", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous clear, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, path+"/messages", "", srv.token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, path+"/clear", "", srv.token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on owner clear, got %d", rec.Code)
	}
}

func TestMoodEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("nivel invalido", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/mood", `{"mood_level":7,"session_id":"s1"}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("anonimo por sesion", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/mood", `{"mood_level":2,"notes":"tired","session_id":"s1"}`, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		rec = srv.do(t, http.MethodGet, "/mood?session_id=s1", "", "")
		list := decode[struct {
			Entries []map[string]any `json:"entries"`
		}](t, rec)
		if len(list.Entries) != 1 || list.Entries[0]["mood_label"] != "Sad" {
			t.Fatalf("unexpected entries: %+v", list.Entries)
		}
	})

	t.Run("borrado exige autenticacion", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/mood", `{"mood_level":4}`, srv.token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		entry := decode[map[string]any](t, rec)
		id, _ := entry["id"].(string)

		if rec := srv.do(t, http.MethodDelete, "/mood/"+id, "", ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", rec.Code)
		}
		if rec := srv.do(t, http.MethodDelete, "/mood/"+id, "", srv.token); rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if rec := srv.do(t, http.MethodDelete, "/mood/"+id, "", srv.token); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 on second delete, got %d", rec.Code)
		}
	})
}

func TestResourcesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/resources", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dir := decode[service.ResourceDirectory](t, rec)
	if len(dir.Emergency) != 4 || len(dir.General) != 4 {
		t.Fatalf("unexpected split %d/%d", len(dir.Emergency), len(dir.General))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodPost, "/process-message", `{"message":"I want to kill myself"}`, "")

	rec := srv.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"test_crisis_detections_total 1",
		`test_http_requests_total{method="POST",path="/process-message",status_code="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}

func TestProcessMessage_RateLimited(t *testing.T) {
	srv := newTestServerWithLimiter(t, service.NewMemoryRateLimiter(time.Minute, 2))
	for i := 0; i < 2; i++ {
		if rec := srv.do(t, http.MethodPost, "/process-message", `{"message":"hello"}`, ""); rec.Code != http.StatusOK {
			t.Fatalf("message %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if rec := srv.do(t, http.MethodPost, "/process-message", `{"message":"hello"}`, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/resources", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("other routes must not be limited, got %d", rec.Code)
	}
}
