package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"mindcare-bot/internal/domain"
)

var (
	// ErrAuth indica credencial invalida o expirada.
	ErrAuth = errors.New("llm auth error")
	// ErrService cubre cualquier otro fallo del proveedor: red, timeout, status, cuerpo invalido.
	ErrService = errors.New("llm service error")
)

// MaxHistoryTurns acota el historial enviado al proveedor.
const MaxHistoryTurns = 10

const systemPrompt = `You are a compassionate and empathetic mental health support chatbot.
Your primary goal is to listen, provide non-judgmental support, and encourage users to seek professional help when appropriate.
You MUST NOT provide medical diagnosis, direct treatment advice, or claim to be a licensed therapist.
Focus on validating feelings, offering coping strategies, and suggesting reputable resources.
Keep responses concise but helpful. Always prioritize safety and well-being.
If the user expresses positive feelings, reinforce them.
Maintain a warm, understanding, and encouraging tone.`

// ChatClient genera una respuesta a partir del mensaje y el historial reciente.
type ChatClient interface {
	Complete(ctx context.Context, message string, history []domain.ConversationTurn) (string, error)
}

// Options parametriza la llamada a chat completions.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// HTTPClient implementa ChatClient contra una API compatible con OpenAI.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	topP        float64
	client      *http.Client
	logger      *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando a la API de chat completions.
func NewHTTPClient(opts Options, logger *zap.Logger) *HTTPClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = "gpt-3.5-turbo"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 250
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		topP:        opts.TopP,
		client:      &http.Client{Timeout: opts.Timeout},
		logger:      logger,
	}
}

func (c *HTTPClient) Complete(ctx context.Context, message string, history []domain.ConversationTurn) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    buildMessages(message, history),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrService, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: do request: %v", ErrService, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrService, err)
	}

	var cr chatResponse
	decodeErr := json.Unmarshal(respBody, &cr)

	if resp.StatusCode >= 400 {
		c.logger.Warn("llm error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(respBody), 512)),
		)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden ||
			(decodeErr == nil && cr.Error.isAuth()) {
			return "", fmt.Errorf("%w: status=%d", ErrAuth, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: status=%d", ErrService, resp.StatusCode)
	}

	if decodeErr != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrService, decodeErr)
	}
	if cr.Error != nil {
		if cr.Error.isAuth() {
			return "", fmt.Errorf("%w: %s", ErrAuth, cr.Error.Message)
		}
		return "", fmt.Errorf("%w: %s", ErrService, cr.Error.Message)
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrService)
	}
	content := cleanReply(cr.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty response", ErrService)
	}
	return content, nil
}

// buildMessages arma instruccion de sistema + historial acotado + mensaje actual.
func buildMessages(message string, history []domain.ConversationTurn) []chatMessage {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}
	msgs := make([]chatMessage, 0, len(history)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		role := turn.Role
		if role != domain.TurnRoleUser && role != domain.TurnRoleAssistant {
			continue
		}
		msgs = append(msgs, chatMessage{Role: role, Content: turn.Content})
	}
	return append(msgs, chatMessage{Role: "user", Content: message})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (e *apiError) isAuth() bool {
	if e == nil {
		return false
	}
	return e.Code == "invalid_api_key" || e.Type == "authentication_error"
}
