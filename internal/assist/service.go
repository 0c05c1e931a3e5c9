package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hubportal/internal/config"
	"hubportal/internal/services"
)

const defaultModel = "gpt-4o-mini"

// systemPrompt steers the upstream model toward Pybricks hub programming.
const systemPrompt = `You are a coding assistant inside a browser IDE for programming ` +
	`LEGO-compatible hubs with Pybricks MicroPython. You know the Pybricks API ` +
	`(PrimeHub, Motor, DriveBase, the pupdevices sensors, pybricks.parameters, ` +
	`pybricks.robotics, pybricks.tools) and the hub hardware: six ports A-F, a 5x5 ` +
	`light matrix, buttons, speaker and IMU. Always use proper Pybricks imports, ` +
	`correct Port assignments and wait() instead of time.sleep(). When the user ` +
	`shares their current code, analyze it and suggest improvements. Keep responses ` +
	`concise and format code with ` + "```python" + ` blocks.`

// Message is one turn of the chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is an editor chat request. CurrentCode, when present, is appended
// to the final user message so the model sees what is in the editor.
type Request struct {
	Messages    []Message `json:"messages"`
	CurrentCode string    `json:"current_code,omitempty"`
	EditorMode  string    `json:"editor_mode,omitempty"`
}

// Response is the upstream reply.
type Response struct {
	Reply string `json:"reply"`
	Model string `json:"model"`
}

// Status reports whether the proxy is usable and with which model.
type Status struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model,omitempty"`
}

// Service defines the chat surface exposed to the server.
type Service interface {
	Enabled() bool
	Status() Status
	Chat(ctx context.Context, req Request) (Response, error)
	Limiter() *Limiter
}

// NewService builds a chat proxy backed by an OpenAI-compatible endpoint
// when an API key is configured. Otherwise a noop implementation is
// returned.
func NewService(cfg *config.Config) Service {
	apiKey := strings.TrimSpace(cfg.Assist.APIKey)
	if apiKey == "" {
		return noopService{limiter: NewLimiter(0)}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Assist.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(cfg.Assist.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.Assist.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &chatService{
		endpoint: baseURL + "/chat/completions",
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
		limiter:  NewLimiter(time.Duration(cfg.Assist.CooldownSeconds) * time.Second),
	}
}

type chatService struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	limiter  *Limiter
}

func (s *chatService) Enabled() bool { return true }

func (s *chatService) Status() Status {
	return Status{Configured: true, Model: s.model}
}

func (s *chatService) Limiter() *Limiter { return s.limiter }

func (s *chatService) Chat(ctx context.Context, req Request) (Response, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return Response{}, err
	}

	body, err := json.Marshal(map[string]any{
		"model":      s.model,
		"messages":   messages,
		"max_tokens": 4096,
	})
	if err != nil {
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat", "failed to encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat", "failed to build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat", "chat completion request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat",
			fmt.Sprintf("chat completion returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))), nil)
	}

	var payload struct {
		Choices []struct {
			Message Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat", "failed to decode chat response", err)
	}
	if len(payload.Choices) == 0 {
		return Response{}, services.Wrap(services.ErrUpstream, "assist", "chat", "chat completion returned no choices", nil)
	}

	return Response{
		Reply: payload.Choices[0].Message.Content,
		Model: s.model,
	}, nil
}

// buildMessages prepends the system prompt and attaches the editor contents
// to the last user message.
func buildMessages(req Request) ([]Message, error) {
	if len(req.Messages) == 0 {
		return nil, services.Wrap(services.ErrValidation, "assist", "validate", "chat request has no messages", nil)
	}
	for _, msg := range req.Messages {
		if msg.Role != "user" && msg.Role != "assistant" {
			return nil, services.Wrap(services.ErrValidation, "assist", "validate",
				fmt.Sprintf("unknown message role %q", msg.Role), nil)
		}
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, req.Messages...)

	code := strings.TrimSpace(req.CurrentCode)
	last := &messages[len(messages)-1]
	if code != "" && last.Role == "user" {
		lang := "python"
		if req.EditorMode == "blocks" {
			lang = "blockly"
		}
		last.Content += fmt.Sprintf("\n\n[Current code in the editor (%s mode)]:\n```python\n%s\n```", lang, code)
	}
	return messages, nil
}

type noopService struct {
	limiter *Limiter
}

func (noopService) Enabled() bool { return false }

func (noopService) Status() Status { return Status{} }

func (n noopService) Limiter() *Limiter { return n.limiter }

func (noopService) Chat(context.Context, Request) (Response, error) {
	return Response{}, services.Wrap(services.ErrConfiguration, "assist", "chat",
		"assist is not configured; set api_key in the [assist] config section", nil)
}
