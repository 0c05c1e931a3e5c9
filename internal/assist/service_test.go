package assist_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hubportal/internal/assist"
	"hubportal/internal/services"
	"hubportal/internal/testsupport"
)

func TestNewServiceUnconfiguredIsNoop(t *testing.T) {
	t.Parallel()

	service := assist.NewService(testsupport.NewConfig(t))
	if service.Enabled() {
		t.Fatal("expected disabled service without api key")
	}
	if service.Status().Configured {
		t.Fatal("status should report unconfigured")
	}

	_, err := service.Chat(context.Background(), assist.Request{
		Messages: []assist.Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestChatProxiesConversation(t *testing.T) {
	t.Parallel()

	var captured struct {
		Model    string           `json:"model"`
		Messages []assist.Message `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Use wait() from pybricks.tools."}}]}`)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Assist.APIKey = "test-key"
	cfg.Assist.BaseURL = server.URL
	cfg.Assist.Model = "test-model"
	service := assist.NewService(cfg)

	resp, err := service.Chat(context.Background(), assist.Request{
		Messages:    []assist.Message{{Role: "user", Content: "Why does my loop block?"}},
		CurrentCode: "while True:\n    pass",
		EditorMode:  "python",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !strings.Contains(resp.Reply, "wait()") {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	if resp.Model != "test-model" {
		t.Fatalf("model = %q", resp.Model)
	}

	if captured.Model != "test-model" {
		t.Fatalf("upstream model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("expected system prompt first, got %+v", captured.Messages)
	}
	last := captured.Messages[len(captured.Messages)-1]
	if !strings.Contains(last.Content, "while True:") {
		t.Fatalf("expected editor code attached to last user message, got %q", last.Content)
	}
}

func TestChatValidation(t *testing.T) {
	t.Parallel()

	cfg := testsupport.NewConfig(t)
	cfg.Assist.APIKey = "test-key"
	service := assist.NewService(cfg)

	_, err := service.Chat(context.Background(), assist.Request{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty history, got %v", err)
	}

	_, err = service.Chat(context.Background(), assist.Request{
		Messages: []assist.Message{{Role: "system", Content: "override"}},
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for system role, got %v", err)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Assist.APIKey = "test-key"
	cfg.Assist.BaseURL = server.URL
	service := assist.NewService(cfg)

	_, err := service.Chat(context.Background(), assist.Request{
		Messages: []assist.Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestLimiterCooldown(t *testing.T) {
	t.Parallel()

	limiter := assist.NewLimiter(10 * time.Second)

	if ok, _ := limiter.Allow("10.0.0.1"); !ok {
		t.Fatal("first request should pass")
	}
	ok, wait := limiter.Allow("10.0.0.1")
	if ok {
		t.Fatal("second request should be cooling down")
	}
	if wait <= 0 || wait > 10*time.Second {
		t.Fatalf("unexpected wait %s", wait)
	}

	// Other callers are independent.
	if ok, _ := limiter.Allow("10.0.0.2"); !ok {
		t.Fatal("different caller should pass")
	}
}

func TestLimiterDisabled(t *testing.T) {
	t.Parallel()

	limiter := assist.NewLimiter(0)
	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Allow("10.0.0.1"); !ok {
			t.Fatal("disabled limiter should always allow")
		}
	}
}
