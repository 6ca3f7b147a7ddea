package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReady, "Verbonden met Gemini"},
		{StatusWarning, "API-sleutel ontbreekt"},
		{StatusError, "Verbindingsfout"},
		{Status("other"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	if InitialStatus(true) != StatusReady {
		t.Error("credential present should start ready")
	}
	if InitialStatus(false) != StatusWarning {
		t.Error("missing credential should start with a warning")
	}
}

func TestNewUserMessage(t *testing.T) {
	before := time.Now()
	m := NewUserMessage("Hoe werkt een warmtepomp?")

	if m.ID == "" {
		t.Error("ID should be set")
	}
	if m.Author != AuthorUser || m.Kind != KindUser || !m.IsUser() {
		t.Errorf("unexpected user message: %+v", m)
	}
	if m.Pending {
		t.Error("user messages are never pending")
	}
	if m.Time.Before(before) {
		t.Error("Time should be set at creation")
	}
}

func TestNewAssistantMessage(t *testing.T) {
	m := NewAssistantMessage(PendingText, true)

	if m.Author != AuthorAssistant || m.Kind != KindAssistant || m.IsUser() {
		t.Errorf("unexpected assistant message: %+v", m)
	}
	if !m.Pending {
		t.Error("expected pending placeholder")
	}

	other := NewAssistantMessage("x", false)
	if other.ID == m.ID {
		t.Error("IDs should be unique")
	}
}

func TestMessageJSON(t *testing.T) {
	data, err := json.Marshal(NewAssistantMessage("hoi", false))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"author":"EcoNexus"`, `"kind":"assistant"`, `"pending":false`, `"text":"hoi"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON %s missing %s", data, field)
		}
	}
}

func TestAvatar(t *testing.T) {
	if Avatar(KindAssistant) != "EN" {
		t.Errorf("Avatar(assistant) = %q", Avatar(KindAssistant))
	}
	if Avatar(KindUser) != "JIJ" {
		t.Errorf("Avatar(user) = %q", Avatar(KindUser))
	}
}

func TestDefaultGenerationConfig(t *testing.T) {
	cfg := DefaultGenerationConfig()
	if cfg.Temperature != 0.7 || cfg.TopP != 0.9 || cfg.MaxOutputTokens != 512 {
		t.Errorf("unexpected generation config: %+v", cfg)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"temperature":0.7,"topP":0.9,"maxOutputTokens":512}` {
		t.Errorf("JSON = %s", data)
	}
}

func TestDefaults(t *testing.T) {
	if DefaultTimeout != 20*time.Second {
		t.Errorf("DefaultTimeout = %v", DefaultTimeout)
	}
	if !strings.HasPrefix(SystemPrompt, "Je bent EcoNexus") {
		t.Error("system prompt should introduce EcoNexus")
	}
}
