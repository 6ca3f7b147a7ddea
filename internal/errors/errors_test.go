package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindMissingCredential, "missing-credential"},
		{KindTimeout, "timeout"},
		{KindNetwork, "network"},
		{KindAPI, "api-error"},
		{KindEmptyResponse, "empty-response"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "API key not valid")

	expected := "Gemini API-fout: API key not valid"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if err.Detail != "API key not valid" {
		t.Errorf("Detail = %s, want %s", err.Detail, "API key not valid")
	}
	if GetHTTPStatus(err) != 400 {
		t.Errorf("GetHTTPStatus() = %d, want 400", GetHTTPStatus(err))
	}
	if KindOf(err) != KindAPI {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindAPI)
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError(context.DeadlineExceeded)

	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Expected error to unwrap to context.DeadlineExceeded")
	}
	if errors.Is(err, ErrMissingCredential) {
		t.Error("Expected error not to match ErrMissingCredential")
	}
}

func TestMissingCredentialError(t *testing.T) {
	err := NewMissingCredentialError()

	if !errors.Is(err, ErrMissingCredential) {
		t.Error("Expected error to match ErrMissingCredential")
	}
	if !IsMissingCredential(err) {
		t.Error("Expected IsMissingCredential to be true")
	}
	if err.Unwrap() != nil {
		t.Error("Expected no cause")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified passes through", NewNetworkError(errors.New("dial tcp")), KindNetwork},
		{"wrapped classified", fmt.Errorf("context: %w", NewEmptyResponseError()), KindEmptyResponse},
		{"plain error becomes unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got == nil {
				t.Fatal("Classify() returned nil")
			}
			if got.Kind != tt.want {
				t.Errorf("Classify().Kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should return nil")
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	got := Classify(cause)
	if !errors.Is(got, cause) {
		t.Error("Expected unknown error to wrap its cause")
	}
}

func TestHelpersOnNil(t *testing.T) {
	if IsMissingCredential(nil) {
		t.Error("IsMissingCredential(nil) should be false")
	}
	if KindOf(nil) != KindUnknown {
		t.Error("KindOf(nil) should be unknown")
	}
	if IsMissingCredential(NewNetworkError(errors.New("x"))) {
		t.Error("network error is not a missing credential")
	}
	if GetHTTPStatus(nil) != 0 {
		t.Error("GetHTTPStatus(nil) should be 0")
	}
}
