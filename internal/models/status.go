package models

// Status is the advisory connection state shown next to the conversation
type Status string

const (
	StatusReady   Status = "ready"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Label returns the Dutch label for the status indicator
func (s Status) Label() string {
	switch s {
	case StatusReady:
		return "Verbonden met Gemini"
	case StatusWarning:
		return "API-sleutel ontbreekt"
	case StatusError:
		return "Verbindingsfout"
	default:
		return ""
	}
}

// InitialStatus returns the status a conversation starts with,
// based only on whether a credential is configured.
func InitialStatus(hasCredential bool) Status {
	if hasCredential {
		return StatusReady
	}
	return StatusWarning
}
