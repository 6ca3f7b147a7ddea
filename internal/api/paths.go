// Package api provides the Generative Language API client used by EcoNexus.
package api

// GJSON paths for extracting values from generateContent responses.
const (
	// Success body: {"candidates":[{"content":{"parts":[{"text":"..."}]}}]}
	PathCandidateParts = "candidates.0.content.parts"
	PathPartText       = "text"

	// Error body: {"error":{"code":400,"message":"...","status":"INVALID_ARGUMENT"}}
	PathErrorMessage = "error.message"
)
