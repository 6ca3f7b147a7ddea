// Package models contains data types and constants for EcoNexus.
package models

import "time"

// Endpoints for the Generative Language API
const (
	EndpointBase     = "https://generativelanguage.googleapis.com"
	EndpointGenerate = "/v1beta/models/%s:generateContent"
)

// DefaultModel is the model used when none is configured
const DefaultModel = "gemini-1.5-flash-latest"

// DefaultTimeout bounds a single generation request
const DefaultTimeout = 20 * time.Second

// GenerationConfig holds the fixed sampling parameters sent with every request
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// DefaultGenerationConfig returns the sampling parameters EcoNexus uses
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 512,
	}
}

// SystemPrompt is prepended to every user prompt
const SystemPrompt = "Je bent EcoNexus, een Nederlandstalige klimaat- en duurzaamheidsassistent. " +
	"Geef concrete, empathische en uitvoerbare adviezen over groene innovaties, beleid en lifestyle. " +
	"Houd antwoorden beknopt maar informatief en gebruik Nederlands als primaire taal."

// Authors and fixed conversation texts
const (
	AuthorUser      = "Jij"
	AuthorAssistant = "EcoNexus"

	PendingText = "EcoNexus formuleert een antwoord..."
	Greeting    = "Hallo! Ik ben EcoNexus, je duurzame assistent. " +
		"Vraag me alles over groene innovaties, klimaatbeleid of bewuste lifestyle-keuzes."
)

// Avatar returns the short avatar label for a message kind
func Avatar(kind Kind) string {
	if kind == KindAssistant {
		return "EN"
	}
	return "JIJ"
}
