package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolName is the name of the single tool this server exposes.
const ToolName = "exchange-rates"

// Source is the fixed metadata.source literal stamped on every tool result.
const Source = "exchange-rate-mcp"

// Tool describes a callable tool and its parameter schema.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// ToolsListResult carries the result of the listTools method.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams carries the params of the callTool method.
type CallToolParams struct {
	Name       string     `json:"name"`
	Parameters RateParams `json:"parameters"`
}

// RateParams are the exchange-rates tool parameters. Base defaults to USD;
// nil Symbols means all available currencies.
type RateParams struct {
	Base    string   `json:"base,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// RateContent is the provider payload forwarded verbatim to the caller.
type RateContent struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// RateMetadata describes how and when a result was produced. Symbols is the
// comma-joined requested symbols, or empty when none were requested.
type RateMetadata struct {
	Source       string `json:"source"`
	Timestamp    string `json:"timestamp"`
	BaseCurrency string `json:"baseCurrency"`
	Symbols      string `json:"symbols"`
}

// RateResult is the callTool result envelope.
type RateResult struct {
	Content  RateContent  `json:"content"`
	Metadata RateMetadata `json:"metadata"`
}

// exchangeRatesTool returns the static descriptor for the exchange-rates tool.
func exchangeRatesTool() Tool {
	return Tool{
		Name:        ToolName,
		Description: "Get the latest exchange rates",
		Parameters: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"base": {
					Type:        "string",
					Description: "The base currency",
					Default:     json.RawMessage(`"USD"`),
				},
				"symbols": {
					Type:        "array",
					Description: "The target currencies",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			},
		},
	}
}
