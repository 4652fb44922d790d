// Package mcp implements the exchange-rate MCP server: JSON-RPC dispatch,
// the tool registry, and the transports it is served over.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ratewire/ratewire/exchange"
	"github.com/ratewire/ratewire/jsonrpc"
)

// method is the closed set of JSON-RPC methods this server recognizes.
type method string

const (
	methodListTools method = "listTools"
	methodCallTool  method = "callTool"
)

// RateService fetches current exchange rates for a base currency.
type RateService interface {
	Latest(ctx context.Context, base string, symbols []string) (exchange.Rates, error)
}

// Server processes JSON-RPC requests against a fixed tool registry.
type Server struct {
	tools  []Tool
	rates  RateService
	logger *slog.Logger
	now    func() time.Time
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithRateService sets the upstream rate provider client
func WithRateService(rates RateService) ServerOption {
	return func(s *Server) {
		s.rates = rates
	}
}

// WithLogger sets the logger used by the server
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		tools:  []Tool{exchangeRatesTool()},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rates == nil {
		return nil, fmt.Errorf("no rate service provided")
	}
	return s, nil
}

var _ jsonrpc.Handler = &Server{}

// Handle processes a single JSON-RPC request and returns a response
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	if request.Version != jsonrpc.Version {
		return jsonrpc.NewResponse(request.ID, nil, jsonrpc.NewError(jsonrpc.ErrInvalidRequest, nil))
	}

	switch method(request.Method) {
	case methodListTools:
		return s.handleListTools(request)
	case methodCallTool:
		return s.handleCallTool(ctx, request)
	default:
		return jsonrpc.NewResponse(request.ID, nil, jsonrpc.Errorf(jsonrpc.ErrMethodNotFound, "Method not found: %s", request.Method))
	}
}

func (s *Server) handleListTools(request jsonrpc.Request) jsonrpc.Response {
	return jsonrpc.NewResponse(request.ID, ToolsListResult{Tools: s.tools}, nil)
}

func (s *Server) handleCallTool(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	var params CallToolParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.ID, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}

	if params.Name != ToolName {
		return jsonrpc.NewResponse(request.ID, nil, jsonrpc.Errorf(jsonrpc.ErrMethodNotFound, "Unknown tool: %s", params.Name))
	}

	base := params.Parameters.Base
	if base == "" {
		base = "USD"
	}
	symbols := params.Parameters.Symbols

	s.logger.Info("fetching exchange rates", "base", base, "symbols", symbols)

	rates, err := s.rates.Latest(ctx, base, symbols)
	if err != nil {
		s.logger.Error("exchange rate lookup failed", "base", base, "error", err)
		return jsonrpc.NewResponse(request.ID, nil, jsonrpc.Errorf(jsonrpc.ErrInternal, "Exchange rate error: %v", err))
	}

	result := RateResult{
		Content: RateContent{
			Base:  rates.Base,
			Date:  rates.Date,
			Rates: rates.Rates,
		},
		Metadata: RateMetadata{
			Source:       Source,
			Timestamp:    s.now().Format(time.RFC3339),
			BaseCurrency: base,
			Symbols:      strings.Join(symbols, ","),
		},
	}
	return jsonrpc.NewResponse(request.ID, result, nil)
}
