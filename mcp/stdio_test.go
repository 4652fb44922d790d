package mcp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ratewire/ratewire/jsonrpc"
)

func TestStdioTransport_Run(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		response    jsonrpc.Response
		expectedOut string
	}{
		{
			name:     "successful request",
			input:    `{"jsonrpc": "2.0", "method": "listTools", "id": "1"}`,
			response: jsonrpc.NewResponse("1", map[string]interface{}{"tools": []interface{}{}}, nil),
			expectedOut: `{"jsonrpc":"2.0","result":{"tools":[]},"id":"1"}
`,
		},
		{
			name:  "invalid JSON request",
			input: `{"jsonrpc": "2.0" method: invalid}`,
			expectedOut: `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error","data":"invalid character 'm' after object key:value pair"},"id":null}
`,
		},
		{
			name: "multiple requests",
			input: `{"jsonrpc": "2.0", "method": "listTools", "id": "1"}
{"jsonrpc": "2.0", "method": "callTool", "id": "2"}`,
			response: jsonrpc.NewResponse("0", "success", nil),
			expectedOut: `{"jsonrpc":"2.0","result":"success","id":"0"}
{"jsonrpc":"2.0","result":"success","id":"0"}
`,
		},
		{
			name:  "empty input",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				handleFunc: func(context.Context, jsonrpc.Request) jsonrpc.Response {
					return tt.response
				},
			}

			input := tt.input
			if input != "" && !strings.HasSuffix(input, "\n") {
				input += "\n"
			}

			in := strings.NewReader(input)
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}

			transport := NewStdioTransport(handler, in, out, errOut)
			err := transport.Run(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOut, out.String())
			assert.Empty(t, errOut.String())
		})
	}
}

func TestStdioTransport_ContextCancellation(t *testing.T) {
	handler := &mockHandler{
		handleFunc: func(_ context.Context, req jsonrpc.Request) jsonrpc.Response {
			return jsonrpc.NewResponse(req.ID, "ok", nil)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := NewStdioTransport(handler, strings.NewReader(`{"jsonrpc":"2.0","method":"listTools","id":"1"}`+"\n"), &bytes.Buffer{}, &bytes.Buffer{})
	err := transport.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
