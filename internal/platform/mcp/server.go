package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "resolvemcp/internal/platform/errors"
)

const (
	maxMessageSize = 4 * 1024 * 1024
	schemaBaseURL  = "https://resolvemcp.local/schemas/"
	jsonMimeType   = "application/json"
)

type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

type Tool struct {
	Name        string
	Description string
	// Schema is a JSON Schema document for the tool arguments. Empty means an
	// object with no properties.
	Schema  string
	Handler ToolHandler
}

type ResourceHandler func(ctx context.Context) (any, error)

type Resource struct {
	URI         string
	Name        string
	Description string
	Handler     ResourceHandler
}

// ErrorBody is the payload of a failed tool call or resource read.
type ErrorBody struct {
	Error     apperrors.Category `json:"error"`
	Operation string             `json:"operation,omitempty"`
	Detail    string             `json:"detail"`
	Retryable bool               `json:"retryable"`
}

type registeredTool struct {
	def     ToolDefinition
	schema  *jsonschema.Schema
	handler ToolHandler
}

// Server is an MCP stdio server. Requests are dispatched concurrently and
// responses are written one line at a time.
type Server struct {
	info        ServerInfo
	logger      hclog.Logger
	callTimeout time.Duration

	mu        sync.RWMutex
	tools     map[string]registeredTool
	resources map[string]Resource

	writeMu sync.Mutex
}

func NewServer(info ServerInfo, callTimeout time.Duration, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Server{
		info:        info,
		logger:      logger.Named("mcp"),
		callTimeout: callTimeout,
		tools:       map[string]registeredTool{},
		resources:   map[string]Resource{},
	}
}

func (s *Server) RegisterTool(tool Tool) error {
	if strings.TrimSpace(tool.Name) == "" || tool.Handler == nil {
		return fmt.Errorf("%w: tool name and handler are required", apperrors.ErrInvalidInput)
	}
	raw := tool.Schema
	if strings.TrimSpace(raw) == "" {
		raw = `{"type":"object","properties":{}}`
	}
	schema, err := compileSchema(tool.Name, raw)
	if err != nil {
		return fmt.Errorf("tool %s: %w", tool.Name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[tool.Name]; exists {
		return fmt.Errorf("%w: duplicate tool %s", apperrors.ErrInvalidInput, tool.Name)
	}
	s.tools[tool.Name] = registeredTool{
		def:     ToolDefinition{Name: tool.Name, Description: tool.Description, InputSchema: json.RawMessage(raw)},
		schema:  schema,
		handler: tool.Handler,
	}
	return nil
}

func (s *Server) RegisterResource(resource Resource) error {
	if strings.TrimSpace(resource.URI) == "" || resource.Handler == nil {
		return fmt.Errorf("%w: resource uri and handler are required", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resources[resource.URI]; exists {
		return fmt.Errorf("%w: duplicate resource %s", apperrors.ErrInvalidInput, resource.URI)
	}
	s.resources[resource.URI] = resource
	return nil
}

func compileSchema(name, raw string) (*jsonschema.Schema, error) {
	url := schemaBaseURL + name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Run serves newline-delimited JSON-RPC from in until it is exhausted or ctx
// ends, then waits for in-flight requests.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	var wg sync.WaitGroup
	defer wg.Wait()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(out, errorResponse(nil, codeParseError, "parse error: "+err.Error()))
			continue
		}
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			if resp := s.Handle(ctx, req); resp != nil {
				s.write(out, resp)
			}
		}(req)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return nil
}

// Handle answers a single request. Notifications return nil.
func (s *Server) Handle(ctx context.Context, req Request) *Response {
	if req.JSONRPC != jsonRPCVersion {
		if req.isNotification() {
			return nil
		}
		return errorResponse(req.ID, codeInvalidRequest, "jsonrpc must be \"2.0\"")
	}
	if req.isNotification() {
		s.logger.Trace("notification", "method", req.Method)
		return nil
	}
	switch req.Method {
	case "initialize":
		return result(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities: ServerCapabilities{
				Tools:     &ListCapability{},
				Resources: &ListCapability{},
			},
			ServerInfo: s.info,
		})
	case "ping":
		return result(req.ID, map[string]string{})
	case "tools/list":
		return result(req.ID, ToolsListResult{Tools: s.toolDefinitions()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return result(req.ID, ResourcesListResult{Resources: s.resourceDefinitions()})
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params: "+err.Error())
	}
	s.mu.RLock()
	tool, ok := s.tools[params.Name]
	s.mu.RUnlock()
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	args := params.Arguments
	if len(bytes.TrimSpace(args)) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		args = json.RawMessage("{}")
	}
	var decoded any
	if err := json.Unmarshal(args, &decoded); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid arguments: "+err.Error())
	}
	if err := tool.schema.Validate(decoded); err != nil {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("invalid arguments for %s: %v", params.Name, err))
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	started := time.Now()
	out, err := tool.handler(callCtx, args)
	if err != nil {
		body := errorBodyFor(params.Name, err)
		s.logger.Warn("tool failed", "tool", params.Name, "category", body.Error, "duration", time.Since(started), "error", err)
		return result(req.ID, CallToolResult{Content: []ContentBlock{textBlock(body)}, IsError: true})
	}
	s.logger.Debug("tool completed", "tool", params.Name, "duration", time.Since(started))
	return result(req.ID, CallToolResult{Content: []ContentBlock{textBlock(out)}})
}

func (s *Server) handleResourcesRead(ctx context.Context, req Request) *Response {
	var params ReadResourceParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.URI == "" {
		return errorResponse(req.ID, codeInvalidParams, "invalid params: uri is required")
	}
	s.mu.RLock()
	resource, ok := s.resources[params.URI]
	s.mu.RUnlock()
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, "unknown resource: "+params.URI)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	out, err := resource.Handler(callCtx)
	if err != nil {
		s.logger.Warn("resource read failed", "uri", params.URI, "error", err)
		out = errorBodyFor(params.URI, err)
	}
	return result(req.ID, ReadResourceResult{Contents: []ResourceContent{{
		URI:      params.URI,
		MimeType: jsonMimeType,
		Text:     textBlock(out).Text,
	}}})
}

func (s *Server) toolDefinitions() []ToolDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ToolDefinition, 0, len(s.tools))
	for _, tool := range s.tools {
		out = append(out, tool.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) resourceDefinitions() []ResourceDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ResourceDefinition, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, ResourceDefinition{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: jsonMimeType})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

func (s *Server) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.callTimeout)
}

func (s *Server) write(out io.Writer, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		data, _ = json.Marshal(errorResponse(resp.ID, codeInternalError, "encode response failed"))
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := fmt.Fprintf(out, "%s\n", data); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

// errorBodyFor classifies err and renders it for the client.
func errorBodyFor(operation string, err error) ErrorBody {
	var classified *apperrors.ClassifiedError
	if !errors.As(apperrors.Classify(operation, err), &classified) {
		return ErrorBody{Error: apperrors.CategoryOperationRejected, Operation: operation, Detail: err.Error()}
	}
	body := ErrorBody{
		Error:     classified.Category,
		Operation: classified.Operation,
		Detail:    classified.Detail,
		Retryable: classified.Category.Retryable(),
	}
	if body.Operation == "" {
		body.Operation = operation
	}
	if body.Detail == "" {
		body.Detail = classified.Error()
	}
	return body
}

func textBlock(v any) ContentBlock {
	if text, ok := v.(string); ok {
		return ContentBlock{Type: "text", Text: text}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data, _ = json.Marshal(ErrorBody{Error: apperrors.CategoryOperationRejected, Detail: "encode result: " + err.Error()})
	}
	return ContentBlock{Type: "text", Text: string(data)}
}

func result(id json.RawMessage, v any) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: v}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Error: &RPCError{Code: code, Message: message}}
}
