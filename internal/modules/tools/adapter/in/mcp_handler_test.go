package in_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	connectionin "resolvemcp/internal/modules/connection/port/in"
	journaldto "resolvemcp/internal/modules/journal/dto"
	journalin "resolvemcp/internal/modules/journal/port/in"
	toolsadapter "resolvemcp/internal/modules/tools/adapter/in"
	"resolvemcp/internal/modules/tools/dto"
	toolsin "resolvemcp/internal/modules/tools/port/in"
	apperrors "resolvemcp/internal/platform/errors"
	"resolvemcp/internal/platform/mcp"
	"resolvemcp/internal/platform/page"
)

// fakeTools implements the handful of operations these tests call. The
// embedded interface panics on anything else.
type fakeTools struct {
	toolsin.Usecase
	mu      sync.Mutex
	opened  []string
	offline bool
}

func (f *fakeTools) ListProjects(context.Context) ([]string, error) {
	if f.offline {
		return nil, apperrors.Unavailable("")
	}
	return []string{"Archive 2025", "Demo"}, nil
}

func (f *fakeTools) OpenProject(_ context.Context, name string) (dto.ProjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, name)
	return dto.ProjectSummary{Name: name, TimelineCount: 2}, nil
}

func (f *fakeTools) OpenPage(_ context.Context, name string) (dto.Result, error) {
	return dto.Result{OK: true, Message: "opened " + name}, nil
}

func (f *fakeTools) CurrentTimeline(context.Context) (dto.TimelineInfo, error) {
	return dto.TimelineInfo{}, apperrors.Rejected("timeline_get_current", "No timeline is currently open.")
}

func (f *fakeTools) ResetGrade(_ context.Context, ref dto.ItemRef) (dto.Result, error) {
	if ref.TrackType == "audio" {
		return dto.Result{}, apperrors.Rejected("color_reset_grade", "SetCDL is not supported in this host version")
	}
	return dto.Result{OK: true, Message: "reset " + ref.ItemName}, nil
}

type fakeConn struct {
	connectionin.Usecase
	generation uint64
}

func (f fakeConn) Status(context.Context) connectiondto.SessionInfo {
	return connectiondto.SessionInfo{State: "connected", Generation: f.generation}
}

type fakeJournal struct {
	mu      sync.Mutex
	records []journaldto.RecordInput
}

func (f *fakeJournal) Record(_ context.Context, in journaldto.RecordInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, in)
	return nil
}

func (f *fakeJournal) List(context.Context, journaldto.ListInput) (page.Page[journaldto.EntryInfo], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]journaldto.EntryInfo, 0, len(f.records))
	for _, r := range f.records {
		items = append(items, journaldto.EntryInfo{Operation: r.Operation})
	}
	return page.Paginate(items, 0, 20)
}

func newServer(t *testing.T, tools *fakeTools, journal journalin.Usecase) *mcp.Server {
	t.Helper()
	server := mcp.NewServer(mcp.ServerInfo{Name: "resolvemcp", Version: "test"}, time.Second, nil)
	handler := toolsadapter.NewMCPHandler(tools, fakeConn{generation: 3}, journal, nil)
	if err := handler.Register(server); err != nil {
		t.Fatalf("register: %v", err)
	}
	return server
}

func call(t *testing.T, server *mcp.Server, name, args string) *mcp.Response {
	t.Helper()
	params, err := json.Marshal(mcp.CallToolParams{Name: name, Arguments: json.RawMessage(args)})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return server.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage("1"), Method: "tools/call", Params: params})
}

func toolResult(t *testing.T, resp *mcp.Response) mcp.CallToolResult {
	t.Helper()
	if resp == nil || resp.Error != nil {
		t.Fatalf("expected tool result, got %+v", resp)
	}
	result, ok := resp.Result.(mcp.CallToolResult)
	if !ok || len(result.Content) != 1 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	return result
}

func TestRegisterExposesCatalogue(t *testing.T) {
	t.Parallel()
	server := newServer(t, &fakeTools{}, &fakeJournal{})
	resp := server.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage("1"), Method: "tools/list"})
	list, ok := resp.Result.(mcp.ToolsListResult)
	if !ok {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	names := map[string]bool{}
	for _, tool := range list.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"system_get_info", "system_open_page", "project_list", "project_set_setting",
		"timeline_get_items", "timeline_add_marker", "media_pool_get_clips", "media_pool_import",
		"playback_set_timecode", "render_add_job", "render_status", "journal_list",
		"item_get_properties", "item_set_property", "item_set_enabled",
		"color_get_num_nodes", "color_set_lut", "color_reset_grade",
	} {
		if !names[want] {
			t.Fatalf("missing tool %s in %v", want, names)
		}
	}

	resp = server.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage("2"), Method: "resources/list"})
	resources := resp.Result.(mcp.ResourcesListResult)
	if len(resources.Resources) != 3 || resources.Resources[0].URI != "resolve://project" {
		t.Fatalf("unexpected resources: %+v", resources.Resources)
	}
}

func TestToolCallsAreJournaled(t *testing.T) {
	t.Parallel()
	tools := &fakeTools{}
	journal := &fakeJournal{}
	server := newServer(t, tools, journal)

	result := toolResult(t, call(t, server, "project_open", `{"name":"Demo"}`))
	if result.IsError || !strings.Contains(result.Content[0].Text, `"timeline_count": 2`) {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(tools.opened) != 1 || tools.opened[0] != "Demo" {
		t.Fatalf("argument not decoded: %v", tools.opened)
	}

	result = toolResult(t, call(t, server, "timeline_get_current", ``))
	if !result.IsError || !strings.Contains(result.Content[0].Text, "No timeline is currently open.") {
		t.Fatalf("expected rejection, got %+v", result)
	}

	if len(journal.records) != 2 {
		t.Fatalf("expected 2 journal records, got %+v", journal.records)
	}
	first, second := journal.records[0], journal.records[1]
	if first.Operation != "project_open" || first.Err != nil || first.Generation != 3 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if second.Operation != "timeline_get_current" || apperrors.CategoryOf(second.Err) != apperrors.CategoryOperationRejected {
		t.Fatalf("unexpected second record: %+v", second)
	}

	listed := toolResult(t, call(t, server, "journal_list", `{}`))
	if !strings.Contains(listed.Content[0].Text, "project_open") {
		t.Fatalf("journal_list missing entries: %s", listed.Content[0].Text)
	}
	if len(journal.records) != 2 {
		t.Fatalf("journal_list must not journal itself: %+v", journal.records)
	}
}

func TestSchemaRejectsBadArguments(t *testing.T) {
	t.Parallel()
	journal := &fakeJournal{}
	server := newServer(t, &fakeTools{}, journal)
	cases := []struct {
		tool string
		args string
	}{
		{tool: "system_open_page", args: `{"page":"timeline"}`},
		{tool: "project_open", args: `{}`},
		{tool: "timeline_get_items", args: `{"track_index":0}`},
		{tool: "playback_set_timecode", args: `{"timecode":"1:00"}`},
		{tool: "media_pool_get_clips", args: `{"offset":-1}`},
		{tool: "color_set_lut", args: `{"item_name":"Shot 01","node_index":0,"lut_path":"/luts/a.cube"}`},
		{tool: "item_set_property", args: `{"item_name":"Shot 01","key":"ZoomX"}`},
		{tool: "item_get_properties", args: `{"item_name":"Shot 01","track":2}`},
	}
	for _, tc := range cases {
		t.Run(tc.tool, func(t *testing.T) {
			resp := call(t, server, tc.tool, tc.args)
			if resp.Error == nil || resp.Error.Code != -32602 {
				t.Fatalf("expected -32602, got %+v", resp)
			}
		})
	}
	if len(journal.records) != 0 {
		t.Fatalf("invalid calls must not reach the handler: %+v", journal.records)
	}

	ok := toolResult(t, call(t, server, "system_open_page", `{"page":"color"}`))
	if ok.IsError || !strings.Contains(ok.Content[0].Text, "opened color") {
		t.Fatalf("unexpected result: %+v", ok)
	}
}

func TestHostUnavailableIsRetryable(t *testing.T) {
	t.Parallel()
	server := newServer(t, &fakeTools{offline: true}, &fakeJournal{})
	result := toolResult(t, call(t, server, "project_list", `{}`))
	var body mcp.ErrorBody
	if err := json.Unmarshal([]byte(result.Content[0].Text), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !result.IsError || body.Error != apperrors.CategoryHostUnavailable || !body.Retryable {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestResourceReportsErrorField(t *testing.T) {
	t.Parallel()
	server := newServer(t, &fakeTools{}, nil)
	params, _ := json.Marshal(mcp.ReadResourceParams{URI: "resolve://timeline"})
	resp := server.Handle(context.Background(), mcp.Request{JSONRPC: "2.0", ID: json.RawMessage("9"), Method: "resources/read", Params: params})
	read, ok := resp.Result.(mcp.ReadResourceResult)
	if !ok || len(read.Contents) != 1 {
		t.Fatalf("unexpected result: %+v", resp)
	}
	if !strings.Contains(read.Contents[0].Text, `"error": "operation_rejected"`) {
		t.Fatalf("expected error field, got %s", read.Contents[0].Text)
	}
}

func TestColorToolDecodesItemReference(t *testing.T) {
	t.Parallel()
	server := newServer(t, &fakeTools{}, &fakeJournal{})

	ok := toolResult(t, call(t, server, "color_reset_grade", `{"item_name":"Shot 01","track_index":2}`))
	if ok.IsError || !strings.Contains(ok.Content[0].Text, "reset Shot 01") {
		t.Fatalf("unexpected result: %+v", ok)
	}
	rejected := toolResult(t, call(t, server, "color_reset_grade", `{"item_name":"Dialogue","track_type":"audio"}`))
	if !rejected.IsError || !strings.Contains(rejected.Content[0].Text, "SetCDL is not supported") {
		t.Fatalf("expected rejection, got %+v", rejected)
	}
}
