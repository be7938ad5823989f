package in

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	connectionin "resolvemcp/internal/modules/connection/port/in"
	journaldto "resolvemcp/internal/modules/journal/dto"
	journalin "resolvemcp/internal/modules/journal/port/in"
	"resolvemcp/internal/modules/tools/dto"
	toolsin "resolvemcp/internal/modules/tools/port/in"
	"resolvemcp/internal/platform/mcp"
)

const (
	noArgs = `{"type":"object","properties":{},"additionalProperties":false}`

	nameArg = `{
  "type": "object",
  "properties": {"name": {"type": "string", "minLength": 1}},
  "required": ["name"],
  "additionalProperties": false
}`

	pageArgs = `{
  "type": "object",
  "properties": {
    "offset": {"type": "integer", "minimum": 0},
    "limit": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

	openPageArgs = `{
  "type": "object",
  "properties": {
    "page": {"type": "string", "enum": ["media", "cut", "edit", "fusion", "color", "fairlight", "deliver"]}
  },
  "required": ["page"],
  "additionalProperties": false
}`

	settingArgs = `{
  "type": "object",
  "properties": {"key": {"type": "string", "minLength": 1}},
  "required": ["key"],
  "additionalProperties": false
}`

	setSettingArgs = `{
  "type": "object",
  "properties": {
    "key": {"type": "string", "minLength": 1},
    "value": {"type": "string"}
  },
  "required": ["key", "value"],
  "additionalProperties": false
}`

	itemsArgs = `{
  "type": "object",
  "properties": {
    "track_type": {"type": "string", "enum": ["video", "audio", "subtitle"]},
    "track_index": {"type": "integer", "minimum": 1},
    "offset": {"type": "integer", "minimum": 0},
    "limit": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

	itemArgs = `{
  "type": "object",
  "properties": {
    "item_name": {"type": "string", "minLength": 1},
    "track_type": {"type": "string", "enum": ["video", "audio", "subtitle"]},
    "track_index": {"type": "integer", "minimum": 1}
  },
  "required": ["item_name"],
  "additionalProperties": false
}`

	itemPropertyArgs = `{
  "type": "object",
  "properties": {
    "item_name": {"type": "string", "minLength": 1},
    "track_type": {"type": "string", "enum": ["video", "audio", "subtitle"]},
    "track_index": {"type": "integer", "minimum": 1},
    "key": {"type": "string", "minLength": 1},
    "value": {"type": ["string", "number", "boolean"]}
  },
  "required": ["item_name", "key", "value"],
  "additionalProperties": false
}`

	itemEnabledArgs = `{
  "type": "object",
  "properties": {
    "item_name": {"type": "string", "minLength": 1},
    "track_type": {"type": "string", "enum": ["video", "audio", "subtitle"]},
    "track_index": {"type": "integer", "minimum": 1},
    "enabled": {"type": "boolean"}
  },
  "required": ["item_name", "enabled"],
  "additionalProperties": false
}`

	lutArgs = `{
  "type": "object",
  "properties": {
    "item_name": {"type": "string", "minLength": 1},
    "track_type": {"type": "string", "enum": ["video", "audio", "subtitle"]},
    "track_index": {"type": "integer", "minimum": 1},
    "node_index": {"type": "integer", "minimum": 1},
    "lut_path": {"type": "string", "minLength": 1}
  },
  "required": ["item_name", "node_index", "lut_path"],
  "additionalProperties": false
}`

	markerArgs = `{
  "type": "object",
  "properties": {
    "frame": {"type": "integer", "minimum": 0},
    "color": {"type": "string"},
    "name": {"type": "string"},
    "note": {"type": "string"},
    "duration": {"type": "integer", "minimum": 1}
  },
  "required": ["frame"],
  "additionalProperties": false
}`

	importArgs = `{
  "type": "object",
  "properties": {
    "paths": {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
  },
  "required": ["paths"],
  "additionalProperties": false
}`

	timecodeArgs = `{
  "type": "object",
  "properties": {"timecode": {"type": "string", "pattern": "^\\d{2}:\\d{2}:\\d{2}[:;]\\d{2}$"}},
  "required": ["timecode"],
  "additionalProperties": false
}`

	renderJobArgs = `{
  "type": "object",
  "properties": {
    "preset": {"type": "string"},
    "target_dir": {"type": "string"},
    "custom_name": {"type": "string"}
  },
  "additionalProperties": false
}`
)

// MCPHandler exposes the tool catalogue over an MCP server. Every call is
// recorded in the journal when one is configured.
type MCPHandler struct {
	tools   toolsin.Usecase
	conn    connectionin.Usecase
	journal journalin.Usecase
	logger  hclog.Logger
}

func NewMCPHandler(tools toolsin.Usecase, conn connectionin.Usecase, journal journalin.Usecase, logger hclog.Logger) MCPHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return MCPHandler{tools: tools, conn: conn, journal: journal, logger: logger.Named("tools")}
}

// Register adds every tool and resource to server.
func (h MCPHandler) Register(server *mcp.Server) error {
	for _, tool := range h.catalogue() {
		tool.Handler = h.recorded(tool.Name, tool.Handler)
		if err := server.RegisterTool(tool); err != nil {
			return fmt.Errorf("register tool: %w", err)
		}
	}
	for _, resource := range h.resources() {
		if err := server.RegisterResource(resource); err != nil {
			return fmt.Errorf("register resource: %w", err)
		}
	}
	return nil
}

func (h MCPHandler) catalogue() []mcp.Tool {
	tools := []mcp.Tool{
		{
			Name:        "system_get_info",
			Description: "Report the DaVinci Resolve product, version and current page.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.SystemInfo),
		},
		{
			Name:        "system_open_page",
			Description: "Switch DaVinci Resolve to a page: media, cut, edit, fusion, color, fairlight or deliver.",
			Schema:      openPageArgs,
			Handler: withInput(func(ctx context.Context, in struct {
				Page string `json:"page"`
			}) (dto.Result, error) {
				return h.tools.OpenPage(ctx, in.Page)
			}),
		},
		{
			Name:        "project_list",
			Description: "List the projects in the current project manager folder.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.ListProjects),
		},
		{
			Name:        "project_get_current",
			Description: "Describe the currently open project.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.CurrentProject),
		},
		{
			Name:        "project_create",
			Description: "Create a new project and open it.",
			Schema:      nameArg,
			Handler:     named(h.tools.CreateProject),
		},
		{
			Name:        "project_open",
			Description: "Load a project by name.",
			Schema:      nameArg,
			Handler:     named(h.tools.OpenProject),
		},
		{
			Name:        "project_save",
			Description: "Save the current project.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.SaveProject),
		},
		{
			Name:        "project_close",
			Description: "Close the current project.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.CloseProject),
		},
		{
			Name:        "project_delete",
			Description: "Delete a project that is not currently open.",
			Schema:      nameArg,
			Handler:     named(h.tools.DeleteProject),
		},
		{
			Name:        "project_get_setting",
			Description: "Read one setting of the current project.",
			Schema:      settingArgs,
			Handler: withInput(func(ctx context.Context, in struct {
				Key string `json:"key"`
			}) (dto.Setting, error) {
				return h.tools.ProjectSetting(ctx, in.Key)
			}),
		},
		{
			Name:        "project_set_setting",
			Description: "Change one setting of the current project.",
			Schema:      setSettingArgs,
			Handler: withInput(func(ctx context.Context, in struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			}) (dto.Result, error) {
				return h.tools.SetProjectSetting(ctx, in.Key, in.Value)
			}),
		},
		{
			Name:        "timeline_get_current",
			Description: "Describe the current timeline: frames, timecodes and track counts.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.CurrentTimeline),
		},
		{
			Name:        "timeline_list",
			Description: "List the timelines of the current project.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.ListTimelines),
		},
		{
			Name:        "timeline_set_current",
			Description: "Make the named timeline current.",
			Schema:      nameArg,
			Handler:     named(h.tools.SetCurrentTimeline),
		},
		{
			Name:        "timeline_get_items",
			Description: "List the items on one track of the current timeline, one page at a time.",
			Schema:      itemsArgs,
			Handler:     withInput(h.tools.TimelineItems),
		},
		{
			Name:        "timeline_add_marker",
			Description: "Add a marker to the current timeline.",
			Schema:      markerArgs,
			Handler:     withInput(h.tools.AddMarker),
		},
		{
			Name:        "timeline_get_markers",
			Description: "List the markers of the current timeline ordered by frame.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.Markers),
		},
		{
			Name:        "item_get_properties",
			Description: "Read every property of a timeline item found by name.",
			Schema:      itemArgs,
			Handler:     withInput(h.tools.ItemProperties),
		},
		{
			Name:        "item_set_property",
			Description: "Set one property of a timeline item, such as ZoomX, Pan or Opacity.",
			Schema:      itemPropertyArgs,
			Handler:     withInput(h.tools.SetItemProperty),
		},
		{
			Name:        "item_set_enabled",
			Description: "Enable or disable a timeline item.",
			Schema:      itemEnabledArgs,
			Handler:     withInput(h.tools.SetItemEnabled),
		},
		{
			Name:        "color_get_num_nodes",
			Description: "Count the color correction nodes of a timeline item.",
			Schema:      itemArgs,
			Handler:     withInput(h.tools.NodeCount),
		},
		{
			Name:        "color_set_lut",
			Description: "Apply a LUT file to one node of a timeline item.",
			Schema:      lutArgs,
			Handler:     withInput(h.tools.SetLUT),
		},
		{
			Name:        "color_reset_grade",
			Description: "Reset a timeline item's grade to identity CDL values without removing nodes.",
			Schema:      itemArgs,
			Handler:     withInput(h.tools.ResetGrade),
		},
		{
			Name:        "media_pool_get_clips",
			Description: "List the clips in the current media pool folder, one page at a time.",
			Schema:      pageArgs,
			Handler:     withInput(h.tools.MediaPoolClips),
		},
		{
			Name:        "media_pool_import",
			Description: "Import files into the current media pool folder.",
			Schema:      importArgs,
			Handler: withInput(func(ctx context.Context, in struct {
				Paths []string `json:"paths"`
			}) ([]dto.Clip, error) {
				return h.tools.ImportMedia(ctx, in.Paths)
			}),
		},
		{
			Name:        "media_storage_get_volumes",
			Description: "List the mounted media storage volumes.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.Volumes),
		},
		{
			Name:        "playback_get_timecode",
			Description: "Report the playhead timecode of the current timeline.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.Timecode),
		},
		{
			Name:        "playback_set_timecode",
			Description: "Move the playhead of the current timeline to a timecode (HH:MM:SS:FF).",
			Schema:      timecodeArgs,
			Handler: withInput(func(ctx context.Context, in struct {
				Timecode string `json:"timecode"`
			}) (dto.Result, error) {
				return h.tools.SetTimecode(ctx, in.Timecode)
			}),
		},
		{
			Name:        "render_get_presets",
			Description: "List the render presets available to the current project.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.RenderPresets),
		},
		{
			Name:        "render_add_job",
			Description: "Queue a render job for the current timeline, optionally loading a preset first.",
			Schema:      renderJobArgs,
			Handler:     withInput(h.tools.AddRenderJob),
		},
		{
			Name:        "render_start",
			Description: "Start rendering the queued jobs.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.StartRender),
		},
		{
			Name:        "render_status",
			Description: "Report whether a render is running and list the queued jobs.",
			Schema:      noArgs,
			Handler:     noInput(h.tools.RenderStatus),
		},
	}
	if h.journal != nil {
		tools = append(tools, mcp.Tool{
			Name:        "journal_list",
			Description: "List recent tool invocations, newest first.",
			Schema:      pageArgs,
			Handler:     withInput(h.journal.List),
		})
	}
	return tools
}

func (h MCPHandler) resources() []mcp.Resource {
	return []mcp.Resource{
		{
			URI:         "resolve://system",
			Name:        "system",
			Description: "DaVinci Resolve product, version and page.",
			Handler:     func(ctx context.Context) (any, error) { return h.tools.SystemInfo(ctx) },
		},
		{
			URI:         "resolve://project",
			Name:        "project",
			Description: "The currently open project.",
			Handler:     func(ctx context.Context) (any, error) { return h.tools.CurrentProject(ctx) },
		},
		{
			URI:         "resolve://timeline",
			Name:        "timeline",
			Description: "The current timeline.",
			Handler:     func(ctx context.Context) (any, error) { return h.tools.CurrentTimeline(ctx) },
		},
	}
}

func (h MCPHandler) recorded(name string, next mcp.ToolHandler) mcp.ToolHandler {
	if h.journal == nil || name == "journal_list" {
		return next
	}
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		started := time.Now()
		out, err := next(ctx, args)
		input := journaldto.RecordInput{
			Operation:  name,
			Generation: h.conn.Status(ctx).Generation,
			StartedAt:  started,
			Duration:   time.Since(started),
			Err:        err,
		}
		if recordErr := h.journal.Record(context.WithoutCancel(ctx), input); recordErr != nil {
			h.logger.Warn("journal record failed", "tool", name, "error", recordErr)
		}
		return out, err
	}
}

func noInput[T any](fn func(context.Context) (T, error)) mcp.ToolHandler {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return fn(ctx)
	}
}

func withInput[In, Out any](fn func(context.Context, In) (Out, error)) mcp.ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in In
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		return fn(ctx, in)
	}
}

func named[Out any](fn func(context.Context, string) (Out, error)) mcp.ToolHandler {
	return withInput(func(ctx context.Context, in struct {
		Name string `json:"name"`
	}) (Out, error) {
		return fn(ctx, in.Name)
	})
}
