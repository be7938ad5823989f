package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	hclog "github.com/hashicorp/go-hclog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bridgerpc "resolvemcp/internal/modules/connection/adapter/out/rpc"
)

func decodeRef(t *testing.T, raw string) bridgerpc.ObjectRef {
	t.Helper()
	var ref bridgerpc.ObjectRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil || ref.ID == "" {
		t.Fatalf("expected object reference, got %s (%v)", raw, err)
	}
	return ref
}

func TestWorldNavigatesObjectGraph(t *testing.T) {
	t.Parallel()
	w := newWorld()
	root := w.root()

	raw, err := w.Invoke(root.ID, "GetProjectManager", "[]")
	if err != nil {
		t.Fatalf("project manager: %v", err)
	}
	pm := decodeRef(t, raw)
	again, _ := w.Invoke(root.ID, "GetProjectManager", "")
	if decodeRef(t, again).ID != pm.ID {
		t.Fatalf("references must be stable")
	}

	raw, err = w.Invoke(pm.ID, "GetCurrentProject", "[]")
	if err != nil {
		t.Fatalf("current project: %v", err)
	}
	project := decodeRef(t, raw)
	if project.Kind != "Project" {
		t.Fatalf("unexpected kind %q", project.Kind)
	}

	raw, err = w.Invoke(project.ID, "GetCurrentTimeline", "[]")
	if err != nil {
		t.Fatalf("current timeline: %v", err)
	}
	timeline := decodeRef(t, raw)
	raw, err = w.Invoke(timeline.ID, "GetItemListInTrack", `["video",1]`)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	var items []bridgerpc.ObjectRef
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) != 5 {
		t.Fatalf("expected 5 items, got %s (%v)", raw, err)
	}
}

func TestWorldSentinelsAndErrors(t *testing.T) {
	t.Parallel()
	w := newWorld()
	raw, _ := w.Invoke(w.root().ID, "GetProjectManager", "[]")
	pm := decodeRef(t, raw)

	if raw, err := w.Invoke(pm.ID, "LoadProject", `["Missing"]`); err != nil || raw != "null" {
		t.Fatalf("expected null for missing project, got %s %v", raw, err)
	}
	if raw, err := w.Invoke(w.root().ID, "OpenPage", `["nowhere"]`); err != nil || raw != "false" {
		t.Fatalf("expected false for unknown page, got %s %v", raw, err)
	}
	if _, err := w.Invoke("Project:999", "GetName", "[]"); !errors.Is(err, errUnknownObject) {
		t.Fatalf("expected unknown object, got %v", err)
	}
	if _, err := w.Invoke(pm.ID, "Explode", "[]"); !errors.Is(err, errNoMethod) {
		t.Fatalf("expected missing method, got %v", err)
	}
	if _, err := w.Invoke(pm.ID, "CreateProject", `[42]`); !errors.Is(err, errBadArgs) {
		t.Fatalf("expected bad args, got %v", err)
	}
}

func TestServerStatusCodes(t *testing.T) {
	t.Parallel()
	s := newServer(false, hclog.NewNullLogger())
	ctx := context.Background()

	acquired, err := s.Acquire(ctx, &bridgerpc.AcquireRequest{App: "Resolve"})
	if err != nil || acquired.Root.ID == "" {
		t.Fatalf("acquire: %+v %v", acquired, err)
	}
	version, err := s.GetVersion(ctx, &bridgerpc.VersionRequest{Root: acquired.Root.ID})
	if err != nil || len(version.Parts) < 3 {
		t.Fatalf("version: %+v %v", version, err)
	}
	_, err = s.Call(ctx, &bridgerpc.CallRequest{Target: "gone", Method: "GetName"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	supported, err := s.HasMethod(ctx, &bridgerpc.HasMethodRequest{Target: acquired.Root.ID, Method: "GetFusion"})
	if err != nil || supported.Supported {
		t.Fatalf("expected GetFusion unsupported, got %+v %v", supported, err)
	}

	offline := newServer(true, hclog.NewNullLogger())
	resp, err := offline.Acquire(ctx, &bridgerpc.AcquireRequest{App: "Resolve"})
	if err != nil || resp.Root.ID != "" {
		t.Fatalf("offline host must return an empty root, got %+v %v", resp, err)
	}
}

func TestWorldTimelineItemGrade(t *testing.T) {
	t.Parallel()
	w := newWorld()
	raw, _ := w.Invoke(w.root().ID, "GetProjectManager", "[]")
	raw, _ = w.Invoke(decodeRef(t, raw).ID, "GetCurrentProject", "[]")
	raw, _ = w.Invoke(decodeRef(t, raw).ID, "GetCurrentTimeline", "[]")
	raw, err := w.Invoke(decodeRef(t, raw).ID, "GetItemListInTrack", `["video",1]`)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	var items []bridgerpc.ObjectRef
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) == 0 {
		t.Fatalf("expected items, got %s (%v)", raw, err)
	}
	item := items[0].ID

	cases := []struct {
		method string
		args   string
		want   string
	}{
		{method: "SetProperty", args: `["ZoomX",1.5]`, want: "true"},
		{method: "SetProperty", args: `["ZoomX","big"]`, want: "false"},
		{method: "SetProperty", args: `["Bogus",1]`, want: "false"},
		{method: "GetProperty", args: `["ZoomX"]`, want: "1.5"},
		{method: "SetClipEnabled", args: `[false]`, want: "true"},
		{method: "GetClipEnabled", args: `[]`, want: "false"},
		{method: "GetNumNodes", args: `[]`, want: "1"},
		{method: "SetLUT", args: `[2,"/luts/a.cube"]`, want: "false"},
		{method: "SetLUT", args: `[1,"/luts/a.cube"]`, want: "true"},
		{method: "GetLUT", args: `[1]`, want: `"/luts/a.cube"`},
		{method: "SetCDL", args: `[{"Slope":[1,1,1]}]`, want: "false"},
		{method: "SetCDL", args: `[{"Slope":[1,1,1],"Offset":[0,0,0],"Power":[1,1,1],"Saturation":1}]`, want: "true"},
	}
	for _, tc := range cases {
		got, err := w.Invoke(item, tc.method, tc.args)
		if err != nil || got != tc.want {
			t.Fatalf("%s %s: got %s %v, want %s", tc.method, tc.args, got, err, tc.want)
		}
	}
}
