package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"sync"

	bridgerpc "resolvemcp/internal/modules/connection/adapter/out/rpc"
)

var (
	errUnknownObject = errors.New("unknown object")
	errNoMethod      = errors.New("no such method")
	errBadArgs       = errors.New("bad arguments")
)

var (
	timecodePattern   = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[:;]\d{2}$`)
	pages             = map[string]bool{"media": true, "cut": true, "edit": true, "fusion": true, "color": true, "fairlight": true, "deliver": true}
	markerColors      = map[string]bool{"Blue": true, "Cyan": true, "Green": true, "Yellow": true, "Red": true, "Pink": true, "Purple": true, "Fuchsia": true, "Rose": true, "Lavender": true, "Sky": true, "Mint": true, "Lemon": true, "Sand": true, "Cocoa": true, "Cream": true}
	renderSettingKeys = map[string]bool{"TargetDir": true, "CustomName": true, "SelectAllFrames": true, "MarkIn": true, "MarkOut": true}
	renderPresets     = []string{"H.264 Master", "YouTube - 1080p", "ProRes 422 HQ", "Vimeo - 1080p"}
)

type handler func(w *world, self any, args []json.RawMessage) (any, error)

type simProject struct {
	name       string
	timelines  []*simTimeline
	current    *simTimeline
	settings   map[string]string
	pool       *simPool
	renderJobs []map[string]any
	nextJob    int
}

type simTimeline struct {
	name       string
	startFrame int
	endFrame   int
	startTC    string
	currentTC  string
	tracks     map[string][][]*simItem
	markers    map[int]map[string]any
}

type simItem struct {
	name    string
	start   int
	end     int
	enabled bool
	props   map[string]any
	nodes   int
	luts    map[int]string
	cdl     map[string]any
}

func newItem(name string, start, end int) *simItem {
	return &simItem{
		name:    name,
		start:   start,
		end:     end,
		enabled: true,
		props: map[string]any{
			"Pan": 0.0, "Tilt": 0.0, "ZoomX": 1.0, "ZoomY": 1.0,
			"RotationAngle": 0.0, "Opacity": 100.0, "CompositeMode": "Normal",
		},
		nodes: 1,
		luts:  map[int]string{},
	}
}

type simPool struct {
	root *simFolder
}

type simFolder struct {
	name  string
	clips []*simClip
}

type simClip struct {
	name string
	path string
}

type simRoot struct{ product string }

type simProjectManager struct{ folder string }

type simStorage struct{ label string }

// world is an in-memory stand-in for a running host application. Every
// object handed out gets a stable reference until the process exits.
type world struct {
	mu       sync.Mutex
	app      *simRoot
	manager  *simProjectManager
	storage  *simStorage
	version  []int
	page     string
	projects []*simProject
	current  *simProject
	volumes  []string
	refs     map[string]any
	ids      map[any]string
	seq      int
}

func newWorld() *world {
	w := &world{
		app:     &simRoot{product: "DaVinci Resolve Studio"},
		manager: &simProjectManager{folder: "Root"},
		storage: &simStorage{label: "Local"},
		version: []int{19, 1, 2, 3},
		page:    "edit",
		volumes: []string{"/Volumes/Media", "/Volumes/Archive"},
		refs:    map[string]any{},
		ids:     map[any]string{},
	}
	w.refs["resolve"] = w.app
	w.ids[w.app] = "resolve"

	demo := newProject("Demo")
	edit := newTimeline("Main Edit")
	for i := 1; i <= 5; i++ {
		edit.tracks["video"][0] = append(edit.tracks["video"][0], newItem(fmt.Sprintf("Shot %02d", i), 86400+(i-1)*120, 86400+i*120))
	}
	edit.tracks["audio"][0] = []*simItem{newItem("Dialogue", 86400, 87000), newItem("Music", 86400, 87200)}
	edit.endFrame = 87200
	trailer := newTimeline("Trailer")
	demo.timelines = []*simTimeline{edit, trailer}
	demo.current = edit
	for i := 1; i <= 7; i++ {
		name := fmt.Sprintf("A00%d_C00%d.mov", i, i)
		demo.pool.root.clips = append(demo.pool.root.clips, &simClip{name: name, path: path.Join("/Volumes/Media", name)})
	}
	w.projects = []*simProject{demo, newProject("Archive 2025")}
	w.current = demo
	return w
}

func newProject(name string) *simProject {
	return &simProject{
		name: name,
		settings: map[string]string{
			"timelineFrameRate":         "24",
			"timelineResolutionWidth":   "1920",
			"timelineResolutionHeight":  "1080",
			"colorScienceMode":          "davinciYRGB",
			"superScale":                "0",
			"videoMonitorFormat":        "HD 1080p 24",
			"timelinePlaybackFrameRate": "24",
			"audioCaptureNumChannels":   "2",
			"perfProxyMediaMode":        "0",
			"videoDataLevels":           "Video",
		},
		pool: &simPool{root: &simFolder{name: "Master"}},
	}
}

func newTimeline(name string) *simTimeline {
	return &simTimeline{
		name:       name,
		startFrame: 86400,
		endFrame:   86400,
		startTC:    "01:00:00:00",
		currentTC:  "01:00:00:00",
		tracks: map[string][][]*simItem{
			"video":    {nil},
			"audio":    {nil},
			"subtitle": {},
		},
		markers: map[int]map[string]any{},
	}
}

func kindOf(obj any) string {
	switch obj.(type) {
	case *simRoot:
		return "Resolve"
	case *simProjectManager:
		return "ProjectManager"
	case *simStorage:
		return "MediaStorage"
	case *simProject:
		return "Project"
	case *simTimeline:
		return "Timeline"
	case *simItem:
		return "TimelineItem"
	case *simPool:
		return "MediaPool"
	case *simFolder:
		return "Folder"
	case *simClip:
		return "MediaPoolItem"
	default:
		return "Object"
	}
}

// refFor registers obj and returns its wire reference. Callers hold w.mu.
func (w *world) refFor(obj any) bridgerpc.ObjectRef {
	if id, ok := w.ids[obj]; ok {
		return bridgerpc.ObjectRef{ID: id, Kind: kindOf(obj)}
	}
	w.seq++
	id := fmt.Sprintf("%s:%d", kindOf(obj), w.seq)
	w.ids[obj] = id
	w.refs[id] = obj
	return bridgerpc.ObjectRef{ID: id, Kind: kindOf(obj)}
}

func (w *world) root() bridgerpc.ObjectRef {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refFor(w.app)
}

func (w *world) versionParts() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.version...)
}

func (w *world) lookup(id string) (any, error) {
	obj, ok := w.refs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownObject, id)
	}
	return obj, nil
}

// Invoke runs method on the object named by target and returns the JSON
// encoded result.
func (w *world) Invoke(target, method, argsJSON string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	obj, err := w.lookup(target)
	if err != nil {
		return "", err
	}
	fn, ok := methods[kindOf(obj)][method]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", errNoMethod, kindOf(obj), method)
	}
	var args []json.RawMessage
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return "", fmt.Errorf("%w: %v", errBadArgs, err)
		}
	}
	result, err := fn(w, obj, args)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(w.encode(result))
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(raw), nil
}

func (w *world) HasMethod(target, method string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	obj, err := w.lookup(target)
	if err != nil {
		return false, err
	}
	_, ok := methods[kindOf(obj)][method]
	return ok, nil
}

// encode replaces simulated objects with references, recursing into lists.
func (w *world) encode(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case *simProject, *simTimeline, *simItem, *simPool, *simFolder, *simClip, *simRoot, *simProjectManager, *simStorage:
		return w.refFor(typed)
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, w.encode(item))
		}
		return out
	default:
		return v
	}
}

func argString(args []json.RawMessage, i int) (string, error) {
	var out string
	if i >= len(args) || json.Unmarshal(args[i], &out) != nil {
		return "", fmt.Errorf("%w: argument %d must be a string", errBadArgs, i+1)
	}
	return out, nil
}

func argInt(args []json.RawMessage, i int) (int, error) {
	var out float64
	if i >= len(args) || json.Unmarshal(args[i], &out) != nil {
		return 0, fmt.Errorf("%w: argument %d must be a number", errBadArgs, i+1)
	}
	return int(out), nil
}

func argStrings(args []json.RawMessage, i int) ([]string, error) {
	var out []string
	if i >= len(args) || json.Unmarshal(args[i], &out) != nil {
		return nil, fmt.Errorf("%w: argument %d must be a list of strings", errBadArgs, i+1)
	}
	return out, nil
}

func (w *world) argObject(args []json.RawMessage, i int) (any, error) {
	var ref bridgerpc.ObjectRef
	if i >= len(args) || json.Unmarshal(args[i], &ref) != nil || ref.ID == "" {
		return nil, fmt.Errorf("%w: argument %d must be an object reference", errBadArgs, i+1)
	}
	return w.lookup(ref.ID)
}

func (w *world) findProject(name string) *simProject {
	for _, p := range w.projects {
		if p.name == name {
			return p
		}
	}
	return nil
}

func objectList[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

var methods = map[string]map[string]handler{
	"Resolve": {
		"GetVersion": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			out := make([]any, 0, len(w.version)+1)
			for _, p := range w.version {
				out = append(out, p)
			}
			return append(out, ""), nil
		},
		"GetVersionString": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			parts := make([]string, 0, 3)
			for _, p := range w.version[:3] {
				parts = append(parts, strconv.Itoa(p))
			}
			return parts[0] + "." + parts[1] + "." + parts[2], nil
		},
		"GetProductName": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.app.product, nil
		},
		"GetCurrentPage": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.page, nil
		},
		"OpenPage": func(w *world, _ any, args []json.RawMessage) (any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !pages[name] {
				return false, nil
			}
			w.page = name
			return true, nil
		},
		"GetProjectManager": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.manager, nil
		},
		"GetMediaStorage": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.storage, nil
		},
	},
	"ProjectManager": {
		"GetProjectListInCurrentFolder": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			names := make([]string, 0, len(w.projects))
			for _, p := range w.projects {
				names = append(names, p.name)
			}
			return names, nil
		},
		"GetCurrentProject": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			if w.current == nil {
				return nil, nil
			}
			return w.current, nil
		},
		"CreateProject": func(w *world, _ any, args []json.RawMessage) (any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if name == "" || w.findProject(name) != nil {
				return nil, nil
			}
			p := newProject(name)
			w.projects = append(w.projects, p)
			w.current = p
			return p, nil
		},
		"LoadProject": func(w *world, _ any, args []json.RawMessage) (any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			p := w.findProject(name)
			if p == nil {
				return nil, nil
			}
			w.current = p
			return p, nil
		},
		"SaveProject": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.current != nil, nil
		},
		"CloseProject": func(w *world, _ any, args []json.RawMessage) (any, error) {
			obj, err := w.argObject(args, 0)
			if err != nil {
				return nil, err
			}
			p, ok := obj.(*simProject)
			if !ok || p != w.current {
				return false, nil
			}
			w.current = nil
			return true, nil
		},
		"DeleteProject": func(w *world, _ any, args []json.RawMessage) (any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			p := w.findProject(name)
			if p == nil || p == w.current {
				return false, nil
			}
			for i, candidate := range w.projects {
				if candidate == p {
					w.projects = append(w.projects[:i], w.projects[i+1:]...)
					break
				}
			}
			return true, nil
		},
	},
	"Project": {
		"GetName": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simProject).name, nil
		},
		"GetTimelineCount": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return len(self.(*simProject).timelines), nil
		},
		"GetTimelineByIndex": func(_ *world, self any, args []json.RawMessage) (any, error) {
			idx, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			p := self.(*simProject)
			if idx < 1 || idx > len(p.timelines) {
				return nil, nil
			}
			return p.timelines[idx-1], nil
		},
		"GetCurrentTimeline": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			p := self.(*simProject)
			if p.current == nil {
				return nil, nil
			}
			return p.current, nil
		},
		"SetCurrentTimeline": func(w *world, self any, args []json.RawMessage) (any, error) {
			obj, err := w.argObject(args, 0)
			if err != nil {
				return nil, err
			}
			p := self.(*simProject)
			for _, tl := range p.timelines {
				if tl == obj {
					p.current = tl
					return true, nil
				}
			}
			return false, nil
		},
		"GetMediaPool": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simProject).pool, nil
		},
		"GetSetting": func(_ *world, self any, args []json.RawMessage) (any, error) {
			p := self.(*simProject)
			if len(args) == 0 {
				return p.settings, nil
			}
			key, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			return p.settings[key], nil
		},
		"SetSetting": func(_ *world, self any, args []json.RawMessage) (any, error) {
			key, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			value, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			p := self.(*simProject)
			if _, ok := p.settings[key]; !ok {
				return false, nil
			}
			p.settings[key] = value
			return true, nil
		},
		"GetRenderPresetList": func(*world, any, []json.RawMessage) (any, error) {
			return renderPresets, nil
		},
		"LoadRenderPreset": func(_ *world, _ any, args []json.RawMessage) (any, error) {
			name, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			for _, preset := range renderPresets {
				if preset == name {
					return true, nil
				}
			}
			return false, nil
		},
		"SetRenderSettings": func(_ *world, self any, args []json.RawMessage) (any, error) {
			var settings map[string]any
			if len(args) == 0 || json.Unmarshal(args[0], &settings) != nil {
				return nil, fmt.Errorf("%w: argument 1 must be an object", errBadArgs)
			}
			p := self.(*simProject)
			for key, value := range settings {
				if !renderSettingKeys[key] {
					return false, nil
				}
				p.settings["render."+key] = fmt.Sprint(value)
			}
			return true, nil
		},
		"AddRenderJob": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			p := self.(*simProject)
			if p.current == nil {
				return "", nil
			}
			p.nextJob++
			id := fmt.Sprintf("job-%d", p.nextJob)
			p.renderJobs = append(p.renderJobs, map[string]any{
				"JobId":        id,
				"TimelineName": p.current.name,
				"Status":       "Ready",
			})
			return id, nil
		},
		"StartRendering": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			p := self.(*simProject)
			if len(p.renderJobs) == 0 {
				return false, nil
			}
			for _, job := range p.renderJobs {
				job["Status"] = "Complete"
			}
			return true, nil
		},
		"IsRenderingInProgress": func(*world, any, []json.RawMessage) (any, error) {
			return false, nil
		},
		"GetRenderJobList": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simProject).renderJobs, nil
		},
	},
	"Timeline": {
		"GetName": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simTimeline).name, nil
		},
		"GetStartFrame": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simTimeline).startFrame, nil
		},
		"GetEndFrame": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simTimeline).endFrame, nil
		},
		"GetStartTimecode": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simTimeline).startTC, nil
		},
		"GetCurrentTimecode": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simTimeline).currentTC, nil
		},
		"SetCurrentTimecode": func(_ *world, self any, args []json.RawMessage) (any, error) {
			tc, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if !timecodePattern.MatchString(tc) {
				return false, nil
			}
			self.(*simTimeline).currentTC = tc
			return true, nil
		},
		"GetTrackCount": func(_ *world, self any, args []json.RawMessage) (any, error) {
			kind, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			return len(self.(*simTimeline).tracks[kind]), nil
		},
		"GetItemListInTrack": func(_ *world, self any, args []json.RawMessage) (any, error) {
			kind, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			idx, err := argInt(args, 1)
			if err != nil {
				return nil, err
			}
			tracks := self.(*simTimeline).tracks[kind]
			if idx < 1 || idx > len(tracks) {
				return nil, nil
			}
			return objectList(tracks[idx-1]), nil
		},
		"AddMarker": func(_ *world, self any, args []json.RawMessage) (any, error) {
			frame, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			color, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			name, _ := argString(args, 2)
			note, _ := argString(args, 3)
			duration, err := argInt(args, 4)
			if err != nil {
				duration = 1
			}
			tl := self.(*simTimeline)
			if _, exists := tl.markers[frame]; exists || !markerColors[color] || duration < 1 {
				return false, nil
			}
			tl.markers[frame] = map[string]any{"color": color, "name": name, "note": note, "duration": duration}
			return true, nil
		},
		"GetMarkers": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			tl := self.(*simTimeline)
			frames := make([]int, 0, len(tl.markers))
			for frame := range tl.markers {
				frames = append(frames, frame)
			}
			sort.Ints(frames)
			out := make(map[string]any, len(frames))
			for _, frame := range frames {
				out[strconv.Itoa(frame)] = tl.markers[frame]
			}
			return out, nil
		},
	},
	"TimelineItem": {
		"GetName": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simItem).name, nil
		},
		"GetStart": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simItem).start, nil
		},
		"GetEnd": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simItem).end, nil
		},
		"GetDuration": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			item := self.(*simItem)
			return item.end - item.start, nil
		},
		"GetProperty": func(_ *world, self any, args []json.RawMessage) (any, error) {
			item := self.(*simItem)
			if len(args) == 0 {
				return item.props, nil
			}
			key, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			return item.props[key], nil
		},
		"SetProperty": func(_ *world, self any, args []json.RawMessage) (any, error) {
			key, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			var value any
			if len(args) < 2 || json.Unmarshal(args[1], &value) != nil {
				return nil, fmt.Errorf("%w: argument 2 must be a value", errBadArgs)
			}
			item := self.(*simItem)
			current, ok := item.props[key]
			if !ok || fmt.Sprintf("%T", current) != fmt.Sprintf("%T", value) {
				return false, nil
			}
			item.props[key] = value
			return true, nil
		},
		"GetClipEnabled": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simItem).enabled, nil
		},
		"SetClipEnabled": func(_ *world, self any, args []json.RawMessage) (any, error) {
			var enabled bool
			if len(args) == 0 || json.Unmarshal(args[0], &enabled) != nil {
				return nil, fmt.Errorf("%w: argument 1 must be a boolean", errBadArgs)
			}
			self.(*simItem).enabled = enabled
			return true, nil
		},
		"GetNumNodes": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simItem).nodes, nil
		},
		"SetLUT": func(_ *world, self any, args []json.RawMessage) (any, error) {
			node, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			lut, err := argString(args, 1)
			if err != nil {
				return nil, err
			}
			item := self.(*simItem)
			if node < 1 || node > item.nodes || path.Ext(lut) != ".cube" {
				return false, nil
			}
			item.luts[node] = lut
			return true, nil
		},
		"GetLUT": func(_ *world, self any, args []json.RawMessage) (any, error) {
			node, err := argInt(args, 0)
			if err != nil {
				return nil, err
			}
			return self.(*simItem).luts[node], nil
		},
		"SetCDL": func(_ *world, self any, args []json.RawMessage) (any, error) {
			var cdl map[string]any
			if len(args) == 0 || json.Unmarshal(args[0], &cdl) != nil {
				return nil, fmt.Errorf("%w: argument 1 must be an object", errBadArgs)
			}
			for _, key := range []string{"Slope", "Offset", "Power", "Saturation"} {
				if _, ok := cdl[key]; !ok {
					return false, nil
				}
			}
			self.(*simItem).cdl = cdl
			return true, nil
		},
	},
	"MediaPool": {
		"GetRootFolder": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simPool).root, nil
		},
		"ImportMedia": func(_ *world, self any, args []json.RawMessage) (any, error) {
			paths, err := argStrings(args, 0)
			if err != nil {
				return nil, err
			}
			root := self.(*simPool).root
			imported := make([]*simClip, 0, len(paths))
			for _, p := range paths {
				if p == "" {
					continue
				}
				clip := &simClip{name: path.Base(p), path: p}
				root.clips = append(root.clips, clip)
				imported = append(imported, clip)
			}
			return objectList(imported), nil
		},
	},
	"Folder": {
		"GetName": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simFolder).name, nil
		},
		"GetClipList": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return objectList(self.(*simFolder).clips), nil
		},
	},
	"MediaPoolItem": {
		"GetName": func(_ *world, self any, _ []json.RawMessage) (any, error) {
			return self.(*simClip).name, nil
		},
		"GetClipProperty": func(_ *world, self any, args []json.RawMessage) (any, error) {
			key, err := argString(args, 0)
			if err != nil {
				return nil, err
			}
			if key == "File Path" {
				return self.(*simClip).path, nil
			}
			return "", nil
		},
	},
	"MediaStorage": {
		"GetMountedVolumeList": func(w *world, _ any, _ []json.RawMessage) (any, error) {
			return w.volumes, nil
		},
	},
}
