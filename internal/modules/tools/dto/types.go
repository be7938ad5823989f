package dto

type PageInput struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ItemsInput struct {
	TrackType  string `json:"track_type"`
	TrackIndex int    `json:"track_index"`
	PageInput
}

// ItemRef names a timeline item by its display name on one track. An empty
// track selects video track 1.
type ItemRef struct {
	ItemName   string `json:"item_name"`
	TrackType  string `json:"track_type"`
	TrackIndex int    `json:"track_index"`
}

type ItemPropertyInput struct {
	ItemRef
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type ItemEnabledInput struct {
	ItemRef
	Enabled bool `json:"enabled"`
}

type LUTInput struct {
	ItemRef
	NodeIndex int    `json:"node_index"`
	LUTPath   string `json:"lut_path"`
}

type MarkerInput struct {
	Frame    int    `json:"frame"`
	Color    string `json:"color"`
	Name     string `json:"name"`
	Note     string `json:"note"`
	Duration int    `json:"duration"`
}

type RenderJobInput struct {
	Preset     string `json:"preset"`
	TargetDir  string `json:"target_dir"`
	CustomName string `json:"custom_name"`
}

type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type SystemInfo struct {
	Product    string `json:"product"`
	Version    string `json:"version"`
	Page       string `json:"page"`
	Generation uint64 `json:"generation"`
}

type ProjectSummary struct {
	Name          string `json:"name"`
	TimelineCount int    `json:"timeline_count"`
}

type TimelineSummary struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type TimelineInfo struct {
	Name            string `json:"name"`
	StartFrame      int    `json:"start_frame"`
	EndFrame        int    `json:"end_frame"`
	StartTimecode   string `json:"start_timecode"`
	CurrentTimecode string `json:"current_timecode"`
	VideoTracks     int    `json:"video_tracks"`
	AudioTracks     int    `json:"audio_tracks"`
	SubtitleTracks  int    `json:"subtitle_tracks"`
}

type TimelineItem struct {
	Name     string `json:"name"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Duration int    `json:"duration"`
}

type ItemProperties struct {
	Item       string         `json:"item"`
	Properties map[string]any `json:"properties"`
}

type NodeCount struct {
	Item  string `json:"item"`
	Nodes int    `json:"nodes"`
}

type Marker struct {
	Frame    int    `json:"frame"`
	Color    string `json:"color"`
	Name     string `json:"name"`
	Note     string `json:"note"`
	Duration int    `json:"duration"`
}

type Clip struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path,omitempty"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Timecode struct {
	Timecode string `json:"timecode"`
}

type RenderJob struct {
	JobID        string `json:"job_id"`
	TimelineName string `json:"timeline_name,omitempty"`
	Status       string `json:"status,omitempty"`
}

type RenderStatus struct {
	InProgress bool        `json:"in_progress"`
	Jobs       []RenderJob `json:"jobs"`
}

// CheckReport is the connection diagnostic. Sections that could not be read
// carry their error text instead of failing the whole report.
type CheckReport struct {
	System          SystemInfo      `json:"system"`
	Projects        []string        `json:"projects"`
	CurrentProject  *ProjectSummary `json:"current_project,omitempty"`
	CurrentTimeline *TimelineInfo   `json:"current_timeline,omitempty"`
	Volumes         []string        `json:"volumes"`
	Problems        []string        `json:"problems,omitempty"`
}
