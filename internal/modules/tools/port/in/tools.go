package in

import (
	"context"

	"resolvemcp/internal/modules/tools/dto"
	"resolvemcp/internal/platform/page"
)

type Usecase interface {
	SystemInfo(ctx context.Context) (dto.SystemInfo, error)
	OpenPage(ctx context.Context, name string) (dto.Result, error)

	ListProjects(ctx context.Context) ([]string, error)
	CurrentProject(ctx context.Context) (dto.ProjectSummary, error)
	CreateProject(ctx context.Context, name string) (dto.ProjectSummary, error)
	OpenProject(ctx context.Context, name string) (dto.ProjectSummary, error)
	SaveProject(ctx context.Context) (dto.Result, error)
	CloseProject(ctx context.Context) (dto.Result, error)
	DeleteProject(ctx context.Context, name string) (dto.Result, error)
	ProjectSetting(ctx context.Context, key string) (dto.Setting, error)
	SetProjectSetting(ctx context.Context, key, value string) (dto.Result, error)

	CurrentTimeline(ctx context.Context) (dto.TimelineInfo, error)
	ListTimelines(ctx context.Context) ([]dto.TimelineSummary, error)
	SetCurrentTimeline(ctx context.Context, name string) (dto.Result, error)
	TimelineItems(ctx context.Context, input dto.ItemsInput) (page.Page[dto.TimelineItem], error)
	AddMarker(ctx context.Context, input dto.MarkerInput) (dto.Result, error)
	Markers(ctx context.Context) ([]dto.Marker, error)

	ItemProperties(ctx context.Context, ref dto.ItemRef) (dto.ItemProperties, error)
	SetItemProperty(ctx context.Context, input dto.ItemPropertyInput) (dto.Result, error)
	SetItemEnabled(ctx context.Context, input dto.ItemEnabledInput) (dto.Result, error)

	NodeCount(ctx context.Context, ref dto.ItemRef) (dto.NodeCount, error)
	SetLUT(ctx context.Context, input dto.LUTInput) (dto.Result, error)
	ResetGrade(ctx context.Context, ref dto.ItemRef) (dto.Result, error)

	MediaPoolClips(ctx context.Context, input dto.PageInput) (page.Page[dto.Clip], error)
	ImportMedia(ctx context.Context, paths []string) ([]dto.Clip, error)
	Volumes(ctx context.Context) ([]string, error)

	Timecode(ctx context.Context) (dto.Timecode, error)
	SetTimecode(ctx context.Context, timecode string) (dto.Result, error)

	RenderPresets(ctx context.Context) ([]string, error)
	AddRenderJob(ctx context.Context, input dto.RenderJobInput) (dto.RenderJob, error)
	StartRender(ctx context.Context) (dto.Result, error)
	RenderStatus(ctx context.Context) (dto.RenderStatus, error)

	Check(ctx context.Context) (dto.CheckReport, error)
}
