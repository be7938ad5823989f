package usecase

import (
	"context"

	"resolvemcp/internal/modules/tools/dto"
	toolsin "resolvemcp/internal/modules/tools/port/in"
	"resolvemcp/internal/modules/tools/service"
	"resolvemcp/internal/platform/page"
)

type Interactor struct {
	svc *service.ToolService
}

func NewInteractor(svc *service.ToolService) toolsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SystemInfo(ctx context.Context) (dto.SystemInfo, error) {
	return i.svc.SystemInfo(ctx)
}

func (i *Interactor) OpenPage(ctx context.Context, name string) (dto.Result, error) {
	return i.svc.OpenPage(ctx, name)
}

func (i *Interactor) ListProjects(ctx context.Context) ([]string, error) {
	return i.svc.ListProjects(ctx)
}

func (i *Interactor) CurrentProject(ctx context.Context) (dto.ProjectSummary, error) {
	return i.svc.CurrentProject(ctx)
}

func (i *Interactor) CreateProject(ctx context.Context, name string) (dto.ProjectSummary, error) {
	return i.svc.CreateProject(ctx, name)
}

func (i *Interactor) OpenProject(ctx context.Context, name string) (dto.ProjectSummary, error) {
	return i.svc.OpenProject(ctx, name)
}

func (i *Interactor) SaveProject(ctx context.Context) (dto.Result, error) {
	return i.svc.SaveProject(ctx)
}

func (i *Interactor) CloseProject(ctx context.Context) (dto.Result, error) {
	return i.svc.CloseProject(ctx)
}

func (i *Interactor) DeleteProject(ctx context.Context, name string) (dto.Result, error) {
	return i.svc.DeleteProject(ctx, name)
}

func (i *Interactor) ProjectSetting(ctx context.Context, key string) (dto.Setting, error) {
	return i.svc.ProjectSetting(ctx, key)
}

func (i *Interactor) SetProjectSetting(ctx context.Context, key, value string) (dto.Result, error) {
	return i.svc.SetProjectSetting(ctx, key, value)
}

func (i *Interactor) CurrentTimeline(ctx context.Context) (dto.TimelineInfo, error) {
	return i.svc.CurrentTimeline(ctx)
}

func (i *Interactor) ListTimelines(ctx context.Context) ([]dto.TimelineSummary, error) {
	return i.svc.ListTimelines(ctx)
}

func (i *Interactor) SetCurrentTimeline(ctx context.Context, name string) (dto.Result, error) {
	return i.svc.SetCurrentTimeline(ctx, name)
}

func (i *Interactor) TimelineItems(ctx context.Context, input dto.ItemsInput) (page.Page[dto.TimelineItem], error) {
	return i.svc.TimelineItems(ctx, input)
}

func (i *Interactor) AddMarker(ctx context.Context, input dto.MarkerInput) (dto.Result, error) {
	return i.svc.AddMarker(ctx, input)
}

func (i *Interactor) Markers(ctx context.Context) ([]dto.Marker, error) {
	return i.svc.Markers(ctx)
}

func (i *Interactor) ItemProperties(ctx context.Context, ref dto.ItemRef) (dto.ItemProperties, error) {
	return i.svc.ItemProperties(ctx, ref)
}

func (i *Interactor) SetItemProperty(ctx context.Context, input dto.ItemPropertyInput) (dto.Result, error) {
	return i.svc.SetItemProperty(ctx, input)
}

func (i *Interactor) SetItemEnabled(ctx context.Context, input dto.ItemEnabledInput) (dto.Result, error) {
	return i.svc.SetItemEnabled(ctx, input)
}

func (i *Interactor) NodeCount(ctx context.Context, ref dto.ItemRef) (dto.NodeCount, error) {
	return i.svc.NodeCount(ctx, ref)
}

func (i *Interactor) SetLUT(ctx context.Context, input dto.LUTInput) (dto.Result, error) {
	return i.svc.SetLUT(ctx, input)
}

func (i *Interactor) ResetGrade(ctx context.Context, ref dto.ItemRef) (dto.Result, error) {
	return i.svc.ResetGrade(ctx, ref)
}

func (i *Interactor) MediaPoolClips(ctx context.Context, input dto.PageInput) (page.Page[dto.Clip], error) {
	return i.svc.MediaPoolClips(ctx, input)
}

func (i *Interactor) ImportMedia(ctx context.Context, paths []string) ([]dto.Clip, error) {
	return i.svc.ImportMedia(ctx, paths)
}

func (i *Interactor) Volumes(ctx context.Context) ([]string, error) {
	return i.svc.Volumes(ctx)
}

func (i *Interactor) Timecode(ctx context.Context) (dto.Timecode, error) {
	return i.svc.Timecode(ctx)
}

func (i *Interactor) SetTimecode(ctx context.Context, timecode string) (dto.Result, error) {
	return i.svc.SetTimecode(ctx, timecode)
}

func (i *Interactor) RenderPresets(ctx context.Context) ([]string, error) {
	return i.svc.RenderPresets(ctx)
}

func (i *Interactor) AddRenderJob(ctx context.Context, input dto.RenderJobInput) (dto.RenderJob, error) {
	return i.svc.AddRenderJob(ctx, input)
}

func (i *Interactor) StartRender(ctx context.Context) (dto.Result, error) {
	return i.svc.StartRender(ctx)
}

func (i *Interactor) RenderStatus(ctx context.Context) (dto.RenderStatus, error) {
	return i.svc.RenderStatus(ctx)
}

func (i *Interactor) Check(ctx context.Context) (dto.CheckReport, error) {
	return i.svc.Check(ctx)
}
