package service

import (
	"context"
	"fmt"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/tools/dto"
)

func (s *ToolService) RenderPresets(ctx context.Context) ([]string, error) {
	const op = "render_get_presets"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return nil, err
	}
	if err := s.requireMethod(ctx, op, project, "GetRenderPresetList"); err != nil {
		return nil, err
	}
	return s.strings(ctx, op, project, "GetRenderPresetList")
}

func (s *ToolService) AddRenderJob(ctx context.Context, input dto.RenderJobInput) (dto.RenderJob, error) {
	const op = "render_add_job"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.RenderJob{}, err
	}
	if input.Preset != "" {
		if _, err := s.require(ctx, op, fmt.Sprintf("Render preset %q not found.", input.Preset), project, "LoadRenderPreset", input.Preset); err != nil {
			return dto.RenderJob{}, err
		}
	}
	settings := map[string]any{}
	if input.TargetDir != "" {
		settings["TargetDir"] = input.TargetDir
	}
	if input.CustomName != "" {
		settings["CustomName"] = input.CustomName
	}
	if len(settings) > 0 {
		if err := s.requireMethod(ctx, op, project, "SetRenderSettings"); err != nil {
			return dto.RenderJob{}, err
		}
		if _, err := s.require(ctx, op, "The render settings were rejected.", project, "SetRenderSettings", settings); err != nil {
			return dto.RenderJob{}, err
		}
	}
	v, err := s.require(ctx, op, "Could not add a render job; is a timeline open?", project, "AddRenderJob")
	if err != nil {
		return dto.RenderJob{}, err
	}
	id, err := v.Text()
	if err != nil {
		return dto.RenderJob{}, classify(op, err)
	}
	return dto.RenderJob{JobID: id, Status: "Ready"}, nil
}

func (s *ToolService) StartRender(ctx context.Context) (dto.Result, error) {
	const op = "render_start"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, "Rendering did not start; the render queue may be empty.", project, "StartRendering"); err != nil {
		return dto.Result{}, err
	}
	return done("Rendering started."), nil
}

func (s *ToolService) RenderStatus(ctx context.Context) (dto.RenderStatus, error) {
	const op = "render_status"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.RenderStatus{}, err
	}
	v, err := s.call(ctx, op, project, "IsRenderingInProgress")
	if err != nil {
		return dto.RenderStatus{}, err
	}
	inProgress, err := v.Bool()
	if err != nil {
		return dto.RenderStatus{}, classify(op, err)
	}
	jobsValue, err := s.call(ctx, op, project, "GetRenderJobList")
	if err != nil {
		return dto.RenderStatus{}, err
	}
	var raw []struct {
		JobID        string `json:"JobId"`
		TimelineName string `json:"TimelineName"`
		Status       string `json:"Status"`
	}
	if err := jobsValue.Decode(&raw); err != nil {
		return dto.RenderStatus{}, classify(op, err)
	}
	jobs := make([]dto.RenderJob, 0, len(raw))
	for _, job := range raw {
		jobs = append(jobs, dto.RenderJob{JobID: job.JobID, TimelineName: job.TimelineName, Status: job.Status})
	}
	return dto.RenderStatus{InProgress: inProgress, Jobs: jobs}, nil
}
