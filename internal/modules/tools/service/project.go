package service

import (
	"context"
	"fmt"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
)

func (s *ToolService) ListProjects(ctx context.Context) ([]string, error) {
	const op = "project_list"
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return nil, err
	}
	return s.strings(ctx, op, pm, "GetProjectListInCurrentFolder")
}

func (s *ToolService) CurrentProject(ctx context.Context) (dto.ProjectSummary, error) {
	const op = "project_get_current"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	return s.summarizeProject(ctx, op, project)
}

func (s *ToolService) CreateProject(ctx context.Context, name string) (dto.ProjectSummary, error) {
	const op = "project_create"
	name, err := domain.RequireName("name", name)
	if err != nil {
		return dto.ProjectSummary{}, classify(op, err)
	}
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	project, err := s.requireHandle(ctx, op, fmt.Sprintf("Could not create project %q; the name may already be taken.", name), pm, "CreateProject", name)
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	return s.summarizeProject(ctx, op, project)
}

func (s *ToolService) OpenProject(ctx context.Context, name string) (dto.ProjectSummary, error) {
	const op = "project_open"
	name, err := domain.RequireName("name", name)
	if err != nil {
		return dto.ProjectSummary{}, classify(op, err)
	}
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	project, err := s.requireHandle(ctx, op, fmt.Sprintf("Project %q not found.", name), pm, "LoadProject", name)
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	return s.summarizeProject(ctx, op, project)
}

func (s *ToolService) SaveProject(ctx context.Context) (dto.Result, error) {
	const op = "project_save"
	if _, err := s.property(ctx, op, connectiondto.PropertyProject); err != nil {
		return dto.Result{}, err
	}
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, "The project could not be saved.", pm, "SaveProject"); err != nil {
		return dto.Result{}, err
	}
	return done("Project saved."), nil
}

func (s *ToolService) CloseProject(ctx context.Context) (dto.Result, error) {
	const op = "project_close"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.Result{}, err
	}
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, "The project could not be closed.", pm, "CloseProject", project); err != nil {
		return dto.Result{}, err
	}
	return done("Project closed."), nil
}

func (s *ToolService) DeleteProject(ctx context.Context, name string) (dto.Result, error) {
	const op = "project_delete"
	name, err := domain.RequireName("name", name)
	if err != nil {
		return dto.Result{}, classify(op, err)
	}
	pm, err := s.property(ctx, op, connectiondto.PropertyProjectManager)
	if err != nil {
		return dto.Result{}, err
	}
	failure := fmt.Sprintf("Could not delete project %q; it may be open or missing.", name)
	if _, err := s.require(ctx, op, failure, pm, "DeleteProject", name); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Deleted project %q.", name)), nil
}

func (s *ToolService) ProjectSetting(ctx context.Context, key string) (dto.Setting, error) {
	const op = "project_get_setting"
	key, err := domain.RequireName("key", key)
	if err != nil {
		return dto.Setting{}, classify(op, err)
	}
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.Setting{}, err
	}
	v, err := s.require(ctx, op, fmt.Sprintf("Unknown project setting %q.", key), project, "GetSetting", key)
	if err != nil {
		return dto.Setting{}, err
	}
	value, err := v.Text()
	if err != nil {
		return dto.Setting{}, classify(op, err)
	}
	return dto.Setting{Key: key, Value: value}, nil
}

func (s *ToolService) SetProjectSetting(ctx context.Context, key, value string) (dto.Result, error) {
	const op = "project_set_setting"
	key, err := domain.RequireName("key", key)
	if err != nil {
		return dto.Result{}, classify(op, err)
	}
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.Result{}, err
	}
	failure := fmt.Sprintf("Could not set %q to %q.", key, value)
	if _, err := s.require(ctx, op, failure, project, "SetSetting", key, value); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Set %s to %s.", key, value)), nil
}

func (s *ToolService) summarizeProject(ctx context.Context, op string, project connectiondto.Handle) (dto.ProjectSummary, error) {
	name, err := s.text(ctx, op, project, "GetName")
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	count, err := s.number(ctx, op, project, "GetTimelineCount")
	if err != nil {
		return dto.ProjectSummary{}, err
	}
	if count < 0 {
		return dto.ProjectSummary{}, apperrors.Rejected(op, "host reported a negative timeline count")
	}
	return dto.ProjectSummary{Name: name, TimelineCount: count}, nil
}
