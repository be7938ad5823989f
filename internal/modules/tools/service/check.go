package service

import (
	"context"
	"errors"

	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
)

// Check gathers a connection diagnostic. Only an unreachable host fails the
// report; rejected sections are listed as problems.
func (s *ToolService) Check(ctx context.Context) (dto.CheckReport, error) {
	system, err := s.SystemInfo(ctx)
	if err != nil {
		return dto.CheckReport{}, err
	}
	report := dto.CheckReport{System: system, Projects: []string{}, Volumes: []string{}}
	note := func(err error) error {
		if errors.Is(err, apperrors.ErrHostUnavailable) {
			return err
		}
		report.Problems = append(report.Problems, err.Error())
		return nil
	}

	if projects, err := s.ListProjects(ctx); err != nil {
		if err := note(err); err != nil {
			return dto.CheckReport{}, err
		}
	} else {
		report.Projects = projects
	}
	if project, err := s.CurrentProject(ctx); err != nil {
		if err := note(err); err != nil {
			return dto.CheckReport{}, err
		}
	} else {
		report.CurrentProject = &project
	}
	if report.CurrentProject != nil {
		if timeline, err := s.CurrentTimeline(ctx); err != nil {
			if err := note(err); err != nil {
				return dto.CheckReport{}, err
			}
		} else {
			report.CurrentTimeline = &timeline
		}
	}
	if volumes, err := s.Volumes(ctx); err != nil {
		if err := note(err); err != nil {
			return dto.CheckReport{}, err
		}
	} else {
		report.Volumes = volumes
	}
	return report, nil
}
