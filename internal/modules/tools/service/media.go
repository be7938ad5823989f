package service

import (
	"context"
	"strings"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
	"resolvemcp/internal/platform/page"
)

func (s *ToolService) MediaPoolClips(ctx context.Context, input dto.PageInput) (page.Page[dto.Clip], error) {
	const op = "media_pool_get_clips"
	offset, limit := domain.Window(input.Offset, input.Limit, s.defaultLimit, s.maxLimit)
	pool, err := s.property(ctx, op, connectiondto.PropertyMediaPool)
	if err != nil {
		return page.Page[dto.Clip]{}, err
	}
	folder, err := s.requireHandle(ctx, op, "The media pool has no root folder.", pool, "GetRootFolder")
	if err != nil {
		return page.Page[dto.Clip]{}, err
	}
	clips, err := s.handles(ctx, op, folder, "GetClipList")
	if err != nil {
		return page.Page[dto.Clip]{}, err
	}
	window, err := page.Paginate(clips, offset, limit)
	if err != nil {
		return page.Page[dto.Clip]{}, classify(op, err)
	}
	return detailPage(window, func(h connectiondto.Handle) (dto.Clip, error) {
		return s.describeClip(ctx, op, h)
	})
}

func (s *ToolService) ImportMedia(ctx context.Context, paths []string) ([]dto.Clip, error) {
	const op = "media_pool_import"
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.Rejected(op, "at least one file path is required")
	}
	pool, err := s.property(ctx, op, connectiondto.PropertyMediaPool)
	if err != nil {
		return nil, err
	}
	imported, err := s.handles(ctx, op, pool, "ImportMedia", cleaned)
	if err != nil {
		return nil, err
	}
	if len(imported) == 0 {
		return nil, apperrors.Rejected(op, "No media was imported; check that the paths exist and are supported.")
	}
	out := make([]dto.Clip, 0, len(imported))
	for _, h := range imported {
		clip, err := s.describeClip(ctx, op, h)
		if err != nil {
			return nil, err
		}
		out = append(out, clip)
	}
	return out, nil
}

func (s *ToolService) Volumes(ctx context.Context) ([]string, error) {
	const op = "media_storage_get_volumes"
	storage, err := s.property(ctx, op, connectiondto.PropertyMediaStorage)
	if err != nil {
		return nil, err
	}
	return s.strings(ctx, op, storage, "GetMountedVolumeList")
}

func (s *ToolService) describeClip(ctx context.Context, op string, h connectiondto.Handle) (dto.Clip, error) {
	name, err := s.text(ctx, op, h, "GetName")
	if err != nil {
		return dto.Clip{}, err
	}
	clip := dto.Clip{Name: name}
	if supported, err := s.conn.Supports(ctx, h, "GetClipProperty"); err == nil && supported {
		if path, err := s.text(ctx, op, h, "GetClipProperty", "File Path"); err == nil {
			clip.FilePath = path
		}
	}
	return clip, nil
}
