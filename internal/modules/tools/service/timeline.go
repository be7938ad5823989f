package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
	"resolvemcp/internal/platform/page"
)

func (s *ToolService) CurrentTimeline(ctx context.Context) (dto.TimelineInfo, error) {
	const op = "timeline_get_current"
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return dto.TimelineInfo{}, err
	}
	var info dto.TimelineInfo
	if info.Name, err = s.text(ctx, op, timeline, "GetName"); err != nil {
		return dto.TimelineInfo{}, err
	}
	if info.StartFrame, err = s.number(ctx, op, timeline, "GetStartFrame"); err != nil {
		return dto.TimelineInfo{}, err
	}
	if info.EndFrame, err = s.number(ctx, op, timeline, "GetEndFrame"); err != nil {
		return dto.TimelineInfo{}, err
	}
	if info.StartTimecode, err = s.text(ctx, op, timeline, "GetStartTimecode"); err != nil {
		return dto.TimelineInfo{}, err
	}
	if info.CurrentTimecode, err = s.text(ctx, op, timeline, "GetCurrentTimecode"); err != nil {
		return dto.TimelineInfo{}, err
	}
	counts := map[string]*int{"video": &info.VideoTracks, "audio": &info.AudioTracks, "subtitle": &info.SubtitleTracks}
	for _, trackType := range domain.TrackTypes {
		if *counts[trackType], err = s.number(ctx, op, timeline, "GetTrackCount", trackType); err != nil {
			return dto.TimelineInfo{}, err
		}
	}
	return info, nil
}

func (s *ToolService) ListTimelines(ctx context.Context) ([]dto.TimelineSummary, error) {
	const op = "timeline_list"
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return nil, err
	}
	timelines, err := s.timelines(ctx, op, project)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TimelineSummary, 0, len(timelines))
	for i, tl := range timelines {
		name, err := s.text(ctx, op, tl, "GetName")
		if err != nil {
			return nil, err
		}
		out = append(out, dto.TimelineSummary{Index: i + 1, Name: name})
	}
	return out, nil
}

func (s *ToolService) SetCurrentTimeline(ctx context.Context, name string) (dto.Result, error) {
	const op = "timeline_set_current"
	name, err := domain.RequireName("name", name)
	if err != nil {
		return dto.Result{}, classify(op, err)
	}
	project, err := s.property(ctx, op, connectiondto.PropertyProject)
	if err != nil {
		return dto.Result{}, err
	}
	timelines, err := s.timelines(ctx, op, project)
	if err != nil {
		return dto.Result{}, err
	}
	for _, tl := range timelines {
		candidate, err := s.text(ctx, op, tl, "GetName")
		if err != nil {
			return dto.Result{}, err
		}
		if candidate != name {
			continue
		}
		if _, err := s.require(ctx, op, fmt.Sprintf("Could not switch to timeline %q.", name), project, "SetCurrentTimeline", tl); err != nil {
			return dto.Result{}, err
		}
		return done(fmt.Sprintf("Switched to timeline %q.", name)), nil
	}
	return dto.Result{}, apperrors.Rejected(op, fmt.Sprintf("Timeline %q not found.", name))
}

// TimelineItems pages over one track. Item details are fetched only for the
// requested window.
func (s *ToolService) TimelineItems(ctx context.Context, input dto.ItemsInput) (page.Page[dto.TimelineItem], error) {
	const op = "timeline_get_items"
	if err := domain.ValidateTrack(input.TrackType, input.TrackIndex); err != nil {
		return page.Page[dto.TimelineItem]{}, classify(op, err)
	}
	offset, limit := domain.Window(input.Offset, input.Limit, s.defaultLimit, s.maxLimit)
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return page.Page[dto.TimelineItem]{}, err
	}
	count, err := s.number(ctx, op, timeline, "GetTrackCount", input.TrackType)
	if err != nil {
		return page.Page[dto.TimelineItem]{}, err
	}
	if input.TrackIndex > count {
		return page.Page[dto.TimelineItem]{}, apperrors.Rejected(op, fmt.Sprintf("Track %s %d does not exist; the timeline has %d.", input.TrackType, input.TrackIndex, count))
	}
	items, err := s.handles(ctx, op, timeline, "GetItemListInTrack", input.TrackType, input.TrackIndex)
	if err != nil {
		return page.Page[dto.TimelineItem]{}, err
	}
	window, err := page.Paginate(items, offset, limit)
	if err != nil {
		return page.Page[dto.TimelineItem]{}, classify(op, err)
	}
	return detailPage(window, func(h connectiondto.Handle) (dto.TimelineItem, error) {
		var item dto.TimelineItem
		var err error
		if item.Name, err = s.text(ctx, op, h, "GetName"); err != nil {
			return item, err
		}
		if item.Start, err = s.number(ctx, op, h, "GetStart"); err != nil {
			return item, err
		}
		if item.End, err = s.number(ctx, op, h, "GetEnd"); err != nil {
			return item, err
		}
		item.Duration, err = s.number(ctx, op, h, "GetDuration")
		return item, err
	})
}

func (s *ToolService) AddMarker(ctx context.Context, input dto.MarkerInput) (dto.Result, error) {
	const op = "timeline_add_marker"
	if input.Color == "" {
		input.Color = domain.DefaultMarkerColor
	}
	if input.Duration == 0 {
		input.Duration = 1
	}
	if err := domain.ValidateMarker(input.Frame, input.Color, input.Duration); err != nil {
		return dto.Result{}, classify(op, err)
	}
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return dto.Result{}, err
	}
	failure := fmt.Sprintf("Could not add a marker at frame %d; one may already exist there.", input.Frame)
	if _, err := s.require(ctx, op, failure, timeline, "AddMarker", input.Frame, input.Color, input.Name, input.Note, input.Duration); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Added %s marker at frame %d.", input.Color, input.Frame)), nil
}

func (s *ToolService) Markers(ctx context.Context) ([]dto.Marker, error) {
	const op = "timeline_get_markers"
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return nil, err
	}
	v, err := s.call(ctx, op, timeline, "GetMarkers")
	if err != nil {
		return nil, err
	}
	raw := map[string]dto.Marker{}
	if err := v.Decode(&raw); err != nil {
		return nil, classify(op, err)
	}
	out := make([]dto.Marker, 0, len(raw))
	for key, marker := range raw {
		frame, err := strconv.Atoi(key)
		if err != nil {
			return nil, apperrors.Rejected(op, fmt.Sprintf("host returned a marker at non-numeric frame %q", key))
		}
		marker.Frame = frame
		out = append(out, marker)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out, nil
}

func (s *ToolService) Timecode(ctx context.Context) (dto.Timecode, error) {
	const op = "playback_get_timecode"
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return dto.Timecode{}, err
	}
	v, err := s.require(ctx, op, "The host returned no timecode.", timeline, "GetCurrentTimecode")
	if err != nil {
		return dto.Timecode{}, err
	}
	tc, err := v.Text()
	if err != nil {
		return dto.Timecode{}, classify(op, err)
	}
	return dto.Timecode{Timecode: tc}, nil
}

func (s *ToolService) SetTimecode(ctx context.Context, timecode string) (dto.Result, error) {
	const op = "playback_set_timecode"
	if err := domain.ValidateTimecode(timecode); err != nil {
		return dto.Result{}, classify(op, err)
	}
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, fmt.Sprintf("Could not move the playhead to %s.", timecode), timeline, "SetCurrentTimecode", timecode); err != nil {
		return dto.Result{}, err
	}
	return done("Playhead moved to " + timecode + "."), nil
}

func (s *ToolService) timelines(ctx context.Context, op string, project connectiondto.Handle) ([]connectiondto.Handle, error) {
	count, err := s.number(ctx, op, project, "GetTimelineCount")
	if err != nil {
		return nil, err
	}
	out := make([]connectiondto.Handle, 0, max(count, 0))
	for i := 1; i <= count; i++ {
		tl, err := s.requireHandle(ctx, op, fmt.Sprintf("Timeline %d disappeared while listing.", i), project, "GetTimelineByIndex", i)
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	return out, nil
}

func detailPage[T any](window page.Page[connectiondto.Handle], fetch func(connectiondto.Handle) (T, error)) (page.Page[T], error) {
	items := make([]T, 0, len(window.Items))
	for _, h := range window.Items {
		item, err := fetch(h)
		if err != nil {
			return page.Page[T]{}, err
		}
		items = append(items, item)
	}
	return page.Page[T]{Items: items, Total: window.Total, Offset: window.Offset, Limit: window.Limit, HasMore: window.HasMore}, nil
}
