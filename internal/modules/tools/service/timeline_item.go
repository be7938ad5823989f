package service

import (
	"context"
	"fmt"
	"strings"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
)

func (s *ToolService) ItemProperties(ctx context.Context, ref dto.ItemRef) (dto.ItemProperties, error) {
	const op = "item_get_properties"
	item, name, err := s.findItem(ctx, op, ref)
	if err != nil {
		return dto.ItemProperties{}, err
	}
	v, err := s.call(ctx, op, item, "GetProperty")
	if err != nil {
		return dto.ItemProperties{}, err
	}
	props := map[string]any{}
	if err := v.Decode(&props); err != nil {
		return dto.ItemProperties{}, classify(op, err)
	}
	return dto.ItemProperties{Item: name, Properties: props}, nil
}

func (s *ToolService) SetItemProperty(ctx context.Context, input dto.ItemPropertyInput) (dto.Result, error) {
	const op = "item_set_property"
	key, err := domain.RequireName("key", input.Key)
	if err != nil {
		return dto.Result{}, classify(op, err)
	}
	if input.Value == nil {
		return dto.Result{}, classify(op, fmt.Errorf("%w: value is required", apperrors.ErrInvalidInput))
	}
	item, name, err := s.findItem(ctx, op, input.ItemRef)
	if err != nil {
		return dto.Result{}, err
	}
	failure := fmt.Sprintf("Could not set %s on %q; check the key and value type.", key, name)
	if _, err := s.require(ctx, op, failure, item, "SetProperty", key, input.Value); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Set %s on %q.", key, name)), nil
}

func (s *ToolService) SetItemEnabled(ctx context.Context, input dto.ItemEnabledInput) (dto.Result, error) {
	const op = "item_set_enabled"
	item, name, err := s.findItem(ctx, op, input.ItemRef)
	if err != nil {
		return dto.Result{}, err
	}
	if err := s.requireMethod(ctx, op, item, "SetClipEnabled"); err != nil {
		return dto.Result{}, err
	}
	state := "Disabled"
	if input.Enabled {
		state = "Enabled"
	}
	if _, err := s.require(ctx, op, fmt.Sprintf("Could not change whether %q is enabled.", name), item, "SetClipEnabled", input.Enabled); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("%s %q.", state, name)), nil
}

// findItem locates the first item on one track of the current timeline whose
// name matches exactly. It returns the handle and the matched name.
func (s *ToolService) findItem(ctx context.Context, op string, ref dto.ItemRef) (connectiondto.Handle, string, error) {
	name := ref.ItemName
	if strings.TrimSpace(name) == "" {
		return connectiondto.Handle{}, "", classify(op, fmt.Errorf("%w: item_name is required", apperrors.ErrInvalidInput))
	}
	trackType, index, err := domain.ItemTrack(ref.TrackType, ref.TrackIndex)
	if err != nil {
		return connectiondto.Handle{}, "", classify(op, err)
	}
	timeline, err := s.property(ctx, op, connectiondto.PropertyTimeline)
	if err != nil {
		return connectiondto.Handle{}, "", err
	}
	items, err := s.handles(ctx, op, timeline, "GetItemListInTrack", trackType, index)
	if err != nil {
		return connectiondto.Handle{}, "", err
	}
	if len(items) == 0 {
		return connectiondto.Handle{}, "", apperrors.Rejected(op, fmt.Sprintf("Track %s %d has no items; cannot find %q.", trackType, index, name))
	}
	for _, item := range items {
		candidate, err := s.text(ctx, op, item, "GetName")
		if err != nil {
			return connectiondto.Handle{}, "", err
		}
		if candidate == name {
			return item, name, nil
		}
	}
	return connectiondto.Handle{}, "", apperrors.Rejected(op, fmt.Sprintf("Item %q not found on %s track %d.", name, trackType, index))
}
