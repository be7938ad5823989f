package service

import (
	"context"
	"fmt"

	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
)

// Color operations act on one timeline item's grade. The grading methods
// vary between host versions, so each is checked before it is called.

func (s *ToolService) NodeCount(ctx context.Context, ref dto.ItemRef) (dto.NodeCount, error) {
	const op = "color_get_num_nodes"
	item, name, err := s.findItem(ctx, op, ref)
	if err != nil {
		return dto.NodeCount{}, err
	}
	if err := s.requireMethod(ctx, op, item, "GetNumNodes"); err != nil {
		return dto.NodeCount{}, err
	}
	nodes, err := s.number(ctx, op, item, "GetNumNodes")
	if err != nil {
		return dto.NodeCount{}, err
	}
	return dto.NodeCount{Item: name, Nodes: nodes}, nil
}

func (s *ToolService) SetLUT(ctx context.Context, input dto.LUTInput) (dto.Result, error) {
	const op = "color_set_lut"
	if err := domain.ValidateNodeIndex(input.NodeIndex); err != nil {
		return dto.Result{}, classify(op, err)
	}
	path, err := domain.RequireName("lut_path", input.LUTPath)
	if err != nil {
		return dto.Result{}, classify(op, err)
	}
	item, name, err := s.findItem(ctx, op, input.ItemRef)
	if err != nil {
		return dto.Result{}, err
	}
	if err := s.requireMethod(ctx, op, item, "SetLUT"); err != nil {
		return dto.Result{}, err
	}
	failure := fmt.Sprintf("Could not apply the LUT to node %d of %q; check the node index and that %s exists.", input.NodeIndex, name, path)
	if _, err := s.require(ctx, op, failure, item, "SetLUT", input.NodeIndex, path); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Applied %s to node %d of %q.", path, input.NodeIndex, name)), nil
}

func (s *ToolService) ResetGrade(ctx context.Context, ref dto.ItemRef) (dto.Result, error) {
	const op = "color_reset_grade"
	item, name, err := s.findItem(ctx, op, ref)
	if err != nil {
		return dto.Result{}, err
	}
	if err := s.requireMethod(ctx, op, item, "SetCDL"); err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, fmt.Sprintf("Could not reset the grade of %q.", name), item, "SetCDL", domain.IdentityCDL()); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Reset the grade of %q.", name)), nil
}
