package service

import (
	"context"
	"errors"
	"fmt"

	connectiondto "resolvemcp/internal/modules/connection/dto"
	connectionin "resolvemcp/internal/modules/connection/port/in"
	"resolvemcp/internal/modules/tools/domain"
	"resolvemcp/internal/modules/tools/dto"
	apperrors "resolvemcp/internal/platform/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// ToolService implements the operation catalogue on top of the connection
// manager. Every exported method classifies its failure exactly once.
type ToolService struct {
	conn         connectionin.Usecase
	defaultLimit int
	maxLimit     int
}

func NewToolService(conn connectionin.Usecase, defaultLimit, maxLimit int) *ToolService {
	if defaultLimit <= 0 {
		defaultLimit = defaultPageLimit
	}
	if maxLimit <= 0 {
		maxLimit = maxPageLimit
	}
	return &ToolService{conn: conn, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (s *ToolService) SystemInfo(ctx context.Context) (dto.SystemInfo, error) {
	const op = "system_get_info"
	info, err := s.conn.EnsureConnected(ctx)
	if err != nil {
		return dto.SystemInfo{}, classify(op, err)
	}
	root, err := s.property(ctx, op, connectiondto.PropertyRoot)
	if err != nil {
		return dto.SystemInfo{}, err
	}
	product, err := s.text(ctx, op, root, "GetProductName")
	if err != nil {
		return dto.SystemInfo{}, err
	}
	version := info.Version
	if ok, err := s.conn.Supports(ctx, root, "GetVersionString"); err == nil && ok {
		if v, err := s.text(ctx, op, root, "GetVersionString"); err == nil && v != "" {
			version = v
		}
	}
	current, err := s.text(ctx, op, root, "GetCurrentPage")
	if err != nil {
		return dto.SystemInfo{}, err
	}
	return dto.SystemInfo{Product: product, Version: version, Page: current, Generation: root.Generation}, nil
}

func (s *ToolService) OpenPage(ctx context.Context, name string) (dto.Result, error) {
	const op = "system_open_page"
	if err := domain.ValidatePage(name); err != nil {
		return dto.Result{}, classify(op, err)
	}
	root, err := s.property(ctx, op, connectiondto.PropertyRoot)
	if err != nil {
		return dto.Result{}, err
	}
	if _, err := s.require(ctx, op, fmt.Sprintf("Could not open the %s page.", name), root, "OpenPage", name); err != nil {
		return dto.Result{}, err
	}
	return done(fmt.Sprintf("Opened the %s page.", name)), nil
}

func (s *ToolService) property(ctx context.Context, op string, name connectiondto.Property) (connectiondto.Handle, error) {
	h, err := s.conn.Property(ctx, name)
	if err != nil {
		return connectiondto.Handle{}, classify(op, err)
	}
	return h, nil
}

func (s *ToolService) call(ctx context.Context, op string, target connectiondto.Handle, method string, args ...any) (connectiondto.Value, error) {
	v, err := s.conn.Call(ctx, target, method, args...)
	if err != nil {
		return connectiondto.Value{}, classify(op, err)
	}
	return v, nil
}

// require calls method and rejects a sentinel result with failure.
func (s *ToolService) require(ctx context.Context, op, failure string, target connectiondto.Handle, method string, args ...any) (connectiondto.Value, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return connectiondto.Value{}, err
	}
	if v.Sentinel() {
		return connectiondto.Value{}, apperrors.Rejected(op, failure)
	}
	return v, nil
}

func (s *ToolService) requireHandle(ctx context.Context, op, failure string, target connectiondto.Handle, method string, args ...any) (connectiondto.Handle, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return connectiondto.Handle{}, err
	}
	h, found := v.Handle()
	if !found {
		return connectiondto.Handle{}, apperrors.Rejected(op, failure)
	}
	return h, nil
}

// requireMethod turns a missing version-dependent method into a rejection
// instead of a failed call.
func (s *ToolService) requireMethod(ctx context.Context, op string, target connectiondto.Handle, method string) error {
	supported, err := s.conn.Supports(ctx, target, method)
	if err != nil {
		return classify(op, err)
	}
	if !supported {
		return apperrors.Rejected(op, fmt.Sprintf("%s is not supported in this host version", method))
	}
	return nil
}

func (s *ToolService) text(ctx context.Context, op string, target connectiondto.Handle, method string, args ...any) (string, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return "", err
	}
	out, err := v.Text()
	if err != nil {
		return "", classify(op, err)
	}
	return out, nil
}

func (s *ToolService) number(ctx context.Context, op string, target connectiondto.Handle, method string, args ...any) (int, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return 0, err
	}
	out, err := v.Int()
	if err != nil {
		return 0, classify(op, err)
	}
	return out, nil
}

func (s *ToolService) strings(ctx context.Context, op string, target connectiondto.Handle, method string, args ...any) ([]string, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return nil, err
	}
	out, err := v.Strings()
	if err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

func (s *ToolService) handles(ctx context.Context, op string, target connectiondto.Handle, method string, args ...any) ([]connectiondto.Handle, error) {
	v, err := s.call(ctx, op, target, method, args...)
	if err != nil {
		return nil, err
	}
	out, err := v.Handles()
	if err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// classify attributes err to op. Errors classified further down keep their
// category and detail.
func classify(op string, err error) error {
	var classified *apperrors.ClassifiedError
	if errors.As(err, &classified) {
		out := *classified
		out.Operation = op
		return &out
	}
	return apperrors.Classify(op, err)
}

func done(message string) dto.Result {
	return dto.Result{OK: true, Message: message}
}
