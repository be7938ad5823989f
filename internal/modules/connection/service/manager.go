package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"resolvemcp/internal/modules/connection/domain"
	"resolvemcp/internal/modules/connection/dto"
	connectionout "resolvemcp/internal/modules/connection/port/out"
	"resolvemcp/internal/platform/clock"
	apperrors "resolvemcp/internal/platform/errors"
	"resolvemcp/internal/platform/lazy"
)

// ConnectionManager owns the single host session. mu guards the state, the
// session, the generation counter and the handle cache and is never held
// across a host call. acquireMu serializes reconnects.
type ConnectionManager struct {
	binding connectionout.Binding
	clock   clock.Clock
	logger  hclog.Logger

	acquireMu sync.Mutex

	mu         sync.Mutex
	state      domain.State
	host       connectionout.Host
	session    domain.Session
	generation uint64
	handles    map[dto.Property]dto.Handle
}

var shared lazy.Value[*ConnectionManager]

// Shared returns the process-wide manager, building it with build on first
// use.
func Shared(build func() *ConnectionManager) *ConnectionManager {
	return shared.Get(build)
}

func NewConnectionManager(binding connectionout.Binding, clk clock.Clock, logger hclog.Logger) *ConnectionManager {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ConnectionManager{
		binding: binding,
		clock:   clk,
		logger:  logger.Named("connection"),
		state:   domain.StateUnconnected,
	}
}

// EnsureConnected returns the live session, probing it first. A failed probe
// triggers exactly one reconnect attempt.
func (m *ConnectionManager) EnsureConnected(ctx context.Context) (dto.SessionInfo, error) {
	m.mu.Lock()
	state, host, observed := m.state, m.host, m.generation
	m.mu.Unlock()

	if state == domain.StateConnected {
		version, err := host.Probe(ctx)
		if err == nil {
			m.mu.Lock()
			if m.state == domain.StateConnected && m.generation == observed {
				m.session.Version = version
			}
			info := m.infoLocked()
			m.mu.Unlock()
			return info, nil
		}
		if ctx.Err() != nil {
			return dto.SessionInfo{}, &apperrors.ClassifiedError{
				Category: apperrors.CategoryHostUnavailable,
				Detail:   fmt.Sprintf("liveness probe interrupted: %v", ctx.Err()),
				Err:      err,
			}
		}
		m.logger.Warn("liveness probe failed", "generation", observed, "error", err)
		m.invalidate(observed)
	}
	return m.reconnect(ctx, observed)
}

func (m *ConnectionManager) reconnect(ctx context.Context, observed uint64) (dto.SessionInfo, error) {
	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	m.mu.Lock()
	if m.state == domain.StateConnected && m.generation != observed {
		info := m.infoLocked()
		m.mu.Unlock()
		return info, nil
	}
	previous := m.detachLocked()
	m.mu.Unlock()
	_ = m.closeHost(previous)

	host, err := m.binding.Acquire(ctx)
	if err != nil {
		m.logger.Warn("host acquisition failed", "state", m.Info().State, "error", err)
		return dto.SessionInfo{}, &apperrors.ClassifiedError{
			Category: apperrors.CategoryHostUnavailable,
			Detail:   unavailableDetail(err),
			Err:      err,
		}
	}
	version, err := host.Probe(ctx)
	if err != nil {
		_ = host.Close()
		m.logger.Warn("probe after acquisition failed", "error", err)
		return dto.SessionInfo{}, &apperrors.ClassifiedError{
			Category: apperrors.CategoryHostUnavailable,
			Detail:   unavailableDetail(err),
			Err:      err,
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	root, kind := host.Root()
	m.host = host
	m.state = domain.StateConnected
	m.handles = map[dto.Property]dto.Handle{}
	m.session = domain.Session{
		Root:        root,
		RootKind:    kind,
		Generation:  m.generation,
		Version:     version,
		ConnectedAt: m.clock.Now(),
	}
	m.logger.Info("connected to host", "generation", m.generation, "version", version)
	return m.infoLocked(), nil
}

// Property resolves a derived handle from the current session. Stable
// properties are cached per generation.
func (m *ConnectionManager) Property(ctx context.Context, name dto.Property) (dto.Handle, error) {
	if _, ok := domain.SpecFor(name); !ok && name != dto.PropertyRoot {
		return dto.Handle{}, apperrors.Rejected(propertyOp(name), "unknown property")
	}
	info, err := m.EnsureConnected(ctx)
	if err != nil {
		return dto.Handle{}, err
	}
	h, err := m.resolve(ctx, name, info)
	if err == nil || !errors.Is(err, apperrors.ErrStaleHandle) {
		return h, err
	}
	// Another caller reconnected mid-walk; one more round from the new session.
	m.logger.Debug("session changed while resolving, resolving again", "property", name, "generation", info.Generation)
	if info, err = m.EnsureConnected(ctx); err != nil {
		return dto.Handle{}, err
	}
	return m.resolve(ctx, name, info)
}

func (m *ConnectionManager) resolve(ctx context.Context, name dto.Property, info dto.SessionInfo) (dto.Handle, error) {
	if name == dto.PropertyRoot {
		return info.Root, nil
	}
	spec, _ := domain.SpecFor(name)
	if !spec.Volatile {
		if h, ok := m.cached(name, info.Generation); ok {
			return h, nil
		}
	}
	parent, err := m.resolve(ctx, spec.Parent, info)
	if err != nil {
		return dto.Handle{}, err
	}
	value, err := m.Call(ctx, parent, spec.Method)
	if err != nil {
		return dto.Handle{}, apperrors.Classify(propertyOp(name), err)
	}
	handle, ok := value.Handle()
	if !ok {
		if value.IsNull() {
			return dto.Handle{}, apperrors.Rejected(propertyOp(name), spec.Absent)
		}
		return dto.Handle{}, apperrors.Rejected(propertyOp(name), fmt.Sprintf("%s returned a non-object result", spec.Method))
	}
	if !spec.Volatile {
		m.store(name, handle)
	}
	return handle, nil
}

// Call invokes method on target. Handles minted by an earlier session, or
// while disconnected, are refused before anything reaches the host.
func (m *ConnectionManager) Call(ctx context.Context, target dto.Handle, method string, args ...any) (dto.Value, error) {
	host, err := m.hostFor(target, args...)
	if err != nil {
		return dto.Value{}, err
	}
	argsJSON, err := dto.EncodeArgs(args...)
	if err != nil {
		return dto.Value{}, err
	}
	raw, err := host.Call(ctx, target.Ref, method, argsJSON)
	if err != nil {
		if errors.Is(err, apperrors.ErrStaleReference) {
			m.logger.Warn("stale reference reported by host", "kind", target.Kind, "method", method, "generation", target.Generation)
			m.invalidate(target.Generation)
		}
		return dto.Value{}, fmt.Errorf("%s.%s: %w", kindOrObject(target), method, err)
	}
	return dto.Value{Raw: raw, Generation: target.Generation}, nil
}

// Supports asks the host whether target exposes method in this version.
func (m *ConnectionManager) Supports(ctx context.Context, target dto.Handle, method string) (bool, error) {
	host, err := m.hostFor(target)
	if err != nil {
		return false, err
	}
	ok, err := host.Supports(ctx, target.Ref, method)
	if err != nil {
		if errors.Is(err, apperrors.ErrStaleReference) {
			m.invalidate(target.Generation)
		}
		return false, fmt.Errorf("%s capability %s: %w", kindOrObject(target), method, err)
	}
	return ok, nil
}

func (m *ConnectionManager) Info() dto.SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infoLocked()
}

// Shutdown releases the session. The manager stays usable; the next access
// reconnects.
func (m *ConnectionManager) Shutdown() error {
	m.mu.Lock()
	host := m.detachLocked()
	m.state = domain.StateUnconnected
	generation := m.generation
	m.mu.Unlock()
	m.logger.Info("connection released", "generation", generation)
	return m.closeHost(host)
}

func (m *ConnectionManager) hostFor(target dto.Handle, args ...any) (connectionout.Host, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.validateLocked(target); err != nil {
		return nil, err
	}
	for _, arg := range args {
		if h, ok := arg.(dto.Handle); ok {
			if err := m.validateLocked(h); err != nil {
				return nil, err
			}
		}
	}
	return m.host, nil
}

func (m *ConnectionManager) validateLocked(h dto.Handle) error {
	if h.IsZero() {
		return fmt.Errorf("%w: empty handle", apperrors.ErrInvalidInput)
	}
	if m.state != domain.StateConnected {
		return fmt.Errorf("%w: %s handle used while %s", apperrors.ErrStaleHandle, kindOrObject(h), m.state)
	}
	if h.Generation != m.generation {
		return fmt.Errorf("%w: %s handle from generation %d, current is %d", apperrors.ErrStaleHandle, kindOrObject(h), h.Generation, m.generation)
	}
	return nil
}

func (m *ConnectionManager) invalidate(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == domain.StateConnected && m.generation == generation {
		m.state = domain.StateInvalid
		m.handles = nil
	}
}

func (m *ConnectionManager) detachLocked() connectionout.Host {
	m.handles = nil
	host := m.host
	m.host = nil
	return host
}

func (m *ConnectionManager) closeHost(host connectionout.Host) error {
	if host == nil {
		return nil
	}
	if err := host.Close(); err != nil {
		m.logger.Debug("closing previous host reference", "error", err)
		return fmt.Errorf("close host: %w", err)
	}
	return nil
}

func (m *ConnectionManager) cached(name dto.Property, generation uint64) (dto.Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[name]
	if !ok || h.Generation != generation || generation != m.generation {
		return dto.Handle{}, false
	}
	return h, true
}

func (m *ConnectionManager) store(name dto.Property, h dto.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == domain.StateConnected && h.Generation == m.generation && m.handles != nil {
		m.handles[name] = h
	}
}

func (m *ConnectionManager) infoLocked() dto.SessionInfo {
	info := dto.SessionInfo{State: string(m.state), Generation: m.generation}
	if m.state == domain.StateConnected {
		info.Version = m.session.Version
		info.ConnectedAt = m.session.ConnectedAt
		info.Root = dto.Handle{Ref: m.session.Root, Kind: m.session.RootKind, Generation: m.session.Generation}
	}
	return info
}

func unavailableDetail(err error) string {
	if errors.Is(err, apperrors.ErrHostUnavailable) {
		return "DaVinci Resolve is not running. Please open it and try again."
	}
	return fmt.Sprintf("could not connect to DaVinci Resolve: %v", err)
}

func propertyOp(name dto.Property) string {
	return "property:" + string(name)
}

func kindOrObject(h dto.Handle) string {
	if h.Kind == "" {
		return "object"
	}
	return h.Kind
}
