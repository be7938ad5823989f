package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"resolvemcp/internal/modules/connection/dto"
	connectionout "resolvemcp/internal/modules/connection/port/out"
	"resolvemcp/internal/modules/connection/service"
	apperrors "resolvemcp/internal/platform/errors"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

type fakeHost struct {
	mu        sync.Mutex
	probeErr  error
	closed    bool
	probes    int
	calls     map[string]int
	results   map[string]string
	callErrs  map[string]error
	supported map[string]bool
	// hooks run after the call's result is chosen, outside the host lock.
	hooks map[string]func()
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		calls: map[string]int{},
		results: map[string]string{
			"resolve.GetProjectManager":       `{"$ref":"pm","$kind":"ProjectManager"}`,
			"resolve.GetMediaStorage":         `{"$ref":"storage","$kind":"MediaStorage"}`,
			"pm.GetCurrentProject":            `{"$ref":"project:Demo","$kind":"Project"}`,
			"project:Demo.GetMediaPool":       `{"$ref":"pool:Demo","$kind":"MediaPool"}`,
			"project:Demo.GetCurrentTimeline": `null`,
			"project:Demo.GetName":            `"Demo"`,
		},
		callErrs:  map[string]error{},
		supported: map[string]bool{"project:Demo.GetName": true},
		hooks:     map[string]func(){},
	}
}

func (h *fakeHost) Root() (string, string) { return "resolve", "Resolve" }

func (h *fakeHost) Probe(context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes++
	if h.probeErr != nil {
		return "", h.probeErr
	}
	return "19.1.2", nil
}

func (h *fakeHost) Call(_ context.Context, target, method, _ string) (json.RawMessage, error) {
	h.mu.Lock()
	key := target + "." + method
	h.calls[key]++
	hook := h.hooks[key]
	delete(h.hooks, key)
	err, failed := h.callErrs[key]
	raw, found := h.results[key]
	h.mu.Unlock()

	if hook != nil {
		hook()
	}
	if failed {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotSupported, method)
	}
	return json.RawMessage(raw), nil
}

func (h *fakeHost) Supports(_ context.Context, target, method string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.supported[target+"."+method], nil
}

func (h *fakeHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

func (h *fakeHost) failProbe(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probeErr = err
}

func (h *fakeHost) callCount(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[key]
}

func (h *fakeHost) probeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.probes
}

func (h *fakeHost) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

type fakeBinding struct {
	mu       sync.Mutex
	err      error
	delay    time.Duration
	acquired []*fakeHost
	// started and release, when set, hold Acquire open until the test lets go.
	started chan struct{}
	release chan struct{}
	// onAcquire prepares each new host before it is handed out.
	onAcquire func(*fakeHost)
}

func (b *fakeBinding) Acquire(context.Context) (connectionout.Host, error) {
	if b.started != nil {
		b.started <- struct{}{}
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.err != nil {
		return nil, b.err
	}
	host := newFakeHost()
	if b.onAcquire != nil {
		b.onAcquire(host)
	}
	b.acquired = append(b.acquired, host)
	return host, nil
}

func (b *fakeBinding) setErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func (b *fakeBinding) hosts() []*fakeHost {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*fakeHost(nil), b.acquired...)
}

func newManager(binding *fakeBinding) *service.ConnectionManager {
	return service.NewConnectionManager(binding, fixedClock{}, nil)
}

func TestUnreachableAtStartupThenFirstGeneration(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{err: fmt.Errorf("%w: not running", apperrors.ErrHostUnavailable)}
	manager := newManager(binding)

	if _, err := manager.EnsureConnected(context.Background()); !errors.Is(err, apperrors.ErrHostUnavailable) {
		t.Fatalf("expected host unavailable, got %v", err)
	}
	if info := manager.Info(); info.State != "unconnected" || info.Generation != 0 {
		t.Fatalf("unexpected state after failed acquire: %+v", info)
	}

	binding.setErr(nil)
	info, err := manager.EnsureConnected(context.Background())
	if err != nil {
		t.Fatalf("ensure connected: %v", err)
	}
	if info.Generation != 1 || info.State != "connected" || info.Version != "19.1.2" {
		t.Fatalf("unexpected session: %+v", info)
	}
}

func TestHealthyProbeKeepsGeneration(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)

	first, err := manager.EnsureConnected(context.Background())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := manager.EnsureConnected(context.Background())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.Generation != second.Generation {
		t.Fatalf("spurious reconnect: %d -> %d", first.Generation, second.Generation)
	}
	if got := len(binding.hosts()); got != 1 {
		t.Fatalf("expected a single acquisition, got %d", got)
	}
	// One probe right after acquisition plus one liveness probe.
	if got := binding.hosts()[0].probeCount(); got != 2 {
		t.Fatalf("expected 2 probes, got %d", got)
	}
}

func TestProbeFailureReconnectsAndExpiresHandles(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()

	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if project.Generation != 1 {
		t.Fatalf("expected generation 1 handle, got %d", project.Generation)
	}

	binding.hosts()[0].failProbe(errors.New("host restarted"))
	info, err := manager.EnsureConnected(ctx)
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if info.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", info.Generation)
	}
	if !binding.hosts()[0].isClosed() {
		t.Fatalf("previous host reference must be closed")
	}

	_, err = manager.Call(ctx, project, "GetName")
	if !errors.Is(err, apperrors.ErrStaleHandle) {
		t.Fatalf("expected stale handle, got %v", err)
	}
	if !errors.Is(apperrors.Classify("project_get_current", err), apperrors.ErrHostUnavailable) {
		t.Fatalf("stale handle must classify as host unavailable")
	}
	if got := binding.hosts()[1].callCount("project:Demo.GetName"); got != 0 {
		t.Fatalf("stale handle reached the host %d times", got)
	}

	fresh, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("re-resolve project: %v", err)
	}
	value, err := manager.Call(ctx, fresh, "GetName")
	if err != nil {
		t.Fatalf("call on fresh handle: %v", err)
	}
	if name, _ := value.Text(); name != "Demo" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestSecondConsecutiveFailureIsSurfaced(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()
	if _, err := manager.EnsureConnected(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	binding.hosts()[0].failProbe(errors.New("gone"))
	binding.setErr(fmt.Errorf("%w: not running", apperrors.ErrHostUnavailable))

	if _, err := manager.EnsureConnected(ctx); !errors.Is(err, apperrors.ErrHostUnavailable) {
		t.Fatalf("expected host unavailable, got %v", err)
	}
	if got := manager.Info().State; got != "invalid" {
		t.Fatalf("expected invalid state, got %s", got)
	}
}

func TestStaleReferenceDuringCallInvalidatesSession(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()

	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	host := binding.hosts()[0]
	host.mu.Lock()
	host.callErrs["project:Demo.GetName"] = fmt.Errorf("%w: object gone", apperrors.ErrStaleReference)
	host.mu.Unlock()

	_, err = manager.Call(ctx, project, "GetName")
	if !errors.Is(apperrors.Classify("project_get_current", err), apperrors.ErrHostUnavailable) {
		t.Fatalf("expected host unavailable classification, got %v", err)
	}
	if got := manager.Info().State; got != "invalid" {
		t.Fatalf("expected invalid after stale signal, got %s", got)
	}
	info, err := manager.EnsureConnected(ctx)
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if info.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", info.Generation)
	}
}

func TestPropertyCachingAndAbsence(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := manager.Property(ctx, dto.PropertyProjectManager); err != nil {
			t.Fatalf("project manager: %v", err)
		}
		if _, err := manager.Property(ctx, dto.PropertyProject); err != nil {
			t.Fatalf("project: %v", err)
		}
	}
	host := binding.hosts()[0]
	if got := host.callCount("resolve.GetProjectManager"); got != 1 {
		t.Fatalf("stable property must be cached, resolved %d times", got)
	}
	if got := host.callCount("pm.GetCurrentProject"); got != 3 {
		t.Fatalf("volatile property must be re-resolved, resolved %d times", got)
	}

	_, err := manager.Property(ctx, dto.PropertyTimeline)
	if !errors.Is(err, apperrors.ErrOperationRejected) {
		t.Fatalf("expected rejection for absent timeline, got %v", err)
	}
	var classified *apperrors.ClassifiedError
	if !errors.As(err, &classified) || classified.Detail != "No timeline is currently open." {
		t.Fatalf("unexpected rejection detail: %v", err)
	}

	if _, err := manager.Property(ctx, dto.Property("bogus")); !errors.Is(err, apperrors.ErrOperationRejected) {
		t.Fatalf("expected rejection for unknown property, got %v", err)
	}
}

func TestPropertyWithoutHostIsUnavailable(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{err: errors.New("bridge binary missing")}
	manager := newManager(binding)
	if _, err := manager.Property(context.Background(), dto.PropertyProject); !errors.Is(err, apperrors.ErrHostUnavailable) {
		t.Fatalf("expected host unavailable, got %v", err)
	}
}

func TestSupportsCapabilityQuery(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()
	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	ok, err := manager.Supports(ctx, project, "GetName")
	if err != nil || !ok {
		t.Fatalf("expected GetName supported, got %v %v", ok, err)
	}
	ok, err = manager.Supports(ctx, project, "GetQuickExportRenderPresets")
	if err != nil || ok {
		t.Fatalf("expected unsupported method, got %v %v", ok, err)
	}
}

func TestConcurrentEnsureConnectedAcquiresOnce(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{delay: 20 * time.Millisecond}
	manager := newManager(binding)

	var wg sync.WaitGroup
	var failures atomic.Int32
	generations := make([]uint64, 16)
	for i := range generations {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := manager.EnsureConnected(context.Background())
			if err != nil {
				failures.Add(1)
				return
			}
			generations[i] = info.Generation
		}(i)
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Fatalf("unexpected failures: %d", failures.Load())
	}
	if got := len(binding.hosts()); got != 1 {
		t.Fatalf("expected one acquisition, got %d", got)
	}
	for i, g := range generations {
		if g != 1 {
			t.Fatalf("caller %d saw generation %d", i, g)
		}
	}
}

func TestShutdownReleasesSession(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()
	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if err := manager.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !binding.hosts()[0].isClosed() {
		t.Fatalf("host must be closed on shutdown")
	}
	if _, err := manager.Call(ctx, project, "GetName"); !errors.Is(err, apperrors.ErrStaleHandle) {
		t.Fatalf("expected stale handle after shutdown, got %v", err)
	}
	info, err := manager.EnsureConnected(ctx)
	if err != nil {
		t.Fatalf("reconnect after shutdown: %v", err)
	}
	if info.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", info.Generation)
	}
}

func TestSharedReturnsSingleInstance(t *testing.T) {
	t.Parallel()
	var builds atomic.Int32
	build := func() *service.ConnectionManager {
		builds.Add(1)
		return newManager(&fakeBinding{})
	}
	var wg sync.WaitGroup
	got := make([]*service.ConnectionManager, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = service.Shared(build)
		}(i)
	}
	wg.Wait()
	if builds.Load() != 1 {
		t.Fatalf("expected one construction, got %d", builds.Load())
	}
	for i := range got {
		if got[i] != got[0] {
			t.Fatalf("caller %d observed a different manager", i)
		}
	}
}

func TestReconnectDuringResolutionReresolvesOnce(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()
	binding.onAcquire = func(host *fakeHost) {
		if len(binding.acquired) > 0 {
			return
		}
		host.hooks["resolve.GetProjectManager"] = func() {
			_ = manager.Shutdown()
			if _, err := manager.EnsureConnected(ctx); err != nil {
				t.Errorf("concurrent reconnect: %v", err)
			}
		}
	}

	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project across a reconnect: %v", err)
	}
	if project.Generation != 2 || project.Ref != "project:Demo" {
		t.Fatalf("expected a generation 2 project handle, got %+v", project)
	}
	hosts := binding.hosts()
	if len(hosts) != 2 {
		t.Fatalf("expected two acquisitions, got %d", len(hosts))
	}
	if got := hosts[0].callCount("pm.GetCurrentProject"); got != 0 {
		t.Fatalf("stale parent reached the old host %d times", got)
	}
	if got := hosts[1].callCount("pm.GetCurrentProject"); got != 1 {
		t.Fatalf("expected one resolution on the new host, got %d", got)
	}
}

func TestReresolutionIsBoundedToOneRound(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{}
	manager := newManager(binding)
	ctx := context.Background()
	binding.onAcquire = func(host *fakeHost) {
		host.hooks["resolve.GetProjectManager"] = func() {
			_ = manager.Shutdown()
			_, _ = manager.EnsureConnected(ctx)
		}
	}

	_, err := manager.Property(ctx, dto.PropertyProject)
	if !errors.Is(err, apperrors.ErrHostUnavailable) || !errors.Is(err, apperrors.ErrStaleHandle) {
		t.Fatalf("expected host unavailable after a second reconnect, got %v", err)
	}
}

func TestInfoDoesNotWaitForAcquisition(t *testing.T) {
	t.Parallel()
	binding := &fakeBinding{started: make(chan struct{}), release: make(chan struct{})}
	manager := newManager(binding)

	done := make(chan error, 1)
	go func() {
		_, err := manager.EnsureConnected(context.Background())
		done <- err
	}()
	<-binding.started

	snapshot := make(chan dto.SessionInfo, 1)
	go func() { snapshot <- manager.Info() }()
	select {
	case info := <-snapshot:
		if info.State != "unconnected" || info.Generation != 0 {
			t.Fatalf("unexpected snapshot during acquisition: %+v", info)
		}
	case <-time.After(time.Second):
		t.Fatalf("Info blocked behind a pending acquisition")
	}

	close(binding.release)
	if err := <-done; err != nil {
		t.Fatalf("ensure connected: %v", err)
	}
	if info := manager.Info(); info.Generation != 1 || info.State != "connected" {
		t.Fatalf("unexpected session after acquisition: %+v", info)
	}
}
