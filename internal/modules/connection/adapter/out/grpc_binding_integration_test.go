package out_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	connectionout "resolvemcp/internal/modules/connection/adapter/out"
	"resolvemcp/internal/modules/connection/domain"
	"resolvemcp/internal/modules/connection/dto"
	"resolvemcp/internal/modules/connection/service"
	"resolvemcp/internal/platform/clock"
	"resolvemcp/internal/platform/config"
	apperrors "resolvemcp/internal/platform/errors"
)

func TestGRPCBindingIntegrationSimulatedBridge(t *testing.T) {
	binPath, checksum := buildSimulatedBridge(t)
	location, err := domain.ResolveModuleLocation(domain.PlatformLinux, func(string) string { return "" })
	if err != nil {
		t.Fatalf("resolve location: %v", err)
	}
	binding := connectionout.NewGRPCBinding(config.BridgeConfig{
		Binary:       binPath,
		SHA256:       checksum,
		StartTimeout: 5 * time.Second,
		CallTimeout:  5 * time.Second,
	}, location, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	host, err := binding.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer host.Close()

	root, kind := host.Root()
	if root == "" || kind != "Resolve" {
		t.Fatalf("unexpected root %q (%s)", root, kind)
	}
	version, err := host.Probe(ctx)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if version != "19.1.2.3" {
		t.Fatalf("unexpected version %q", version)
	}
	raw, err := host.Call(ctx, root, "GetProductName", "[]")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if string(raw) != `"DaVinci Resolve Studio"` {
		t.Fatalf("unexpected product %s", raw)
	}
	if _, err := host.Call(ctx, "Project:404", "GetName", "[]"); !errors.Is(err, apperrors.ErrStaleReference) {
		t.Fatalf("expected stale reference for unknown object, got %v", err)
	}
	if _, err := host.Call(ctx, root, "GetFusion", "[]"); !errors.Is(err, apperrors.ErrNotSupported) {
		t.Fatalf("expected not supported, got %v", err)
	}
	ok, err := host.Supports(ctx, root, "OpenPage")
	if err != nil || !ok {
		t.Fatalf("expected OpenPage supported, got %v %v", ok, err)
	}
}

func TestGRPCBindingIntegrationOfflineHost(t *testing.T) {
	binPath, _ := buildSimulatedBridge(t)
	t.Setenv("RESOLVEMCP_SIM_OFFLINE", "1")
	binding := connectionout.NewGRPCBinding(config.BridgeConfig{Binary: binPath}, domain.ModuleLocation{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := binding.Acquire(ctx); !errors.Is(err, apperrors.ErrHostUnavailable) {
		t.Fatalf("expected host unavailable, got %v", err)
	}
}

func TestManagerReconnectsAfterBridgeProcessDies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signals the bridge process directly")
	}
	binPath, _ := buildSimulatedBridge(t)
	pidFile := filepath.Join(t.TempDir(), "bridge.pid")
	t.Setenv("RESOLVEMCP_SIM_PIDFILE", pidFile)
	binding := connectionout.NewGRPCBinding(config.BridgeConfig{
		Binary:       binPath,
		StartTimeout: 5 * time.Second,
		CallTimeout:  5 * time.Second,
	}, domain.ModuleLocation{}, nil)
	manager := service.NewConnectionManager(binding, clock.SystemClock{}, nil)
	t.Cleanup(func() { _ = manager.Shutdown() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	first, err := manager.EnsureConnected(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if first.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", first.Generation)
	}
	project, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("project: %v", err)
	}

	killBridge(t, pidFile)

	second, err := manager.EnsureConnected(ctx)
	if err != nil {
		t.Fatalf("reconnect after bridge exit: %v", err)
	}
	if second.Generation != 2 || second.State != "connected" {
		t.Fatalf("expected a connected generation 2 session, got %+v", second)
	}
	if _, err := manager.Call(ctx, project, "GetName"); !errors.Is(err, apperrors.ErrStaleHandle) {
		t.Fatalf("expected stale handle for the generation 1 project, got %v", err)
	}
	fresh, err := manager.Property(ctx, dto.PropertyProject)
	if err != nil {
		t.Fatalf("re-resolve project: %v", err)
	}
	value, err := manager.Call(ctx, fresh, "GetName")
	if err != nil {
		t.Fatalf("call on fresh project: %v", err)
	}
	if name, _ := value.Text(); name != "Demo" {
		t.Fatalf("unexpected project name %q", name)
	}
}

// killBridge kills the process recorded in pidFile and waits until it is gone.
func killBridge(t *testing.T, pidFile string) {
	t.Helper()
	raw, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		t.Fatalf("parse pid %q: %v", raw, err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		t.Fatalf("find bridge process: %v", err)
	}
	if err := proc.Kill(); err != nil {
		t.Fatalf("kill bridge: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for proc.Signal(syscall.Signal(0)) == nil {
		if time.Now().After(deadline) {
			t.Fatalf("bridge process %d still running", pid)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func buildSimulatedBridge(t *testing.T) (string, string) {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "simulated-bridge")
	cmd := exec.Command("go", "build", "-o", binPath, "./bridges/simulated")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build simulated bridge: %v\n%s", err, string(out))
	}
	payload, err := os.ReadFile(binPath)
	if err != nil {
		t.Fatalf("read built bridge: %v", err)
	}
	hash := sha256.Sum256(payload)
	return binPath, hex.EncodeToString(hash[:])
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
