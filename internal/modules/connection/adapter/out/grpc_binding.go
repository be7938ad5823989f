package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bridgerpc "resolvemcp/internal/modules/connection/adapter/out/rpc"
	"resolvemcp/internal/modules/connection/domain"
	connectionout "resolvemcp/internal/modules/connection/port/out"
	"resolvemcp/internal/platform/config"
	apperrors "resolvemcp/internal/platform/errors"
)

const (
	defaultStartTimeout = 5 * time.Second
	defaultCallTimeout  = 30 * time.Second
	releaseTimeout      = 2 * time.Second
	hostApp             = "Resolve"
)

// GRPCBinding launches the bridge process that hosts the scripting module and
// talks to it over go-plugin gRPC.
type GRPCBinding struct {
	cfg      config.BridgeConfig
	location domain.ModuleLocation
	logger   hclog.Logger
}

func NewGRPCBinding(cfg config.BridgeConfig, location domain.ModuleLocation, logger hclog.Logger) connectionout.Binding {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = defaultStartTimeout
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	return &GRPCBinding{cfg: cfg, location: location, logger: logger.Named("bridge")}
}

func (b *GRPCBinding) Acquire(ctx context.Context) (connectionout.Host, error) {
	if strings.TrimSpace(b.cfg.Binary) == "" {
		return nil, errors.New("no bridge binary configured")
	}
	if b.cfg.SHA256 != "" {
		if err := checksumMatches(b.cfg.Binary, b.cfg.SHA256); err != nil {
			return nil, err
		}
	}

	cmd := exec.Command(b.cfg.Binary)
	cmd.Env = append(os.Environ(), b.location.Env()...)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  bridgerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          bridgerpc.PluginMap(nil),
		Cmd:              cmd,
		Managed:          true,
		StartTimeout:     b.cfg.StartTimeout,
		Logger:           b.logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start bridge: %w", err)
	}
	raw, err := rpcClient.Dispense(bridgerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense bridge: %w", err)
	}
	typed, ok := raw.(bridgerpc.HostBridgeClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("bridge rpc client type mismatch")
	}

	callCtx, cancel := callContext(ctx, b.cfg.CallTimeout)
	defer cancel()
	resp, err := typed.Acquire(callCtx, &bridgerpc.AcquireRequest{App: hostApp})
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("acquire host: %w", translateError(err))
	}
	if resp.Root.ID == "" {
		client.Kill()
		return nil, fmt.Errorf("%w: scripting module returned no application object", apperrors.ErrHostUnavailable)
	}
	b.logger.Debug("bridge acquired host", "root", resp.Root.ID, "platform", b.location.Platform)
	return &bridgeHost{
		client:      client,
		rpc:         typed,
		root:        resp.Root,
		callTimeout: b.cfg.CallTimeout,
	}, nil
}

type bridgeHost struct {
	client      *plugin.Client
	rpc         bridgerpc.HostBridgeClient
	root        bridgerpc.ObjectRef
	callTimeout time.Duration
}

func (h *bridgeHost) Root() (string, string) {
	return h.root.ID, h.root.Kind
}

// Probe is the liveness check: a version query against the root object.
func (h *bridgeHost) Probe(ctx context.Context) (string, error) {
	if h.client.Exited() {
		return "", fmt.Errorf("%w: bridge process exited", apperrors.ErrStaleReference)
	}
	callCtx, cancel := callContext(ctx, h.callTimeout)
	defer cancel()
	resp, err := h.rpc.GetVersion(callCtx, &bridgerpc.VersionRequest{Root: h.root.ID})
	if err != nil {
		return "", fmt.Errorf("probe: %w", translateError(err))
	}
	version := resp.Version
	if version == "" && len(resp.Parts) > 0 {
		parts := make([]string, 0, len(resp.Parts))
		for _, p := range resp.Parts {
			parts = append(parts, strconv.Itoa(p))
		}
		version = strings.Join(parts, ".")
	}
	if version == "" {
		return "", fmt.Errorf("%w: host returned no version", apperrors.ErrStaleReference)
	}
	return version, nil
}

func (h *bridgeHost) Call(ctx context.Context, target, method, argsJSON string) (json.RawMessage, error) {
	if h.client.Exited() {
		return nil, fmt.Errorf("%w: bridge process exited", apperrors.ErrStaleReference)
	}
	callCtx, cancel := callContext(ctx, h.callTimeout)
	defer cancel()
	resp, err := h.rpc.Call(callCtx, &bridgerpc.CallRequest{Target: target, Method: method, ArgsJSON: argsJSON})
	if err != nil {
		return nil, translateError(err)
	}
	if strings.TrimSpace(resp.ResultJSON) == "" {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(resp.ResultJSON), nil
}

func (h *bridgeHost) Supports(ctx context.Context, target, method string) (bool, error) {
	callCtx, cancel := callContext(ctx, h.callTimeout)
	defer cancel()
	resp, err := h.rpc.HasMethod(callCtx, &bridgerpc.HasMethodRequest{Target: target, Method: method})
	if err != nil {
		return false, translateError(err)
	}
	return resp.Supported, nil
}

func (h *bridgeHost) Close() error {
	defer h.client.Kill()
	if h.client.Exited() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	if err := h.rpc.Release(ctx, &bridgerpc.ReleaseRequest{Root: h.root.ID}); err != nil {
		return fmt.Errorf("release host: %w", translateError(err))
	}
	return nil
}

// translateError maps bridge status codes onto the sentinels the connection
// manager reacts to.
func translateError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound, codes.Unavailable:
		return fmt.Errorf("%w: %s", apperrors.ErrStaleReference, st.Message())
	case codes.Unimplemented:
		return fmt.Errorf("%w: %s", apperrors.ErrNotSupported, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, st.Message())
	default:
		return errors.New(st.Message())
	}
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bridge binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
