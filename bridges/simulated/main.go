package main

import (
	"context"
	"errors"
	"os"
	"strconv"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bridgerpc "resolvemcp/internal/modules/connection/adapter/out/rpc"
)

const (
	// EnvOffline makes Acquire report that no host application is running.
	EnvOffline = "RESOLVEMCP_SIM_OFFLINE"
	// EnvPIDFile names a file the bridge writes its process id to on start.
	EnvPIDFile = "RESOLVEMCP_SIM_PIDFILE"
)

type server struct {
	world   *world
	offline bool
	logger  hclog.Logger
}

func newServer(offline bool, logger hclog.Logger) *server {
	return &server{world: newWorld(), offline: offline, logger: logger}
}

func (s *server) Acquire(_ context.Context, in *bridgerpc.AcquireRequest) (*bridgerpc.AcquireResponse, error) {
	if s.offline {
		s.logger.Debug("acquire refused, host offline", "app", in.App)
		return &bridgerpc.AcquireResponse{}, nil
	}
	return &bridgerpc.AcquireResponse{Root: s.world.root()}, nil
}

func (s *server) GetVersion(_ context.Context, in *bridgerpc.VersionRequest) (*bridgerpc.VersionResponse, error) {
	if s.offline || in.Root != s.world.root().ID {
		return nil, status.Errorf(codes.NotFound, "unknown application object %q", in.Root)
	}
	return &bridgerpc.VersionResponse{Parts: s.world.versionParts()}, nil
}

func (s *server) Call(_ context.Context, in *bridgerpc.CallRequest) (*bridgerpc.CallResponse, error) {
	result, err := s.world.Invoke(in.Target, in.Method, in.ArgsJSON)
	if err != nil {
		return nil, statusFor(err)
	}
	return &bridgerpc.CallResponse{ResultJSON: result}, nil
}

func (s *server) HasMethod(_ context.Context, in *bridgerpc.HasMethodRequest) (*bridgerpc.HasMethodResponse, error) {
	ok, err := s.world.HasMethod(in.Target, in.Method)
	if err != nil {
		return nil, statusFor(err)
	}
	return &bridgerpc.HasMethodResponse{Supported: ok}, nil
}

func (s *server) Release(_ context.Context, in *bridgerpc.ReleaseRequest) (*bridgerpc.Empty, error) {
	s.logger.Debug("released", "root", in.Root)
	return &bridgerpc.Empty{}, nil
}

func statusFor(err error) error {
	switch {
	case errors.Is(err, errUnknownObject):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errNoMethod):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, errBadArgs):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "simulated-bridge", Output: os.Stderr, JSONFormat: true})
	if path := os.Getenv(EnvPIDFile); path != "" {
		if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
			logger.Warn("write pid file", "path", path, "error", err)
		}
	}
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: bridgerpc.HandshakeConfig,
		Plugins:         bridgerpc.PluginMap(newServer(os.Getenv(EnvOffline) == "1", logger)),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger:          logger,
	})
}
