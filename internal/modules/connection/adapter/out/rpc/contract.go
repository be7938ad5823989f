package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey    = "bridge"
	serviceName     = "resolvemcp.bridge.v1.HostBridge"
	jsonCodecName   = "json"
	methodAcquire   = "/" + serviceName + "/Acquire"
	methodVersion   = "/" + serviceName + "/GetVersion"
	methodCall      = "/" + serviceName + "/Call"
	methodHasMethod = "/" + serviceName + "/HasMethod"
	methodRelease   = "/" + serviceName + "/Release"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "RESOLVEMCP_BRIDGE",
	MagicCookieValue: "resolve",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

// ObjectRef names a host object owned by the bridge process.
type ObjectRef struct {
	ID   string `json:"$ref"`
	Kind string `json:"$kind,omitempty"`
}

type AcquireRequest struct {
	App string `json:"app"`
}

// AcquireResponse carries an empty Root when the host application is not
// running.
type AcquireResponse struct {
	Root ObjectRef `json:"root"`
}

type VersionRequest struct {
	Root string `json:"root"`
}

type VersionResponse struct {
	Version string `json:"version"`
	Parts   []int  `json:"parts"`
}

type CallRequest struct {
	Target   string `json:"target"`
	Method   string `json:"method"`
	ArgsJSON string `json:"args_json"`
}

type CallResponse struct {
	ResultJSON string `json:"result_json"`
}

type HasMethodRequest struct {
	Target string `json:"target"`
	Method string `json:"method"`
}

type HasMethodResponse struct {
	Supported bool `json:"supported"`
}

type ReleaseRequest struct {
	Root string `json:"root"`
}

type HostBridgeServer interface {
	Acquire(ctx context.Context, in *AcquireRequest) (*AcquireResponse, error)
	GetVersion(ctx context.Context, in *VersionRequest) (*VersionResponse, error)
	Call(ctx context.Context, in *CallRequest) (*CallResponse, error)
	HasMethod(ctx context.Context, in *HasMethodRequest) (*HasMethodResponse, error)
	Release(ctx context.Context, in *ReleaseRequest) (*Empty, error)
}

type HostBridgeClient interface {
	Acquire(ctx context.Context, in *AcquireRequest) (*AcquireResponse, error)
	GetVersion(ctx context.Context, in *VersionRequest) (*VersionResponse, error)
	Call(ctx context.Context, in *CallRequest) (*CallResponse, error)
	HasMethod(ctx context.Context, in *HasMethodRequest) (*HasMethodResponse, error)
	Release(ctx context.Context, in *ReleaseRequest) error
}

type hostBridgeClient struct {
	conn *grpc.ClientConn
}

func NewHostBridgeClient(conn *grpc.ClientConn) HostBridgeClient {
	return &hostBridgeClient{conn: conn}
}

func (c *hostBridgeClient) invoke(ctx context.Context, method string, in, out any) error {
	return c.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(jsonCodecName))
}

func (c *hostBridgeClient) Acquire(ctx context.Context, in *AcquireRequest) (*AcquireResponse, error) {
	out := &AcquireResponse{}
	if err := c.invoke(ctx, methodAcquire, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hostBridgeClient) GetVersion(ctx context.Context, in *VersionRequest) (*VersionResponse, error) {
	out := &VersionResponse{}
	if err := c.invoke(ctx, methodVersion, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hostBridgeClient) Call(ctx context.Context, in *CallRequest) (*CallResponse, error) {
	out := &CallResponse{}
	if err := c.invoke(ctx, methodCall, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hostBridgeClient) HasMethod(ctx context.Context, in *HasMethodRequest) (*HasMethodResponse, error) {
	out := &HasMethodResponse{}
	if err := c.invoke(ctx, methodHasMethod, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hostBridgeClient) Release(ctx context.Context, in *ReleaseRequest) error {
	return c.invoke(ctx, methodRelease, in, &Empty{})
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](fullMethod string, call func(context.Context, *Req) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type %T for %s", req, fullMethod)
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterHostBridgeServer(server grpc.ServiceRegistrar, impl HostBridgeServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*HostBridgeServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Acquire", Handler: unary(methodAcquire, impl.Acquire)},
			{MethodName: "GetVersion", Handler: unary(methodVersion, impl.GetVersion)},
			{MethodName: "Call", Handler: unary(methodCall, impl.Call)},
			{MethodName: "HasMethod", Handler: unary(methodHasMethod, impl.HasMethod)},
			{MethodName: "Release", Handler: unary(methodRelease, impl.Release)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "bridge/v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl HostBridgeServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterHostBridgeServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewHostBridgeClient(conn), nil
}

func PluginMap(impl HostBridgeServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
