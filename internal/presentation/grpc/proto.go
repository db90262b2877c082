package grpc

// proto.go hand-writes what protoc-gen-go-grpc would generate for
// phonerisk.v1.PhoneRiskService. Messages travel as JSON (see codec.go).

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "phonerisk.v1.PhoneRiskService"

// Full method names.
const (
	MethodAnalyze           = "/" + serviceName + "/Analyze"
	MethodGetAnalysis       = "/" + serviceName + "/GetAnalysis"
	MethodGetScoreBreakdown = "/" + serviceName + "/GetScoreBreakdown"
)

// PhoneRiskServiceServer is the server API for PhoneRiskService.
type PhoneRiskServiceServer interface {
	Analyze(context.Context, *AnalyzeRequest) (*AnalyzeResponse, error)
	GetAnalysis(context.Context, *GetAnalysisRequest) (*GetAnalysisResponse, error)
	GetScoreBreakdown(context.Context, *GetAnalysisRequest) (*ScoreBreakdownResponse, error)
	mustEmbedUnimplementedPhoneRiskServiceServer()
}

// UnimplementedPhoneRiskServiceServer provides forward-compatible default implementations.
type UnimplementedPhoneRiskServiceServer struct{}

func (UnimplementedPhoneRiskServiceServer) Analyze(context.Context, *AnalyzeRequest) (*AnalyzeResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Analyze not implemented")
}
func (UnimplementedPhoneRiskServiceServer) GetAnalysis(context.Context, *GetAnalysisRequest) (*GetAnalysisResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAnalysis not implemented")
}
func (UnimplementedPhoneRiskServiceServer) GetScoreBreakdown(context.Context, *GetAnalysisRequest) (*ScoreBreakdownResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetScoreBreakdown not implemented")
}
func (UnimplementedPhoneRiskServiceServer) mustEmbedUnimplementedPhoneRiskServiceServer() {}

// RegisterPhoneRiskServiceServer registers srv with the gRPC server.
func RegisterPhoneRiskServiceServer(s grpclib.ServiceRegistrar, srv PhoneRiskServiceServer) {
	s.RegisterService(&phoneRiskServiceDesc, srv)
}

var phoneRiskServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PhoneRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
		{MethodName: "GetAnalysis", Handler: getAnalysisHandler},
		{MethodName: "GetScoreBreakdown", Handler: getScoreBreakdownHandler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "phonerisk/v1/phonerisk.proto",
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(AnalyzeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhoneRiskServiceServer).Analyze(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodAnalyze}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PhoneRiskServiceServer).Analyze(ctx, req.(*AnalyzeRequest))
	})
}

func getAnalysisHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetAnalysisRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhoneRiskServiceServer).GetAnalysis(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetAnalysis}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PhoneRiskServiceServer).GetAnalysis(ctx, req.(*GetAnalysisRequest))
	})
}

func getScoreBreakdownHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetAnalysisRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhoneRiskServiceServer).GetScoreBreakdown(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: MethodGetScoreBreakdown}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(PhoneRiskServiceServer).GetScoreBreakdown(ctx, req.(*GetAnalysisRequest))
	})
}

// PhoneRiskServiceClient is the client API for PhoneRiskService.
type PhoneRiskServiceClient interface {
	Analyze(ctx context.Context, in *AnalyzeRequest, opts ...grpclib.CallOption) (*AnalyzeResponse, error)
	GetAnalysis(ctx context.Context, in *GetAnalysisRequest, opts ...grpclib.CallOption) (*GetAnalysisResponse, error)
	GetScoreBreakdown(ctx context.Context, in *GetAnalysisRequest, opts ...grpclib.CallOption) (*ScoreBreakdownResponse, error)
}

type phoneRiskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewPhoneRiskServiceClient returns a client that always selects the JSON codec.
func NewPhoneRiskServiceClient(cc grpclib.ClientConnInterface) PhoneRiskServiceClient {
	return &phoneRiskServiceClient{cc: cc}
}

func (c *phoneRiskServiceClient) Analyze(ctx context.Context, in *AnalyzeRequest, opts ...grpclib.CallOption) (*AnalyzeResponse, error) {
	out := new(AnalyzeResponse)
	if err := c.cc.Invoke(ctx, MethodAnalyze, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *phoneRiskServiceClient) GetAnalysis(ctx context.Context, in *GetAnalysisRequest, opts ...grpclib.CallOption) (*GetAnalysisResponse, error) {
	out := new(GetAnalysisResponse)
	if err := c.cc.Invoke(ctx, MethodGetAnalysis, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *phoneRiskServiceClient) GetScoreBreakdown(ctx context.Context, in *GetAnalysisRequest, opts ...grpclib.CallOption) (*ScoreBreakdownResponse, error) {
	out := new(ScoreBreakdownResponse)
	if err := c.cc.Invoke(ctx, MethodGetScoreBreakdown, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpclib.CallOption) []grpclib.CallOption {
	return append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
}
