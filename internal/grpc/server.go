package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"fraudguard/internal/apperrors"
	"fraudguard/internal/metrics"
	"fraudguard/internal/models"
	"fraudguard/internal/services"
)

type FraudGRPCServer struct {
	transactions services.TransactionService
}

func NewFraudGRPCServer(transactions services.TransactionService) *FraudGRPCServer {
	return &FraudGRPCServer{transactions: transactions}
}

// EvaluateTransaction runs the rules on {amount, type, country, device, timestamp?} without storing anything.
func (s *FraudGRPCServer) EvaluateTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	amount, err := decimalField(fields, "amount")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	in := &models.EvaluateRequest{
		Amount:  amount,
		Type:    fields["type"].GetStringValue(),
		Country: fields["country"].GetStringValue(),
		Device:  fields["device"].GetStringValue(),
	}
	if raw := fields["timestamp"].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid timestamp: %q", raw)
		}
		in.Timestamp = &ts
	}

	eval, err := s.transactions.EvaluateTransaction(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(eval)
}

// GetTransaction returns the transaction with the given {id}.
func (s *FraudGRPCServer) GetTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := int64(req.GetFields()["id"].GetNumberValue())
	if id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be a positive number")
	}
	detail, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(detail.Transaction)
}

// GenerateTransaction returns a random demo request for {risk, account_id}.
func (s *FraudGRPCServer) GenerateTransaction(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	risk := strings.ToLower(fields["risk"].GetStringValue())
	if risk == "" {
		risk = "low"
	}
	accountID := int64(fields["account_id"].GetNumberValue())
	if accountID <= 0 {
		accountID = 1
	}
	return toStruct(s.transactions.GenerateTransaction(risk, accountID))
}

// decimalField accepts the amount as a JSON number or a decimal string.
func decimalField(fields map[string]*structpb.Value, name string) (decimal.Decimal, error) {
	v, ok := fields[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s is required", name)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %q", name, kind.StringValue)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("invalid %s", name)
}

// toStruct converts a JSON-tagged model into a Struct through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	msg := apperrors.Message(err, "internal error")
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, msg)
	case apperrors.Is(err, apperrors.ErrNotFound):
		return status.Error(codes.NotFound, msg)
	case apperrors.Is(err, apperrors.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, msg)
	case apperrors.Is(err, apperrors.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, msg)
	}
	return status.Error(codes.Internal, "internal error")
}

// unaryInterceptor logs failures and counts calls per method and code.
func unaryInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		m.RecordGRPC(info.FullMethod, code.String())
		if err != nil {
			slog.WarnContext(ctx, "grpc call failed", "method", info.FullMethod, "code", code.String(),
				"duration_ms", time.Since(start).Milliseconds(), "error", err)
		}
		return resp, err
	}
}

// NewServer builds a gRPC server exposing the fraud service, grpc.health.v1 and reflection.
func NewServer(srv FraudServiceServer, m *metrics.Metrics) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(unaryInterceptor(m)))
	RegisterFraudServiceServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)
	return s
}

// Serve runs s on port until ctx is cancelled, then stops it gracefully.
func Serve(ctx context.Context, s *grpc.Server, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on grpc port %d: %w", port, err)
	}

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	slog.Info("gRPC server listening", "port", port)
	if err := s.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}
