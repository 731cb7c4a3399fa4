package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/pricelist-backend/internal/metrics"
	"github.com/simaogato/pricelist-backend/pkg/logger"
)

func TestAuthInterceptor(t *testing.T) {
	const token = "test-token-123"
	interceptor := AuthInterceptor(token)

	tests := []struct {
		name    string
		method  string
		md      metadata.MD // nil means no incoming metadata at all
		wantErr string
	}{
		{name: "raw token", method: "AddItem", md: metadata.Pairs("authorization", token)},
		{name: "bearer token", method: "ListDays", md: metadata.Pairs("authorization", "Bearer "+token)},
		{name: "wrong token", method: "AddItem", md: metadata.Pairs("authorization", "nope"), wantErr: "invalid token"},
		{name: "other scheme", method: "AddItem", md: metadata.Pairs("authorization", "Basic "+token), wantErr: "invalid token"},
		{name: "no header", method: "DeleteItem", md: metadata.Pairs("x-request-id", "1"), wantErr: "missing authorization header"},
		{name: "no metadata", method: "ImportLegacy", wantErr: "missing metadata"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tt.md)
			}
			var called bool
			info := &grpc.UnaryServerInfo{FullMethod: FullMethod(tt.method)}

			resp, err := interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				called = true
				return "handled", nil
			})

			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, called)
				assert.Equal(t, "handled", resp)
				return
			}
			assert.False(t, called, "handler must not run without a valid token")
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Contains(t, status.Convert(err).Message(), tt.wantErr)
		})
	}
}

func TestAuthInterceptor_HealthChecksNeedNoToken(t *testing.T) {
	interceptor := AuthInterceptor("secret")

	for _, method := range []string{"Check", "Watch"} {
		info := &grpc.UnaryServerInfo{FullMethod: healthServicePrefix + method}
		resp, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "serving", nil
		})

		assert.NoError(t, err, method)
		assert.Equal(t, "serving", resp)
	}
}

func TestTokenCredentials(t *testing.T) {
	creds := TokenCredentials("Bearer abc")

	md, err := creds.GetRequestMetadata(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"authorization": "Bearer abc"}, md)
	assert.False(t, creds.RequireTransportSecurity())
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		handleErr error
		wantLevel string
		wantCode  string
	}{
		{"ok", nil, "level=debug", "code=OK"},
		{"rejected", status.Error(codes.InvalidArgument, "bad"), "level=info", "code=InvalidArgument"},
		{"failed", errors.New("disk full"), "level=error", "code=Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithOutput("debug", &buf)
			interceptor := LoggingInterceptor(logrus.NewEntry(log))
			info := &grpc.UnaryServerInfo{FullMethod: FullMethod("ListDays")}

			_, err := interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, tt.handleErr
			})

			assert.Equal(t, tt.handleErr, err)
			assert.Contains(t, buf.String(), tt.wantLevel)
			assert.Contains(t, buf.String(), tt.wantCode)
			assert.Contains(t, buf.String(), "method=/pricelist.v1.PriceListService/ListDays")
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	m := metrics.New()
	interceptor := MetricsInterceptor(m)
	info := &grpc.UnaryServerInfo{FullMethod: FullMethod("AddItem")}

	for _, err := range []error{nil, nil, status.Error(codes.AlreadyExists, "dup")} {
		_, _ = interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, err
		})
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GRPCRequests.WithLabelValues(FullMethod("AddItem"), "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GRPCRequests.WithLabelValues(FullMethod("AddItem"), "AlreadyExists")))
}
