package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startTestServer(t *testing.T) (*Server, healthpb.HealthClient) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := NewServer("bufnet")

	go func() { _ = s.Serve(lis) }()

	t.Cleanup(func() { s.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return s, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)

	return resp.GetStatus()
}

func TestSetServing(t *testing.T) {
	s, client := startTestServer(t)

	s.SetServing("meshbot", false)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, "meshbot"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))

	s.SetServing("meshbot", true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, "meshbot"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
}

func TestRecoveryInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panic"}

	resp, err := RecoveryInterceptor(context.Background(), nil, info,
		func(context.Context, interface{}) (interface{}, error) { panic("boom") })

	require.ErrorIs(t, err, errInternalError)
	assert.Nil(t, resp)
}

func TestStartInvalidAddress(t *testing.T) {
	s := NewServer("256.0.0.1:bad")

	require.ErrorIs(t, s.Start(), errListen)
}
