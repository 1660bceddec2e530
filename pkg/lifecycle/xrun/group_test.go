package xrun

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_FirstErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	g, ctx := NewGroup(context.Background())

	var stopped atomic.Bool
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return ctx.Err()
	})
	g.GoWithName("failing", func(context.Context) error { return boom })

	err := g.Wait()
	assert.ErrorIs(t, err, boom)
	assert.True(t, stopped.Load())
	assert.Error(t, ctx.Err())
}

func TestGroup_CancelWithCause(t *testing.T) {
	cause := errors.New("shutdown requested")
	g, _ := NewGroup(context.Background())
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(cause)
	assert.ErrorIs(t, g.Wait(), cause)
}

func TestGroup_CancelNilCauseIsClean(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.GoWithName("waiter", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	g.Cancel(nil)
	assert.NoError(t, g.Wait())
}

func TestGroup_ServiceOwnCanceledKept(t *testing.T) {
	g, _ := NewGroup(context.Background())
	g.Go(func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, g.Wait(), context.Canceled)
}

func TestGroup_NilFunc(t *testing.T) {
	g, _ := NewGroup(nil) //nolint:staticcheck // nil ctx 回落为 Background
	g.Go(nil)
	assert.ErrorIs(t, g.Wait(), ErrNilFunc)
	assert.NotNil(t, g.Context())
}

func TestRun_AllServicesReturn(t *testing.T) {
	err := RunWithOptions(context.Background(), []Option{WithoutSignalHandler(), WithName("test")},
		func(context.Context) error { return nil },
		func(context.Context) error { return nil },
	)
	assert.NoError(t, err)
}

func TestRun_Signal(t *testing.T) {
	sigc := make(chan os.Signal, 1)
	ctx := withTestSigChan(context.Background(), sigc)
	sigc <- syscall.SIGTERM

	err := RunWithOptions(ctx, []Option{WithSignals([]os.Signal{syscall.SIGUSR1})},
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
	)
	require.ErrorIs(t, err, ErrSignal)
	var sigErr *SignalError
	require.ErrorAs(t, err, &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
	assert.Equal(t, "received signal terminated", sigErr.Error())
}

func TestRun_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	assert.NoError(t, err)
}

func TestSignalError_Nil(t *testing.T) {
	assert.Equal(t, "received signal <nil>", (&SignalError{}).Error())
}

func TestDefaultSignals_Copy(t *testing.T) {
	a := DefaultSignals()
	a[0] = syscall.SIGUSR2
	assert.Equal(t, syscall.SIGHUP, DefaultSignals()[0])
}

type fakeServer struct {
	closed   chan struct{}
	shutdown atomic.Int32
	listen   error
}

func newFakeServer() *fakeServer {
	return &fakeServer{closed: make(chan struct{})}
}

func (s *fakeServer) ListenAndServe() error {
	if s.listen != nil {
		return s.listen
	}
	<-s.closed
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	if s.shutdown.Add(1) == 1 {
		close(s.closed)
	}
	return nil
}

func TestHTTPServer_ShutdownOnCancel(t *testing.T) {
	srv := newFakeServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- HTTPServer(srv, time.Second)(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.GreaterOrEqual(t, srv.shutdown.Load(), int32(1))
}

func TestHTTPServer_ListenError(t *testing.T) {
	srv := newFakeServer()
	srv.listen = errors.New("address in use")
	err := HTTPServer(srv, 0)(context.Background())
	assert.EqualError(t, err, "address in use")
}

func TestHTTPServer_Nil(t *testing.T) {
	assert.ErrorIs(t, HTTPServer(nil, 0)(context.Background()), ErrNilServer)
}
