package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger(t *testing.T) {
	t.Helper()
	log = zap.NewNop()
	once = sync.Once{}
	t.Cleanup(func() {
		log = zap.NewNop()
		once = sync.Once{}
	})
}

func TestDefaultLoggerIsNop(t *testing.T) {
	resetLogger(t)
	if GetLogger() == nil {
		t.Fatal("expected default logger")
	}
	Info(context.Background(), "dropped")
}

func TestInitAndContextLogging(t *testing.T) {
	resetLogger(t)
	Init("development")
	if GetLogger() == nil {
		t.Fatal("expected logger initialized")
	}

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
}

func TestWithContextNil(t *testing.T) {
	resetLogger(t)
	//nolint:staticcheck // nil context is handled explicitly
	if WithContext(nil) == nil {
		t.Fatal("expected base logger for nil context")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	resetLogger(t)
	core, logs := observer.New(zap.InfoLevel)
	log = zap.New(core)

	ctx := context.WithValue(context.Background(), RequestIDKey, "typed-req-id")
	ctx = context.WithValue(ctx, UserIDKey, uint(7))
	Info(ctx, "team created")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "typed-req-id" {
		t.Fatalf("unexpected request_id: %v", fields["request_id"])
	}
	if fields["user_id"] != uint64(7) {
		t.Fatalf("unexpected user_id: %v", fields["user_id"])
	}
}

func TestInit_Production(t *testing.T) {
	resetLogger(t)
	Init("production")
	if WithContext(context.Background()) == nil {
		t.Fatal("expected logger without contextual fields")
	}
	Sync()
}

func TestInit_PanicWhenLoggerBuildFails(t *testing.T) {
	resetLogger(t)
	origBuild := buildLogger
	t.Cleanup(func() { buildLogger = origBuild })

	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic when logger builder fails")
		}
	}()
	Init("production")
}
