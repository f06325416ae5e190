package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConnectRedis_Success(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), server.Addr(), "", 3)
	if err != nil {
		t.Fatalf("ConnectRedis failed: %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Errorf("Expected usable client: %v", err)
	}
}

func TestConnectRedis_WithPassword(t *testing.T) {
	server := miniredis.RunT(t)
	server.RequireAuth("secret")

	if _, err := connect(context.Background(), server.Addr(), "wrong", 1, time.Millisecond); err == nil {
		t.Error("Expected auth failure with wrong password")
	}

	client, err := connect(context.Background(), server.Addr(), "secret", 1, time.Millisecond)
	if err != nil {
		t.Fatalf("Expected connection with correct password: %v", err)
	}
	_ = client.Close()
}

func TestConnectRedis_GivesUp(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	start := time.Now()
	_, err := connect(context.Background(), addr, "", 3, time.Millisecond)
	if err == nil {
		t.Fatal("Expected error when Redis is down")
	}
	if time.Since(start) > 10*time.Second {
		t.Errorf("Expected quick failure, took %s", time.Since(start))
	}
}

func TestConnectRedis_ContextCancelled(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := connect(ctx, addr, "", 5, time.Hour); err == nil {
		t.Fatal("Expected error on cancelled context")
	}
}
