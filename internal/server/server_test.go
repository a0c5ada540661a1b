package server_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/H2Owater425/dqache/internal/cache"
	"github.com/H2Owater425/dqache/internal/logger"
	"github.com/H2Owater425/dqache/internal/metrics"
	"github.com/H2Owater425/dqache/internal/server"
	"github.com/H2Owater425/dqache/internal/storage"
	"github.com/H2Owater425/dqache/internal/wire"
)

func startTestServer(t *testing.T) net.Conn {
	t.Helper()

	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg := metrics.New()
	c := cache.New(2, cache.NewLRU())
	srv := server.New(c, st, wire.Version{Major: 1, Minor: 0, Patch: 0}, logger.NewConsole(io.Discard), metrics.NewCache(reg))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go srv.Serve(ctx, listener)

	conn, err := net.DialTimeout("tcp", listener.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	readReady(t, conn)
	if err := wire.WriteHello(conn, wire.Version{Major: 1, Minor: 0, Patch: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return conn
}

func readReady(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 4)
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("unexpected error reading READY: %v", err)
	}
	if wire.Opcode(buf[0]) != wire.OpReady {
		t.Fatalf("expected READY, got opcode %#x", buf[0])
	}
}

func readOpcode(t *testing.T, conn net.Conn) wire.Opcode {
	t.Helper()
	var b [1]byte
	if _, err := io.ReadFull(conn, b[:]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return wire.Opcode(b[0])
}

func TestServer_NOP(t *testing.T) {
	conn := startTestServer(t)

	if _, err := conn.Write([]byte{byte(wire.OpNop)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if op := readOpcode(t, conn); op != wire.OpOK {
		t.Fatalf("expected OK, got %s", op)
	}
}

func TestServer_SetThenGet(t *testing.T) {
	conn := startTestServer(t)

	if err := wire.WriteSet(conn, "abc", []byte("xy")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op := readOpcode(t, conn); op != wire.OpOK {
		t.Fatalf("expected OK after SET, got %s", op)
	}

	if err := wire.WriteGet(conn, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op := readOpcode(t, conn); op != wire.OpValue {
		t.Fatalf("expected VALUE after GET, got %s", op)
	}

	var lenBytes [4]byte
	if _, err := io.ReadFull(conn, lenBytes[:]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := int(lenBytes[0])<<24 | int(lenBytes[1])<<16 | int(lenBytes[2])<<8 | int(lenBytes[3])
	value := make([]byte, n)
	if _, err := io.ReadFull(conn, value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "xy" {
		t.Fatalf("expected 'xy', got %q", value)
	}
}

func TestServer_GetMissRepliesKeyMustExist(t *testing.T) {
	conn := startTestServer(t)

	if err := wire.WriteGet(conn, "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op := readOpcode(t, conn); op != wire.OpError {
		t.Fatalf("expected ERROR, got %s", op)
	}

	msg := readErrorMessage(t, conn)
	if msg != "key must exist" {
		t.Fatalf("expected 'key must exist', got %q", msg)
	}
}

func TestServer_DelAbsentRepliesKeyMustExist(t *testing.T) {
	conn := startTestServer(t)

	if err := wire.WriteDel(conn, "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op := readOpcode(t, conn); op != wire.OpError {
		t.Fatalf("expected ERROR, got %s", op)
	}

	msg := readErrorMessage(t, conn)
	if msg != "key must exist" {
		t.Fatalf("expected 'key must exist', got %q", msg)
	}
}

func TestServer_HandshakeRejectsNewerClientVersion(t *testing.T) {
	st, err := storage.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg := metrics.New()
	c := cache.New(2, cache.NewLRU())
	srv := server.New(c, st, wire.Version{Major: 1, Minor: 0, Patch: 0}, logger.NewConsole(io.Discard), metrics.NewCache(reg))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Serve(ctx, listener)

	conn, err := net.DialTimeout("tcp", listener.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer conn.Close()

	readReady(t, conn)
	if err := wire.WriteHello(conn, wire.Version{Major: 2, Minor: 0, Patch: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if op := readOpcode(t, conn); op != wire.OpError {
		t.Fatalf("expected ERROR, got %s", op)
	}
	readErrorMessage(t, conn)

	if op := readOpcode(t, conn); op != wire.OpQuit {
		t.Fatalf("expected QUIT after ERROR, got %s", op)
	}
}

func readErrorMessage(t *testing.T, conn net.Conn) string {
	t.Helper()
	var lenBytes [4]byte
	if _, err := io.ReadFull(conn, lenBytes[:]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := int(lenBytes[0])<<24 | int(lenBytes[1])<<16 | int(lenBytes[2])<<8 | int(lenBytes[3])
	msg := make([]byte, n)
	if _, err := io.ReadFull(conn, msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return string(msg)
}
