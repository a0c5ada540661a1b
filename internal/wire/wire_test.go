package wire_test

import (
	"bytes"
	"testing"

	"github.com/H2Owater425/dqache/internal/wire"
)

func TestVersion_Ordering(t *testing.T) {
	cases := []struct {
		a, b wire.Version
		want int
	}{
		{wire.Version{1, 0, 0}, wire.Version{1, 0, 0}, 0},
		{wire.Version{1, 0, 0}, wire.Version{2, 0, 0}, -1},
		{wire.Version{2, 0, 0}, wire.Version{1, 9, 9}, 1},
		{wire.Version{1, 2, 0}, wire.Version{1, 3, 0}, -1},
		{wire.Version{1, 2, 5}, wire.Version{1, 2, 4}, 1},
	}

	for _, c := range cases {
		if got := c.a.Compare(c.b); got != c.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestVersion_ParseAndBytesRoundTrip(t *testing.T) {
	v, err := wire.ParseVersion("1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != (wire.Version{Major: 1, Minor: 2, Patch: 3}) {
		t.Fatalf("unexpected parse result: %+v", v)
	}

	rb := v.Bytes()
	v2, err := wire.VersionFromBytes(rb[:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v2 != v {
		t.Fatalf("round-trip mismatch: %+v != %+v", v2, v)
	}
}

func TestVersion_GreaterThan(t *testing.T) {
	server := wire.Version{Major: 1, Minor: 0, Patch: 0}
	newer := wire.Version{Major: 2, Minor: 0, Patch: 0}
	older := wire.Version{Major: 0, Minor: 9, Patch: 9}

	if !newer.GreaterThan(server) {
		t.Fatal("expected 2.0.0 > 1.0.0")
	}
	if older.GreaterThan(server) {
		t.Fatal("expected 0.9.9 to not be greater than 1.0.0")
	}
	if server.GreaterThan(server) {
		t.Fatal("expected equal versions to not be greater-than")
	}
}

func TestFrame_SetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteSet(&buf, "abc", []byte("xy")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op, err := wire.ReadOpcode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != wire.OpSet {
		t.Fatalf("expected OpSet, got %v", op)
	}

	key, err := wire.ReadKey(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "abc" {
		t.Fatalf("expected key 'abc', got %q", key)
	}

	value, err := wire.ReadValue(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "xy" {
		t.Fatalf("expected value 'xy', got %q", value)
	}
}

func TestFrame_GetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteGet(&buf, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op, _ := wire.ReadOpcode(&buf)
	if op != wire.OpGet {
		t.Fatalf("expected OpGet, got %v", op)
	}

	key, err := wire.ReadKey(&buf)
	if err != nil || key != "k" {
		t.Fatalf("expected key 'k', got %q, err=%v", key, err)
	}
}

func TestFrame_ValueRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteValue(&buf, []byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op, _ := wire.ReadOpcode(&buf)
	if op != wire.OpValue {
		t.Fatalf("expected OpValue, got %v", op)
	}

	value, err := wire.ReadValue(&buf)
	if err != nil || string(value) != "hello" {
		t.Fatalf("expected value 'hello', got %q, err=%v", value, err)
	}
}

func TestFrame_ErrorRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := wire.WriteError(&buf, "key must exist"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op, _ := wire.ReadOpcode(&buf)
	if op != wire.OpError {
		t.Fatalf("expected OpError, got %v", op)
	}

	msg, err := wire.ReadValue(&buf)
	if err != nil || string(msg) != "key must exist" {
		t.Fatalf("expected error message, got %q, err=%v", msg, err)
	}
}

func TestFrame_HelloRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := wire.Version{Major: 1, Minor: 2, Patch: 3}
	if err := wire.WriteHello(&buf, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := wire.ReadHello(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFrame_RejectsZeroLengthKey(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{byte(wire.OpGet), 0})

	wire.ReadOpcode(&buf)
	if _, err := wire.ReadKey(&buf); err != wire.ErrZeroKeyLength {
		t.Fatalf("expected ErrZeroKeyLength, got %v", err)
	}
}

func TestFrame_RejectsZeroLengthValue(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})

	if _, err := wire.ReadValue(&buf); err != wire.ErrZeroValueLength {
		t.Fatalf("expected ErrZeroValueLength, got %v", err)
	}
}

func TestFrame_WriteSetRejectsOversizedKey(t *testing.T) {
	var buf bytes.Buffer
	big := make([]byte, 256)
	if err := wire.WriteSet(&buf, string(big), []byte("v")); err != wire.ErrKeyTooLong {
		t.Fatalf("expected ErrKeyTooLong, got %v", err)
	}
}
