package pagination

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 123, time.UTC), ID: uuid.New()}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("cursor mismatch: got %+v want %+v", got, want)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("expected nil cursor for blank input, got %v %v", c, err)
	}
	for _, raw := range []string{"%%%", "bm9waXBl", "YWJjfGRlZg=="} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestEncodedCursorIsQuerySafe(t *testing.T) {
	for i := 0; i < 50; i++ {
		raw := EncodeCursor(Cursor{CreatedAt: time.Now().Add(time.Duration(i) * time.Millisecond), ID: uuid.New()})
		if strings.ContainsAny(raw, "+/=") {
			t.Fatalf("cursor %q is not query safe", raw)
		}
	}
}
