package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default %d got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default %d got %d", DefaultLimit, got)
	}
	if got := NormalizeLimit(MaxLimit + 1); got != MaxLimit {
		t.Fatalf("expected cap %d got %d", MaxLimit, got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10 got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11 got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		ID:        uuid.New(),
	}

	encoded := EncodeCursor(original)
	decoded, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !decoded.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("expected %v got %v", original.CreatedAt, decoded.CreatedAt)
	}
	if decoded.ID != original.ID {
		t.Fatalf("expected %s got %s", original.ID, decoded.ID)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	decoded, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("blank cursor must not error: %v", err)
	}
	if decoded != nil {
		t.Fatal("blank cursor must decode to nil")
	}
}

func TestParseCursorInvalid(t *testing.T) {
	if _, err := ParseCursor("%%%not-base64%%%"); err == nil {
		t.Fatal("expected base64 error")
	}
	if _, err := ParseCursor("bm8tcGlwZS1oZXJl"); err == nil {
		t.Fatal("expected format error")
	}
}
