package feed

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	orig := Cursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.UTC),
		Slug:      "neon-alley",
	}

	decoded, ok := DecodeCursor(orig.Encode())
	if !ok {
		t.Fatal("DecodeCursor() rejected a cursor produced by Encode()")
	}
	if decoded.Slug != orig.Slug {
		t.Errorf("Slug = %q, want %q", decoded.Slug, orig.Slug)
	}
	if decoded.CreatedAt.UnixNano() != orig.CreatedAt.UnixNano() {
		t.Errorf("CreatedAt = %v, want %v", decoded.CreatedAt, orig.CreatedAt)
	}
}

func TestCursorSlugWithColon(t *testing.T) {
	// Cut splits on the first separator only, so slugs containing the
	// separator still round-trip. Slugify never emits ':' but the codec
	// should not depend on that.
	orig := Cursor{CreatedAt: time.Unix(0, 42).UTC(), Slug: "a:b"}
	decoded, ok := DecodeCursor(orig.Encode())
	if !ok || decoded.Slug != "a:b" {
		t.Fatalf("DecodeCursor() = %+v, %v", decoded, ok)
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	enc := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}
	cases := []string{
		"",
		"not-base64-garbage!!!",
		enc("hello"),        // no separator
		enc(":slug"),        // empty timestamp
		enc("abc:slug"),     // non-numeric timestamp
		enc("12345678:"),    // empty slug
		enc("12.5:slug"),    // fractional timestamp
	}

	for _, c := range cases {
		if _, ok := DecodeCursor(c); ok {
			t.Errorf("DecodeCursor(%q) accepted malformed input", c)
		}
	}
}
