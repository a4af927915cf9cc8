package der

import (
	"bytes"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"testing"

	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	return b
}

// =============================================================================
// Encoding
// =============================================================================

func TestInteger_Minimal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "020100"},
		{2, "020102"},
		{127, "02017f"},
		{128, "02020080"},
		{256, "02020100"},
		{-1, "0201ff"},
		{-128, "020180"},
	}
	for _, tt := range tests {
		got, err := Integer(tt.n)
		if err != nil {
			t.Fatalf("Integer(%d) failed: %v", tt.n, err)
		}
		if !bytes.Equal(got, mustHex(t, tt.want)) {
			t.Errorf("Integer(%d) = %x, want %s", tt.n, got, tt.want)
		}
	}
}

func TestSequence_ShortForm(t *testing.T) {
	got, err := Sequence(mustHex(t, "020102"))
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	if !bytes.Equal(got, mustHex(t, "3003020102")) {
		t.Errorf("Sequence = %x, want 3003020102", got)
	}
}

func TestSequence_LongForm(t *testing.T) {
	inner := bytes.Repeat([]byte{0x00}, 200)
	got, err := Sequence(inner)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	// 200 bytes needs the two-byte long form: 0x81 0xc8.
	if got[0] != 0x30 || got[1] != 0x81 || got[2] != 0xc8 {
		t.Errorf("unexpected header %x", got[:3])
	}
	if len(got) != 203 {
		t.Errorf("length = %d, want 203", len(got))
	}
}

func TestImplicitContext(t *testing.T) {
	tests := []struct {
		num  uint8
		in   string
		want string
	}{
		{0, "020102", "800102"},
		{1, "020105", "810105"},
		{1, "02020080", "81020080"},
	}
	for _, tt := range tests {
		got, err := ImplicitContext(tt.num, mustHex(t, tt.in))
		if err != nil {
			t.Fatalf("ImplicitContext(%d, %s) failed: %v", tt.num, tt.in, err)
		}
		if !bytes.Equal(got, mustHex(t, tt.want)) {
			t.Errorf("ImplicitContext(%d, %s) = %x, want %s", tt.num, tt.in, got, tt.want)
		}
	}
}

func TestImplicitContext_Invalid(t *testing.T) {
	// Truncated element
	if _, err := ImplicitContext(0, mustHex(t, "0205")); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for truncated element, got %v", err)
	}
	// Trailing data after element
	if _, err := ImplicitContext(0, mustHex(t, "020102ff")); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for trailing data, got %v", err)
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	oid := asn1.ObjectIdentifier{2, 5, 29, 36}
	enc, err := ObjectIdentifier(oid)
	if err != nil {
		t.Fatalf("ObjectIdentifier failed: %v", err)
	}
	if !bytes.Equal(enc, mustHex(t, "0603551d24")) {
		t.Errorf("ObjectIdentifier = %x, want 0603551d24", enc)
	}

	got, err := NewReader(enc).ReadObjectIdentifier()
	if err != nil {
		t.Fatalf("ReadObjectIdentifier failed: %v", err)
	}
	if !got.Equal(oid) {
		t.Errorf("round trip = %v, want %v", got, oid)
	}
}

func TestBool(t *testing.T) {
	enc, err := Bool(true)
	if err != nil {
		t.Fatalf("Bool failed: %v", err)
	}
	if !bytes.Equal(enc, mustHex(t, "0101ff")) {
		t.Errorf("Bool(true) = %x, want 0101ff", enc)
	}
}

func TestOctetString(t *testing.T) {
	enc, err := OctetString(mustHex(t, "3000"))
	if err != nil {
		t.Fatalf("OctetString failed: %v", err)
	}
	if !bytes.Equal(enc, mustHex(t, "04023000")) {
		t.Errorf("OctetString = %x, want 04023000", enc)
	}
}

// =============================================================================
// Reader
// =============================================================================

func TestReader_ReadValue(t *testing.T) {
	r := NewReader(mustHex(t, "800102810203e8"))
	if r.Remaining() != 7 {
		t.Fatalf("Remaining = %d, want 7", r.Remaining())
	}

	tag, ok := r.PeekTag()
	if !ok || uint8(tag) != 0x80 {
		t.Fatalf("PeekTag = %x, %v", tag, ok)
	}

	v, err := r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if !v.IsContextSpecific(0) || v.Constructed() {
		t.Errorf("first value: tag %x, constructed %v", v.Tag, v.Constructed())
	}
	if n, err := v.Integer(); err != nil || n != 2 {
		t.Errorf("Integer = %d, %v, want 2", n, err)
	}

	v, err = r.ReadValue()
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if !v.IsContextSpecific(1) {
		t.Errorf("second value: tag %x", v.Tag)
	}
	if n, err := v.Integer(); err != nil || n != 1000 {
		t.Errorf("Integer = %d, %v, want 1000", n, err)
	}

	if !r.Empty() {
		t.Errorf("reader should be exhausted, %d bytes left", r.Remaining())
	}
}

func TestReader_LengthExceedsBuffer(t *testing.T) {
	// SEQUENCE declaring 5 content bytes with only 2 available.
	r := NewReader(mustHex(t, "30050201"))
	if _, err := r.ReadValue(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestReader_PeekAtEnd(t *testing.T) {
	r := NewReader(nil)
	if _, ok := r.PeekTag(); ok {
		t.Error("PeekTag on empty reader should report false")
	}
	if !r.Empty() {
		t.Error("empty reader should be Empty")
	}
}

func TestValue_Constructed(t *testing.T) {
	v := Value{Tag: cryptobyte_asn1.SEQUENCE}
	if !v.Constructed() {
		t.Error("SEQUENCE should be constructed")
	}
	if v.IsContextSpecific(0) {
		t.Error("SEQUENCE is not context-specific")
	}
	// Constructed context tag [0]: class bits plus constructed bit.
	v = Value{Tag: cryptobyte_asn1.Tag(0).ContextSpecific().Constructed()}
	if !v.Constructed() || !v.IsContextSpecific(0) {
		t.Errorf("constructed [0]: tag %x", v.Tag)
	}
}

func TestValue_IntegerStrict(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"zero", "00", 0, false},
		{"small", "02", 2, false},
		{"two bytes", "0080", 128, false},
		{"negative", "ff", -1, false},
		{"empty", "", 0, true},
		{"redundant leading zero", "007f", 0, true},
		{"redundant leading ff", "ff80", 0, true},
		{"too wide", "010203040506070809", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Value{Tag: 0x80, Content: mustHex(t, tt.content)}
			n, err := v.Integer()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Integer failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Integer = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestReader_ReadBoolean(t *testing.T) {
	b, err := NewReader(mustHex(t, "0101ff")).ReadBoolean()
	if err != nil || !b {
		t.Errorf("ReadBoolean = %v, %v, want true", b, err)
	}
	// DER requires 0x00 or 0xff.
	if _, err := NewReader(mustHex(t, "010101")).ReadBoolean(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for non-canonical boolean, got %v", err)
	}
}

func TestReader_ReadOctetString(t *testing.T) {
	got, err := NewReader(mustHex(t, "04023000")).ReadOctetString()
	if err != nil {
		t.Fatalf("ReadOctetString failed: %v", err)
	}
	if !bytes.Equal(got, mustHex(t, "3000")) {
		t.Errorf("ReadOctetString = %x, want 3000", got)
	}
	if _, err := NewReader(mustHex(t, "020100")).ReadOctetString(); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for wrong tag, got %v", err)
	}
}
