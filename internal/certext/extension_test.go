package certext

import (
	"bytes"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/remiblancher/certext/internal/der"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

// =============================================================================
// Envelope Parsing
// =============================================================================

func TestParseRawExtension(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		oid      asn1.ObjectIdentifier
		critical bool
		value    string
	}{
		{
			name:  "non-critical policy constraints",
			raw:   "300c0603551d2404053003800102",
			oid:   OIDExtPolicyConstraints,
			value: "3003800102",
		},
		{
			name:     "critical policy constraints",
			raw:      "300f0603551d240101ff04053003800100",
			oid:      OIDExtPolicyConstraints,
			critical: true,
			value:    "3003800100",
		},
		{
			name:  "policy mappings",
			raw:   "30150603551d21040e300c300a06032a030406032a0304",
			oid:   OIDExtPolicyMappings,
			value: "300c300a06032a030406032a0304",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oid, critical, value, err := ParseRawExtension(mustHex(t, tt.raw))
			if err != nil {
				t.Fatalf("ParseRawExtension failed: %v", err)
			}
			if !OIDEqual(oid, tt.oid) {
				t.Errorf("oid = %v, want %v", oid, tt.oid)
			}
			if critical != tt.critical {
				t.Errorf("critical = %v, want %v", critical, tt.critical)
			}
			if !bytes.Equal(value, mustHex(t, tt.value)) {
				t.Errorf("value = %x, want %s", value, tt.value)
			}
		})
	}
}

func TestParseRawExtension_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty input", "", der.ErrMalformed},
		{"outer tag not sequence", "0400", ErrStructural},
		{"trailing data after envelope", "30050603551d24ff", ErrStructural},
		{"missing octet string", "30050603551d24", der.ErrMalformed},
		{"trailing data inside envelope", "300d0603551d2404053003800102ff", ErrStructural},
		{"non-canonical boolean", "300f0603551d2401010104053003800102", der.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseRawExtension(mustHex(t, tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtension_ValueReturnsCopy(t *testing.T) {
	pc, err := NewPolicyConstraints(false, 2, Unspecified)
	if err != nil {
		t.Fatalf("NewPolicyConstraints failed: %v", err)
	}
	v := pc.Value()
	v[0] ^= 0xff
	if bytes.Equal(v, pc.Value()) {
		t.Error("mutating the returned value must not affect the cache")
	}
}

// =============================================================================
// Codec Dispatch
// =============================================================================

func TestDecodeValue(t *testing.T) {
	set, err := DecodeValue(true, OIDExtPolicyConstraints, mustHex(t, "3003800102"))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	pc, ok := set.(*PolicyConstraints)
	if !ok {
		t.Fatalf("DecodeValue returned %T, want *PolicyConstraints", set)
	}
	if n, ok := pc.Require(); !ok || n != 2 {
		t.Errorf("Require = %d, %v", n, ok)
	}

	set, err = DecodeValue(false, OIDExtPolicyMappings, mustHex(t, "3000"))
	if err != nil {
		t.Fatalf("DecodeValue failed: %v", err)
	}
	if _, ok := set.(*PolicyMappings); !ok {
		t.Fatalf("DecodeValue returned %T, want *PolicyMappings", set)
	}

	if _, err := DecodeValue(false, OIDExtSubjectKeyId, mustHex(t, "0400")); err == nil {
		t.Error("expected an error for an OID without a codec")
	}
}

func TestFindAndParse(t *testing.T) {
	pc, err := NewPolicyConstraints(true, 0, 1)
	if err != nil {
		t.Fatalf("NewPolicyConstraints failed: %v", err)
	}
	pcExt, err := pc.PKIX()
	if err != nil {
		t.Fatalf("PKIX failed: %v", err)
	}
	pm, err := NewPolicyMappings(false, testMaps())
	if err != nil {
		t.Fatalf("NewPolicyMappings failed: %v", err)
	}
	pmExt, err := pm.PKIX()
	if err != nil {
		t.Fatalf("PKIX failed: %v", err)
	}
	exts := []pkix.Extension{pmExt, pcExt}

	got, err := ParsePolicyConstraints(exts)
	if err != nil {
		t.Fatalf("ParsePolicyConstraints failed: %v", err)
	}
	if got == nil || !got.Critical {
		t.Fatal("policy constraints not recovered from the extension list")
	}
	if n, ok := got.Inhibit(); !ok || n != 1 {
		t.Errorf("Inhibit = %d, %v", n, ok)
	}

	gotPM, err := ParsePolicyMappings(exts)
	if err != nil {
		t.Fatalf("ParsePolicyMappings failed: %v", err)
	}
	if gotPM == nil || len(gotPM.Maps()) != 2 {
		t.Fatal("policy mappings not recovered from the extension list")
	}

	// Absent extensions yield nil without error.
	if got, err := ParsePolicyConstraints(nil); got != nil || err != nil {
		t.Errorf("ParsePolicyConstraints(nil) = %v, %v", got, err)
	}
	if got := FindPolicyMappings([]pkix.Extension{pcExt}); got != nil {
		t.Errorf("FindPolicyMappings found %v in a list without it", got)
	}
}

// =============================================================================
// OID Table
// =============================================================================

func TestOIDName(t *testing.T) {
	tests := []struct {
		oid  asn1.ObjectIdentifier
		want string
	}{
		{OIDExtPolicyConstraints, NamePolicyConstraints},
		{OIDExtPolicyMappings, NamePolicyMappings},
		{asn1.ObjectIdentifier{1, 2, 3, 4}, "1.2.3.4"},
	}
	for _, tt := range tests {
		if got := OIDName(tt.oid); got != tt.want {
			t.Errorf("OIDName(%v) = %q, want %q", tt.oid, got, tt.want)
		}
	}
}

func TestOIDEqual(t *testing.T) {
	if !OIDEqual(OIDExtPolicyConstraints, asn1.ObjectIdentifier{2, 5, 29, 36}) {
		t.Error("equal OIDs reported unequal")
	}
	if OIDEqual(OIDExtPolicyConstraints, OIDExtPolicyMappings) {
		t.Error("distinct OIDs reported equal")
	}
	if OIDEqual(nil, OIDExtPolicyMappings) {
		t.Error("nil OID reported equal")
	}
}
