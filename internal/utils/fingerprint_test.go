package utils

import "testing"

func TestFingerprint(t *testing.T) {
	a := Fingerprint("Ada@Example.com ")
	b := Fingerprint("ada@example.com")
	if a == "" || a != b {
		t.Fatalf("fingerprints differ for equivalent emails: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("fingerprint length = %d, want 12", len(a))
	}
	if Fingerprint("bob@example.com") == a {
		t.Fatalf("distinct emails share a fingerprint")
	}
	if Fingerprint("  ") != "" {
		t.Fatalf("blank email should have empty fingerprint")
	}
}
