package storage

import "testing"

func TestOwnerFolder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9f0c2d1e-4a5b-4c6d-8e7f-001122334455", "9f0c2d1e4a5b"},
		{"anonymous", "anonymous"},
		{"short", "short"},
		{"with--many--dashes--here", "withmanydash"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := OwnerFolder(tt.in); got != tt.want {
			t.Errorf("OwnerFolder(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	got := ObjectKey("9f0c2d1e-4a5b-4c6d-8e7f-001122334455", "styles.css")
	want := "9f0c2d1e4a5b/styles.css"
	if got != want {
		t.Errorf("ObjectKey = %q, want %q", got, want)
	}
}

func TestObjectKeyStable(t *testing.T) {
	// Write-time and read-time callers must agree byte for byte.
	owner := "AB-cd-12-ef-34-gh-56"
	if ObjectKey(owner, "a.js") != ObjectKey(owner, "a.js") {
		t.Fatal("key derivation is not deterministic")
	}
}
