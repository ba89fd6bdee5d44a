package notify

import "testing"

func TestIDStableForSameName(t *testing.T) {
	if ID("photo.jpg") != ID("photo.jpg") {
		t.Error("same name must map to the same identifier")
	}
	if ID("photo.jpg") == ID("other.jpg") {
		t.Error("different names should normally map to different identifiers")
	}
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.txt", "text/plain; charset=utf-8"},
		{"mystery.zzz", "*/*"},
		{"noext", "*/*"},
	}
	for _, tt := range tests {
		if got := MimeType(tt.path); got != tt.want {
			t.Errorf("MimeType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
