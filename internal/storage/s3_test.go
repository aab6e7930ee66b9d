package storage

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	mime, data, err := decodeDataURI("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("unexpected mime %q", mime)
	}
	if string(data) != "fake-png-bytes" {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"https://example.com/cat.png",
		"data:image/png,not-base64-marked",
		"data:image/png;base64,%%%not-base64%%%",
	}
	for _, uri := range bad {
		if _, _, err := decodeDataURI(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestExtByMIMECoversAllowedTypes(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp"} {
		ext, ok := extByMIME[mime]
		if !ok || !strings.HasPrefix(ext, ".") {
			t.Errorf("missing or malformed extension for %s", mime)
		}
	}
	if _, ok := extByMIME["application/pdf"]; ok {
		t.Error("non-image type must not be allowed")
	}
}
