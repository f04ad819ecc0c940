package websocketPkg

import "testing"

func TestTranscriptURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:3000", "ws://localhost:3000/api/v1/assistant/sessions/abc/ws"},
		{"https://ella.example.com/", "wss://ella.example.com/api/v1/assistant/sessions/abc/ws"},
		{"ws://127.0.0.1:9000", "ws://127.0.0.1:9000/api/v1/assistant/sessions/abc/ws"},
	}

	for _, tt := range tests {
		got, err := TranscriptURL(tt.base, "abc")
		if err != nil {
			t.Fatalf("TranscriptURL(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("TranscriptURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}

	if _, err := TranscriptURL("ftp://host", "abc"); err == nil {
		t.Fatal("expected an error for an unsupported scheme")
	}
}
