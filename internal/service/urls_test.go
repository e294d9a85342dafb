package service

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://Example.COM/Path/", "https://example.com/Path"},
		{"HTTP://example.com:80/a", "http://example.com/a"},
		{"https://example.com:443/a#frag", "https://example.com/a"},
		{"https://example.com:8443/a", "https://example.com:8443/a"},
		{"https://example.com/?q=1", "https://example.com?q=1"},
		{"  https://example.com/a  ", "https://example.com/a"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestURLKey(t *testing.T) {
	a := URLKey("https://Example.com/story/")
	b := URLKey("https://example.com:443/story#top")
	c := URLKey("https://example.com/other")

	if a != b {
		t.Error("equivalent URLs must share a key")
	}
	if a == c {
		t.Error("different URLs must not share a key")
	}
	if len(a) != 40 {
		t.Errorf("key length = %d, want 40 hex chars", len(a))
	}
}

func TestSourceOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.bbc.co.uk/news/technology", "bbc.co.uk"},
		{"https://news.example.com/a", "example.com"},
		{"https://example.com", "example.com"},
		{"http://127.0.0.1:8080/x", "127.0.0.1"},
		{"http://localhost/x", "localhost"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SourceOf(tt.in); got != tt.want {
			t.Errorf("SourceOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
