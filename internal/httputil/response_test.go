package httputil

import (
	"errors"
	"strings"
	"testing"
)

func TestWithQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		key   string
		value string
		want  string
	}{
		{"no query", "http://h:8000/api/node/abc/todo/label/7", "u", "bob", "http://h:8000/api/node/abc/todo/label/7?u=bob"},
		{"existing query", "http://h/api?x=1", "app", "marktips", "http://h/api?app=marktips&x=1"},
		{"already set", "http://h/api?u=alice", "u", "bob", "http://h/api?u=alice"},
		{"escaping", "http://h/api", "u", "a b", "http://h/api?u=a+b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithQuery(tt.url, tt.key, tt.value)
			if err != nil {
				t.Fatalf("WithQuery failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithQuery_BadURL(t *testing.T) {
	t.Parallel()
	if _, err := WithQuery("http://h/%zz", "u", "x"); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestEnsureScheme(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"emdata:8900":         "http://emdata:8900",
		"http://emdata:8900/": "http://emdata:8900",
		"https://dvid.org":    "https://dvid.org",
		"  localhost:8000 ":   "http://localhost:8000",
		"":                    "",
	}
	for in, want := range cases {
		if got := EnsureScheme(in); got != want {
			t.Errorf("EnsureScheme(%q) = %q, want %q", in, got, want)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadErrorBody(t *testing.T) {
	t.Parallel()

	if got := ReadErrorBody(strings.NewReader("bad instance")); got != "bad instance" {
		t.Errorf("got %q", got)
	}

	long := strings.Repeat("x", maxErrorBody+100)
	if got := ReadErrorBody(strings.NewReader(long)); len(got) != maxErrorBody {
		t.Errorf("got %d bytes, want %d", len(got), maxErrorBody)
	}

	if got := ReadErrorBody(failingReader{}); !strings.Contains(got, "boom") {
		t.Errorf("got %q, want unreadable marker", got)
	}
}
