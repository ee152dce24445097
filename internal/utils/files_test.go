package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dir", "out.json")
	if err := SafeWriteFile(p, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != `{"ok":true}` {
		t.Fatalf("read back: %q %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("got %q", b)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cases := []struct {
		in, want string
	}{
		{"~/x/bookmarks.json", filepath.Join(home, "x", "bookmarks.json")},
		{"~", home},
		{"/abs/path", "/abs/path"},
		{"rel/~/path", "rel/~/path"},
	}
	for _, tc := range cases {
		got, err := ExpandHome(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ExpandHome(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
