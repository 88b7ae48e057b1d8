package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "catalog,keys,links" {
		t.Fatalf("unexpected topics: %s", got)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" KEYS ")
	if !ok || !strings.Contains(body, "# Keys") {
		t.Fatalf("expected keys topic, got ok=%v", ok)
	}
	for _, bad := range []string{"", "missing", "../docs", "keys.md"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
