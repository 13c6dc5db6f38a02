package ledger_test

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/mushkin/luadoc/internal/ledger"
)

func TestLoadReturnsEmptyLedgerWhenPageMissing(t *testing.T) {
	t.Parallel()

	l, err := ledger.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(l.Versions) != 0 {
		t.Errorf("Versions = %v, want empty", l.Versions)
	}
}

func TestParseReadsRenderedPage(t *testing.T) {
	t.Parallel()

	page := `# API Versions

**Latest:** [[v0.2.0|Lua-API-0.2.0]]

## All Versions

- [[v0.2.0|Lua-API-0.2.0]]
- [[v0.1.0|Lua-API-0.1.0]]
- [[Home]]`

	l := ledger.Parse([]byte(page))
	want := []string{"0.2.0", "0.1.0"}
	if !reflect.DeepEqual(l.Versions, want) {
		t.Errorf("Versions = %v, want %v", l.Versions, want)
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	l := &ledger.Ledger{Versions: []string{"0.1.0"}}

	if !l.Add("0.2.0") {
		t.Error("Add(new) = false")
	}
	if l.Add("0.1.0") {
		t.Error("Add(existing) = true")
	}
	if l.Latest != "0.1.0" {
		t.Errorf("Latest = %q, want the most recently added version", l.Latest)
	}
	if len(l.Versions) != 2 {
		t.Errorf("Versions = %v", l.Versions)
	}
}

func TestSortedUsesSemanticOrder(t *testing.T) {
	t.Parallel()

	l := &ledger.Ledger{Versions: []string{"0.9.0", "0.10.0", "1.0", "0.9.10", "weird"}}

	want := []string{"1.0", "0.10.0", "0.9.10", "0.9.0", "weird"}
	if got := l.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	l, err := ledger.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	l.Add("0.1.0")
	if err := l.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := ledger.Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	again.Add("0.2.0")
	if err := again.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	content, err := os.ReadFile(ledger.Path(dir))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}

	page := string(content)
	if !strings.Contains(page, "**Latest:** [[v0.2.0|Lua-API-0.2.0]]") {
		t.Errorf("page missing latest marker:\n%s", page)
	}
	if !strings.Contains(page, "- [[v0.2.0|Lua-API-0.2.0]]\n- [[v0.1.0|Lua-API-0.1.0]]") {
		t.Errorf("page not ordered newest first:\n%s", page)
	}

	final := ledger.Parse(content)
	if !reflect.DeepEqual(final.Versions, []string{"0.2.0", "0.1.0"}) {
		t.Errorf("re-parsed versions = %v", final.Versions)
	}
}

func TestSaveNilLedger(t *testing.T) {
	t.Parallel()

	var l *ledger.Ledger
	if err := l.Save(t.TempDir()); err == nil {
		t.Error("expected error for nil ledger")
	}
}
