package rosterfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

const seed = `
teams:
  - team: core
    members:
      - name: Alice
        time_limit_seconds: 60
      - name: " Bob "
  - team: infra
    members:
      - name: Cara
`

func TestDecode(t *testing.T) {
	rosters, err := Decode(strings.NewReader(seed))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(rosters) != 2 {
		t.Fatalf("rosters = %d, want 2", len(rosters))
	}
	core := rosters[0]
	if core.TeamID != "core" || len(core.Members) != 2 {
		t.Fatalf("core = %+v", core)
	}
	if core.Members[0].TimeLimitSeconds != 60 || core.Members[1].Name != "Bob" || core.Members[1].TimeLimitSeconds != 0 {
		t.Fatalf("members = %+v", core.Members)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing team", "teams:\n  - members: []\n"},
		{"duplicate team", "teams:\n  - team: a\n  - team: a\n"},
		{"bad yaml", "teams: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.in)); err == nil {
				t.Fatalf("Decode() error = nil")
			}
		})
	}

	rosters, err := Decode(strings.NewReader(""))
	if err != nil || len(rosters) != 0 {
		t.Fatalf("empty file = %v, %v", rosters, err)
	}
}

type recordingImporter struct {
	mu    sync.Mutex
	calls [][]entities.Roster
}

func (r *recordingImporter) Import(_ context.Context, rosters []entities.Roster) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, rosters)
	return len(rosters), nil
}

func (r *recordingImporter) last() []entities.Roster {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosters.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	imp := &recordingImporter{}
	w, err := NewWatcher(path, imp, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()
	w.settle = time.Millisecond

	if n, err := w.Sync(context.Background()); err != nil || n != 2 {
		t.Fatalf("Sync() = %d, %v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	updated := "teams:\n  - team: core\n    members:\n      - name: Dan\n"
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
		if got := imp.last(); len(got) == 1 && got[0].Members[0].Name == "Dan" {
			return
		}
	}
	t.Fatalf("watcher never reloaded the file")
}
