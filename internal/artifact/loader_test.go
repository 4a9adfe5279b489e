package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deadclick/internal/types"
)

func writeArtifacts(t *testing.T, dir string) Paths {
	t.Helper()
	paths := Paths{
		Expectations: filepath.Join(dir, "expectations.json"),
		Observations: filepath.Join(dir, "observations.json"),
		RunInputs:    filepath.Join(dir, "run_inputs.json"),
	}
	write(t, paths.Expectations, `[{"id":"e1","kind":"click_handler","value":"Save","source":{"file":"src/App.tsx","line":10,"column":4},"confidence_hint":"PROVEN"}]`)
	write(t, paths.Observations, `[{"id":"e1","type":"interaction","action":"click","attempted":true,"action_success":true,"signals":{},"channels":{"network":true,"console":true,"ui":true},"evidence":{}}]`)
	write(t, paths.RunInputs, `{"determinism_verdict":"DETERMINISTIC","evidence_package":{"is_complete":true}}`)
	return paths
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBundle(t *testing.T) {
	paths := writeArtifacts(t, t.TempDir())

	bundle, err := Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(bundle.Expectations) != 1 || bundle.Expectations[0].ID != "e1" {
		t.Errorf("expectations = %+v", bundle.Expectations)
	}
	if len(bundle.Observations) != 1 || !bundle.Observations[0].Attempted {
		t.Errorf("observations = %+v", bundle.Observations)
	}
	if bundle.RunInputs.DeterminismVerdict != types.Deterministic {
		t.Errorf("run inputs = %+v", bundle.RunInputs)
	}
}

func TestLoadMissingRunInputsFallsBack(t *testing.T) {
	paths := writeArtifacts(t, t.TempDir())
	if err := os.Remove(paths.RunInputs); err != nil {
		t.Fatal(err)
	}

	bundle, err := Load(context.Background(), paths)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bundle.RunInputs.DeterminismVerdict != types.Deterministic || !bundle.RunInputs.EvidencePackage.IsComplete {
		t.Errorf("fallback run inputs = %+v", bundle.RunInputs)
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	t.Run("missing observations", func(t *testing.T) {
		paths := writeArtifacts(t, t.TempDir())
		if err := os.Remove(paths.Observations); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(context.Background(), paths); err == nil {
			t.Error("missing observations accepted")
		}
	})

	t.Run("unknown verdict", func(t *testing.T) {
		paths := writeArtifacts(t, t.TempDir())
		write(t, paths.RunInputs, `{"determinism_verdict":"MAYBE"}`)
		if _, err := Load(context.Background(), paths); err == nil {
			t.Error("unknown verdict accepted")
		}
	})
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	paths := writeArtifacts(t, dir)

	w, err := NewWatcher(paths, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, out)
	}()

	// A burst of writes should collapse into one tick.
	for i := 0; i < 3; i++ {
		write(t, paths.Observations, `[]`)
	}

	select {
	case <-out:
	case <-ctx.Done():
		t.Fatal("no tick after artifact writes")
	}

	select {
	case <-out:
		t.Error("burst produced more than one tick")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	paths := writeArtifacts(t, dir)

	w, err := NewWatcher(paths, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan struct{}, 1)
	go w.Run(ctx, out)

	write(t, filepath.Join(dir, "notes.txt"), "unrelated")

	select {
	case <-out:
		t.Error("unrelated file produced a tick")
	case <-time.After(150 * time.Millisecond):
	}
}
