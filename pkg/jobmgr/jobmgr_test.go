package jobmgr

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"
)

func TestStartRejectsDuplicate(t *testing.T) {
	m := NewManager(context.Background(), zerolog.Nop())
	defer m.Shutdown()

	release := make(chan struct{})
	if err := m.Start("sync:1", func(ctx context.Context) error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Start("sync:1", func(context.Context) error { return nil }); !errors.Is(err, ErrRunning) {
		t.Errorf("second Start() error = %v, want ErrRunning", err)
	}
	if got := m.Running(); !slices.Equal(got, []string{"sync:1"}) {
		t.Errorf("Running() = %v", got)
	}
	if got := m.Status(); got != "Running jobs: sync:1" {
		t.Errorf("Status() = %q", got)
	}
	close(release)
}

func TestStopCancelsJob(t *testing.T) {
	m := NewManager(context.Background(), zerolog.Nop())
	defer m.Shutdown()

	done := make(chan error, 1)
	started := make(chan struct{})
	if err := m.Start("a", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}); err != nil {
		t.Fatal(err)
	}
	<-started
	if err := m.Stop("a"); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("job saw %v, want context.Canceled", err)
	}
	if err := m.Stop("a"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestShutdownWaits(t *testing.T) {
	m := NewManager(context.Background(), zerolog.Nop())

	finished := false
	if err := m.Start("a", func(ctx context.Context) error {
		<-ctx.Done()
		finished = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	m.Shutdown()
	if !finished {
		t.Error("Shutdown() returned before the job")
	}
	if err := m.Start("b", func(context.Context) error { return nil }); !errors.Is(err, ErrShutdown) {
		t.Errorf("Start() after Shutdown error = %v, want ErrShutdown", err)
	}
	if got := m.Status(); got != "No jobs are running." {
		t.Errorf("Status() = %q", got)
	}
}
