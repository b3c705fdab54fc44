package tui

import (
	"sync"
	"testing"

	"github.com/agbru/sievebench/internal/harness"
)

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	ref := &programRef{} // nil program - Send is a no-op
	reporter := &TUIProgressReporter{ref: ref}

	ch := make(chan harness.ProgressUpdate, 4)
	ch <- harness.ProgressUpdate{Index: 0, Total: 2, UpperBound: 10}
	ch <- harness.ProgressUpdate{Index: 0, Total: 2, UpperBound: 10, Done: true}
	ch <- harness.ProgressUpdate{Index: 1, Total: 2, UpperBound: 50}
	ch <- harness.ProgressUpdate{Index: 1, Total: 2, UpperBound: 50, Done: true}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 2, nil)
	wg.Wait()

	if _, ok := <-ch; ok {
		t.Error("channel should be fully drained")
	}
}

func TestProgramRef_SendWithoutProgram(t *testing.T) {
	ref := &programRef{}
	// Must not panic or block.
	ref.Send(ProgressDoneMsg{})
}
