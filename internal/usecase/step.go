package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Step is the handle of one NextTurn call. It resolves exactly once.
type Step struct {
	done     chan struct{}
	snapshot entity.Snapshot
	err      error
}

func newStep() *Step {
	return &Step{done: make(chan struct{})}
}

func (that *Step) resolve(snapshot entity.Snapshot, err error) {
	that.snapshot = snapshot
	that.err = err
	close(that.done)
}

// Done - closed once the result handler has run, or the step failed.
func (that *Step) Done() <-chan struct{} {
	return that.done
}

// Wait - blocks until the step resolves or ctx is done. Giving up on the wait does not
// cancel the step.
func (that *Step) Wait(ctx context.Context) (entity.Snapshot, error) {
	select {
	case <-that.done:
		return that.snapshot, that.err
	case <-ctx.Done():
		return entity.Snapshot{}, fmt.Errorf("waiting for step: %w", ctx.Err())
	}
}
