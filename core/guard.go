package core

// RenderGuard suppresses model-to-view reconciliation while a view-to-model
// write from the same edit is in flight.
//
// It is a non-reentrant single-flag mutex scoped to one synchronous call
// stack. It is never held across an event-loop turn.
type RenderGuard struct {
	held bool
}

// Acquire takes the guard. The returned release function may be called more
// than once; only the first call has an effect.
func (g *RenderGuard) Acquire() (release func(), err error) {
	if g.held {
		return nil, ErrGuardHeld
	}
	g.held = true

	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.held = false
	}, nil
}

// Do runs fn while holding the guard.
func (g *RenderGuard) Do(fn func()) error {
	release, err := g.Acquire()
	if err != nil {
		return err
	}
	defer release()

	fn()
	return nil
}

func (g *RenderGuard) Held() bool { return g.held }
