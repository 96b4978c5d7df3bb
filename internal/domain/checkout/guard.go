package checkout

import "sync"

// SubmitGuard is an in-process "is submitting" flag per checkout. A second submit while the
// flag is held is rejected, never queued. It is advisory only: it does not coordinate
// separate processes and it cannot cancel a request already sent to the backend.
type SubmitGuard struct {
	inflight sync.Map
}

// TryAcquire raises the flag for key and reports whether this caller raised it.
func (g *SubmitGuard) TryAcquire(key string) bool {
	_, loaded := g.inflight.LoadOrStore(key, struct{}{})
	return !loaded
}

func (g *SubmitGuard) Release(key string) {
	g.inflight.Delete(key)
}

// Held reports whether a submission for key is in flight.
func (g *SubmitGuard) Held(key string) bool {
	_, ok := g.inflight.Load(key)
	return ok
}
