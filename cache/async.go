package cache

// Result is the awaitable handle returned by the async write operations.
// The local-tier mutation has already happened by the time a Result is
// returned; the handle resolves once the remote write and the invalidation
// announce have finished (or been swallowed by the error policy).
type Result struct {
	done chan struct{}
	err  error
}

func newResult() *Result {
	return &Result{done: make(chan struct{})}
}

// resolve completes the handle. Must be called exactly once.
func (r *Result) resolve(err error) {
	r.err = err
	close(r.done)
}

func resolvedResult(err error) *Result {
	r := newResult()
	r.resolve(err)
	return r
}

// Wait blocks until the operation completed and returns its error.
func (r *Result) Wait() error {
	<-r.done
	return r.err
}

// Done returns a channel closed when the operation completed.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Lookup is the awaitable handle returned by GetAsync.
type Lookup[V any] struct {
	done  chan struct{}
	value V
	found bool
	err   error
}

func newLookup[V any]() *Lookup[V] {
	return &Lookup[V]{done: make(chan struct{})}
}

func (l *Lookup[V]) resolve(value V, found bool, err error) {
	l.value = value
	l.found = found
	l.err = err
	close(l.done)
}

// Wait blocks until the lookup completed and returns its outcome.
func (l *Lookup[V]) Wait() (V, bool, error) {
	<-l.done
	return l.value, l.found, l.err
}

// Done returns a channel closed when the lookup completed.
func (l *Lookup[V]) Done() <-chan struct{} {
	return l.done
}
