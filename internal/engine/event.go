package engine

// Handle identifies a subscription and is the token used to unsubscribe.
type Handle int

// Event is a typed multi-listener callback registry. Listeners fire in
// subscription order, synchronously on the emitting goroutine. The core is
// frame-driven and single-threaded, so no locking is needed.
type Event[T any] struct {
	next      Handle
	order     []Handle
	listeners map[Handle]func(T)
}

// Subscribe registers a callback and returns its unsubscribe token.
func (e *Event[T]) Subscribe(fn func(T)) Handle {
	if fn == nil {
		return 0
	}
	if e.listeners == nil {
		e.listeners = make(map[Handle]func(T))
	}
	e.next++
	e.listeners[e.next] = fn
	e.order = append(e.order, e.next)
	return e.next
}

// Unsubscribe removes the callback registered under h. Unknown tokens are
// ignored.
func (e *Event[T]) Unsubscribe(h Handle) {
	if _, ok := e.listeners[h]; !ok {
		return
	}
	delete(e.listeners, h)
	for i, o := range e.order {
		if o == h {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Emit invokes all listeners in subscription order. Iteration runs over a
// snapshot of the order so a listener unsubscribing during the emit cannot
// shift later entries under the loop; a listener removed mid-emit that has
// not fired yet is skipped.
func (e *Event[T]) Emit(v T) {
	order := append([]Handle(nil), e.order...)
	for _, h := range order {
		if fn, ok := e.listeners[h]; ok {
			fn(v)
		}
	}
}

// Len returns the number of registered listeners.
func (e *Event[T]) Len() int {
	return len(e.listeners)
}
