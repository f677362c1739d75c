package boundary

import (
	"reflect"
	"sync"
	"time"

	"github.com/canopy-network/cardano/lib"
)

// Handle refers to a value owned by an Arena; 0 is never issued
type Handle uint64

// Arena owns the values handed across the foreign call boundary
// Callers only ever see handles and byte buffers
type Arena struct {
	mux     sync.Mutex
	next    Handle
	objects map[Handle]any
	log     lib.LoggerI
}

// NewArena() creates an empty arena
func NewArena(log lib.LoggerI) *Arena {
	if log == nil {
		log = lib.NewNullLogger()
	}
	return &Arena{objects: make(map[Handle]any), log: log}
}

// Put() stores a value and returns its handle
func (a *Arena) Put(v any) Handle {
	a.mux.Lock()
	defer a.mux.Unlock()
	a.next++
	a.objects[a.next] = v
	return a.next
}

// Free() releases a handle
func (a *Arena) Free(h Handle) lib.ErrorI {
	a.mux.Lock()
	defer a.mux.Unlock()
	if _, ok := a.objects[h]; !ok {
		return lib.ErrInvalidHandle(uint64(h))
	}
	delete(a.objects, h)
	return nil
}

// Len() is the number of live handles
func (a *Arena) Len() int {
	a.mux.Lock()
	defer a.mux.Unlock()
	return len(a.objects)
}

// Get() borrows the value behind a handle
func Get[T any](a *Arena, h Handle) (T, lib.ErrorI) {
	a.mux.Lock()
	defer a.mux.Unlock()
	return lookup[T](a, h)
}

// Take() transfers ownership of the value out of the arena, invalidating the handle
func Take[T any](a *Arena, h Handle) (T, lib.ErrorI) {
	a.mux.Lock()
	defer a.mux.Unlock()
	v, err := lookup[T](a, h)
	if err != nil {
		return v, err
	}
	delete(a.objects, h)
	return v, nil
}

// lookup() must be called under lock
func lookup[T any](a *Arena, h Handle) (T, lib.ErrorI) {
	var zero T
	obj, ok := a.objects[h]
	if !ok {
		return zero, lib.ErrInvalidHandle(uint64(h))
	}
	v, ok := obj.(T)
	if !ok {
		return zero, lib.ErrWrongHandleType(uint64(h), reflect.TypeFor[T]().String())
	}
	return v, nil
}

// guard() runs an entry point, converting any panic into a CodePanic error
func guard[T any](log lib.LoggerI, fn func() (T, lib.ErrorI)) (out T, err lib.ErrorI) {
	defer lib.CatchPanic(log, &err)
	return fn()
}

// call() runs an entry point under guard and records it
func call[T any](p *API, op string, fn func() (T, lib.ErrorI)) (T, lib.ErrorI) {
	start := time.Now()
	out, err := guard(p.log, fn)
	p.metrics.UpdateBoundaryCall(op, err, time.Since(start), p.arena.Len())
	return out, err
}
