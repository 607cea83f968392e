package anywork

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

var ErrJoined = errors.New("task handle already joined")

// PanicError is what Join reports when the work function panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (it *PanicError) Error() string {
	return fmt.Sprintf("background task panicked: %v", it.Value)
}

type outcome[T any] struct {
	value T
	err   error
}

// Handle represents one spawned unit of work.
type Handle[T any] struct {
	done   chan struct{}
	result outcome[T]
	once   sync.Mutex
	joined bool
}

// Spawn runs work on its own goroutine. Panics inside work are recovered and
// reported from Join as *PanicError.
func Spawn[T any](work func() (T, error)) *Handle[T] {
	handle := &Handle[T]{done: make(chan struct{})}
	go handle.run(work)
	return handle
}

func (it *Handle[T]) run(work func() (T, error)) {
	defer close(it.done)
	defer func() {
		if catch := recover(); catch != nil {
			it.result = outcome[T]{err: &PanicError{Value: catch, Stack: debug.Stack()}}
		}
	}()
	value, err := work()
	it.result = outcome[T]{value: value, err: err}
}

// IsFinished never blocks.
func (it *Handle[T]) IsFinished() bool {
	select {
	case <-it.done:
		return true
	default:
		return false
	}
}

// Join waits for the work and returns its outcome. Only first call gets it.
func (it *Handle[T]) Join() (T, error) {
	it.once.Lock()
	defer it.once.Unlock()
	var zero T
	if it.joined {
		return zero, ErrJoined
	}
	<-it.done
	it.joined = true
	return it.result.value, it.result.err
}
