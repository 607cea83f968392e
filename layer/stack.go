// Package layer runs a stack of terminal views. Only the top layer gets
// input; transparent layers are painted as centered overlays on top of the
// layers below them.
package layer

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Idle is delivered to top layer when no input arrived during a tick.
type Idle struct{}

type Layer interface {
	View(width, height int) string
	Update(stack *Stack, msg tea.Msg) error
	Done() bool
}

// Transparent layers are painted over whatever is below them.
type Transparent interface {
	Transparent() bool
}

// Setup runs once before first paint. It may push further layers, and the
// owning layer stays hidden until those have been popped.
type Setup interface {
	Setup(stack *Stack) error
}

type Closer interface {
	Close()
}

type entry struct {
	layer Layer
	then  func(Layer)
	ready bool
	held  bool
	// held until stack shrinks back to this many entries
	holdUntil int
}

type Stack struct {
	entries []*entry
	width   int
	height  int

	mu     sync.Mutex
	posted []func(*Stack)
}

func NewStack(root Layer) *Stack {
	stack := &Stack{width: 80, height: 24}
	if root != nil {
		stack.Push(root, nil)
	}
	return stack
}

// Push puts layer on top. When it is popped, then receives it, so caller
// can read its result.
func (it *Stack) Push(layer Layer, then func(Layer)) {
	it.entries = append(it.entries, &entry{layer: layer, then: then})
}

// Post schedules fn to run on the UI loop before next dispatch. Safe from
// any goroutine.
func (it *Stack) Post(fn func(*Stack)) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.posted = append(it.posted, fn)
}

func (it *Stack) drain() {
	it.mu.Lock()
	todo := it.posted
	it.posted = nil
	it.mu.Unlock()
	for _, fn := range todo {
		fn(it)
	}
}

func (it *Stack) Len() int {
	return len(it.entries)
}

func (it *Stack) Empty() bool {
	return len(it.entries) == 0
}

func (it *Stack) Top() Layer {
	if top := it.top(); top != nil {
		return top.layer
	}
	return nil
}

func (it *Stack) top() *entry {
	if len(it.entries) == 0 {
		return nil
	}
	return it.entries[len(it.entries)-1]
}

func (it *Stack) Resize(width, height int) {
	if width > 0 && height > 0 {
		it.width, it.height = width, height
	}
}

func (it *Stack) Size() (int, int) {
	return it.width, it.height
}

// Prepare runs pending setup hooks, so first frame is never half made.
func (it *Stack) Prepare() error {
	it.drain()
	return it.settle()
}

// Dispatch runs one tick: posted work, pending setups, then msg to top
// layer, then pops finished layers. Returned error is fatal.
func (it *Stack) Dispatch(msg tea.Msg) error {
	it.drain()
	if err := it.settle(); err != nil {
		return err
	}
	top := it.top()
	if top == nil {
		return nil
	}
	if err := top.layer.Update(it, msg); err != nil {
		return fmt.Errorf("%T failed: %w", top.layer, err)
	}
	return it.settle()
}

// settle pops finished layers and runs pending setups, bottom first, until
// stable.
func (it *Stack) settle() error {
	for {
		it.unwind()
		pending := it.pending()
		if pending == nil {
			return nil
		}
		pending.ready = true
		before := len(it.entries)
		if setup, ok := pending.layer.(Setup); ok {
			if err := setup.Setup(it); err != nil {
				return fmt.Errorf("setup of %T failed: %w", pending.layer, err)
			}
		}
		if len(it.entries) > before {
			pending.held = true
			pending.holdUntil = before
		}
	}
}

func (it *Stack) pending() *entry {
	for _, each := range it.entries {
		if !each.ready {
			return each
		}
	}
	return nil
}

func (it *Stack) unwind() {
	for top := it.top(); top != nil && top.layer.Done(); top = it.top() {
		it.entries = it.entries[:len(it.entries)-1]
		if closer, ok := top.layer.(Closer); ok {
			closer.Close()
		}
		if top.then != nil {
			top.then(top.layer)
		}
		it.release()
	}
}

// release shows layers again once everything their setup pushed is gone.
func (it *Stack) release() {
	for _, each := range it.entries {
		if each.held && len(it.entries) <= each.holdUntil {
			each.held = false
		}
	}
}

// CloseAll drops every layer without running continuations.
func (it *Stack) CloseAll() {
	for len(it.entries) > 0 {
		top := it.top()
		it.entries = it.entries[:len(it.entries)-1]
		if closer, ok := top.layer.(Closer); ok {
			closer.Close()
		}
	}
}

func transparent(layer Layer) bool {
	see, ok := layer.(Transparent)
	return ok && see.Transparent()
}

// Visible returns layers to paint, bottom first: top layer and every
// transparent layer below it down to first opaque one.
func (it *Stack) Visible() []Layer {
	start := len(it.entries) - 1
	for start > 0 && transparent(it.entries[start].layer) {
		start--
	}
	result := []Layer{}
	for index := start; index >= 0 && index < len(it.entries); index++ {
		current := it.entries[index]
		if !current.ready || current.held {
			continue
		}
		result = append(result, current.layer)
	}
	return result
}

func (it *Stack) View() string {
	width, height := it.Size()
	frame := blank(width, height)
	for _, layer := range it.Visible() {
		if transparent(layer) {
			frame = Overlay(frame, layer.View(width, height), width, height)
		} else {
			frame = layer.View(width, height)
		}
	}
	return frame
}

func blank(width, height int) string {
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for index := range lines {
		lines[index] = line
	}
	return strings.Join(lines, "\n")
}
