package anywork

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/joshyorko/sstui/common"
)

var (
	group     sync.WaitGroup
	pipeline  WorkQueue
	failpipe  Failures
	errcount  Counters
	headcount uint64
)

type Work func()
type WorkQueue chan Work
type Failures chan string
type Counters chan uint64

func catcher(title string, identity uint64) {
	catch := recover()
	if catch != nil {
		failpipe <- fmt.Sprintf("Recovering %q #%d: %v", title, identity, catch)
	}
}

func process(fun Work, identity uint64) {
	defer group.Done()
	defer catcher("process", identity)
	fun()
}

func member(identity uint64) {
	defer catcher("member", identity)
	for work := range pipeline {
		process(work, identity)
	}
}

func watcher(failures Failures, counters Counters) {
	counter := uint64(0)
	for {
		select {
		case fail := <-failures:
			counter += 1
			common.Error("worker", fmt.Errorf("%s", fail))
		case counters <- counter:
			counter = 0
		}
	}
}

func init() {
	pipeline = make(WorkQueue, 64)
	failpipe = make(Failures)
	errcount = make(Counters)
	AutoScale()
	go watcher(failpipe, errcount)
}

func Scale() uint64 {
	return headcount
}

// AutoScale keeps a small pool; backlog work is network bound.
func AutoScale() {
	limit := uint64(runtime.NumCPU())
	if limit < 2 {
		limit = 2
	}
	if limit > 8 {
		limit = 8
	}
	for headcount < limit {
		go member(headcount)
		headcount += 1
	}
}

func Backlog(todo Work) {
	if todo != nil {
		group.Add(1)
		pipeline <- todo
	}
}

// Sync waits for all backlogged work and reports recovered panics as one error.
func Sync() error {
	group.Wait()
	count := <-errcount
	if count > 0 {
		return fmt.Errorf("There has been %d failures. See messages above.", count)
	}
	return nil
}
