package anywork

import "sync/atomic"

// CancelToken is a cooperative stop request. Workers check it at their own
// checkpoints; nothing is interrupted.
type CancelToken struct {
	flag atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (it *CancelToken) Cancel() {
	it.flag.Store(true)
}

// IsCanceled is safe on a nil token, which is never canceled.
func (it *CancelToken) IsCanceled() bool {
	return it != nil && it.flag.Load()
}

// Counter is a shared, monotonically growing byte count.
type Counter struct {
	value atomic.Int64
}

func (it *Counter) Add(delta int) int64 {
	if it == nil {
		return 0
	}
	if delta < 0 {
		return it.value.Load()
	}
	return it.value.Add(int64(delta))
}

func (it *Counter) Load() int64 {
	if it == nil {
		return 0
	}
	return it.value.Load()
}

// Reset is only for restarting a whole operation.
func (it *Counter) Reset() {
	if it != nil {
		it.value.Store(0)
	}
}
