// Package fail provides panic based early exits for long multi step
// functions. A function opts in with `defer fail.Around(&err)` and then
// bails out with fail.On or fail.Fast; anything else that panics is left
// alone and keeps propagating.
package fail

import "fmt"

type delegated struct {
	err error
}

func (it delegated) Error() string {
	return it.err.Error()
}

func (it delegated) Unwrap() error {
	return it.err
}

// Around converts a delegated failure back into a plain error return.
func Around(err *error) {
	original := recover()
	if original == nil {
		return
	}
	failure, ok := original.(delegated)
	if !ok {
		panic(original)
	}
	*err = failure.err
}

// On fails when condition holds, with a formatted message. Use %w in form
// to keep the cause available to errors.Is.
func On(condition bool, form string, details ...interface{}) {
	if condition {
		panic(delegated{fmt.Errorf(form, details...)})
	}
}

// Fast fails with err as is, when it is not nil.
func Fast(err error) {
	if err != nil {
		panic(delegated{err})
	}
}
