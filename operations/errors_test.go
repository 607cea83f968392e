package operations_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/cloud"
	"github.com/joshyorko/sstui/operations"
	"github.com/joshyorko/sstui/subscription"
)

func TestDescribeIsShortAndHuman(t *testing.T) {
	cases := []struct {
		err      error
		contains string
	}{
		{nil, "OK"},
		{fmt.Errorf("wrapped: %w", operations.ErrCancelled), "Cancelled"},
		{fmt.Errorf("%w: got 1 of 2 bytes", operations.ErrTruncated), "ended before"},
		{operations.ErrUnsupportedFormat, ".zip and .tar.xz"},
		{subscription.ErrUnknownContent, "neither JSON"},
		{&cloud.StatusError{Url: "x", Status: 403}, "403"},
		{&anywork.PanicError{Value: "boom"}, "boom"},
		{errors.New(strings.Repeat("long ", 50)), "..."},
		{errors.New("first line\nsecond line"), "first line"},
	}
	for _, each := range cases {
		got := operations.Describe(each.err)
		if !strings.Contains(got, each.contains) {
			t.Errorf("%v: expected %q in %q", each.err, each.contains, got)
		}
		if strings.Contains(got, "\n") || len(got) > 120 {
			t.Errorf("%v: description too long %q", each.err, got)
		}
	}
}
