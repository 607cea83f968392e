package interactive

import (
	"time"
)

// ToastType defines the type of toast notification
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastSuccess
	ToastWarning
	ToastError
)

const toastDuration = 4 * time.Second

// Toast is a short notice shown in the footer until it expires
type Toast struct {
	Type      ToastType
	Message   string
	StartTime time.Time
	Duration  time.Duration
}

func NewToast(kind ToastType, message string) *Toast {
	return &Toast{
		Type:      kind,
		Message:   message,
		StartTime: time.Now(),
		Duration:  toastDuration,
	}
}

// Active is false for nil or expired toasts
func (t *Toast) Active(now time.Time) bool {
	return t != nil && now.Sub(t.StartTime) < t.Duration
}

func (t *Toast) Render(vs ViewStyles) string {
	switch t.Type {
	case ToastSuccess:
		return vs.ToastSuccess.Render("✓ " + t.Message)
	case ToastWarning:
		return vs.ToastWarning.Render("! " + t.Message)
	case ToastError:
		return vs.ToastError.Render("✗ " + t.Message)
	default:
		return vs.ToastInfo.Render("• " + t.Message)
	}
}
