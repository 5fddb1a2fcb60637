package notify

import "context"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// ToastKey is the UI outlet notifications are rendered in.
const ToastKey = "toast"

type Notification struct {
	Key      string   `json:"key"`
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
}

// Confirmation is a confirm-before-action prompt. OnAccept runs only when
// the user accepts; OnReject may be nil.
type Confirmation struct {
	Header   string
	Message  string
	Icon     string
	OnAccept func(ctx context.Context)
	OnReject func(ctx context.Context)
}

// Sink shows messages and prompts to the dashboard user.
type Sink interface {
	Notify(ctx context.Context, n Notification)
	// Confirm registers the prompt and returns its id.
	Confirm(ctx context.Context, c Confirmation) string
}
