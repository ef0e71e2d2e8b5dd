package common

// Notification levels
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

// Notification is a fire-and-forget user-facing message
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Notifier consumes notifications; implementations must not block
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier routes notifications to the application logger
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	switch n.Level {
	case NotifyError:
		Logger().Errorw(n.Message, "notification", n.Level)
	default:
		Logger().Infow(n.Message, "notification", n.Level)
	}
}
