package service

import (
	"sync"
	"time"
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
)

// NoticeTimeout is how long a notice stays visible.
const NoticeTimeout = 4 * time.Second

type Notice struct {
	Message string
	Kind    NoticeKind
	Visible bool
}

// Notifier holds the console's single status message. Each Notify starts its
// own hide timer and never cancels an earlier one, so an older timer can hide
// a newer notice before its full timeout.
type Notifier struct {
	mu        sync.Mutex
	current   Notice
	timeout   time.Duration
	afterFunc func(time.Duration, func())
}

func NewNotifier() *Notifier {
	return &Notifier{
		timeout: NoticeTimeout,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (n *Notifier) Notify(message string, kind NoticeKind) {
	n.mu.Lock()
	n.current = Notice{Message: message, Kind: kind, Visible: true}
	n.mu.Unlock()

	n.afterFunc(n.timeout, n.hide)
}

func (n *Notifier) hide() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current.Visible = false
}

func (n *Notifier) Current() Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
