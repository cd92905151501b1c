package orchestrator

// ProgressStatus marks whether an engine slot just started or finished.
type ProgressStatus string

const (
	// StatusRunning is emitted when an engine starts.
	StatusRunning ProgressStatus = "running"
	// StatusDone is emitted when an engine settles, success or failure.
	StatusDone ProgressStatus = "done"
)

// ProgressEvent is one ordered progress notification. TotalSteps includes
// one slot per enabled engine plus the report summarization stage.
type ProgressEvent struct {
	Step       int            `json:"step"`
	TotalSteps int            `json:"totalSteps"`
	EngineName string         `json:"engineName"`
	Status     ProgressStatus `json:"status"`
}

// Notifier receives progress notifications during an analysis. Terminal
// complete/error events are emitted by the analyzer that owns the whole
// pipeline, through the same interface.
type Notifier interface {
	// Progress reports one engine or post-processing step.
	Progress(event ProgressEvent)
	// Complete reports the finished analysis. The report is delivered
	// as produced; callers relay it verbatim.
	Complete(report any)
	// Error reports a pipeline-level failure (cancellation/timeout).
	Error(message string)
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// Progress implements Notifier.
func (NoopNotifier) Progress(ProgressEvent) {}

// Complete implements Notifier.
func (NoopNotifier) Complete(any) {}

// Error implements Notifier.
func (NoopNotifier) Error(string) {}

// EventType tags one streamed analysis event.
type EventType string

const (
	// EventProgress is an engine progress notification.
	EventProgress EventType = "progress"
	// EventComplete carries the finished report.
	EventComplete EventType = "complete"
	// EventError carries a pipeline failure message.
	EventError EventType = "error"
)

// Event is the envelope relayed over a push-style transport (SSE).
type Event struct {
	Type     EventType      `json:"type"`
	Progress *ProgressEvent `json:"progress,omitempty"`
	Report   any            `json:"report,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// ChannelNotifier forwards notifications to a channel, for relaying to a
// streaming transport. The channel is closed after a terminal event.
type ChannelNotifier struct {
	ch chan Event
}

// NewChannelNotifier creates a notifier buffered to size.
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Event, size)}
}

// Events returns the receive side of the notifier.
func (n *ChannelNotifier) Events() <-chan Event {
	return n.ch
}

// Progress implements Notifier.
func (n *ChannelNotifier) Progress(event ProgressEvent) {
	n.ch <- Event{Type: EventProgress, Progress: &event}
}

// Complete implements Notifier and closes the event channel.
func (n *ChannelNotifier) Complete(report any) {
	n.ch <- Event{Type: EventComplete, Report: report}
	close(n.ch)
}

// Error implements Notifier and closes the event channel.
func (n *ChannelNotifier) Error(message string) {
	n.ch <- Event{Type: EventError, Message: message}
	close(n.ch)
}
