package bridge

// Settlement outcomes reported to Stats.
const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
)

// Stats receives counters at bridge hot points. Implementations must be safe
// for concurrent use. The zero configuration uses a no-op collector.
type Stats interface {
	RequestSent(channel string)
	NotifySent(channel string)
	RequestSettled(channel, outcome string)
	EventDelivered(channel string, subscribers int)
	FrameDropped()
}

type nopStats struct{}

func (nopStats) RequestSent(string) {}
func (nopStats) NotifySent(string) {}
func (nopStats) RequestSettled(string, string) {}
func (nopStats) EventDelivered(string, int) {}
func (nopStats) FrameDropped() {}
