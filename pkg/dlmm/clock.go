package dlmm

// Clock is the caller-supplied notion of "now" a quote is evaluated
// against. The quoting core never reads wall-clock time directly — every
// activation check and reference update goes through this struct, so a
// quote over a fixed Clock is fully deterministic.
type Clock struct {
	Slot                uint64
	EpochStartTime      int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}
