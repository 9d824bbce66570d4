package entity

import "time"

// CollectionState is a state of the collection controller.
type CollectionState int

const (
	StateFetching CollectionState = iota
	StateFillingSynthetic
	StateDone
	StateInterrupted
)

func (s CollectionState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateFillingSynthetic:
		return "filling_synthetic"
	case StateDone:
		return "done"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// CollectionStatus is a point-in-time view of a collection run.
type CollectionStatus struct {
	RunID          string
	State          CollectionState
	Target         int
	Collected      int
	Real           int
	Synthetic      int
	Page           int
	Failures       int
	Checkpoints    int
	LastCheckpoint *time.Time
	UpdatedAt      time.Time
}
