package domain

import "time"

// PressEvent is one raw button pulse. It is consumed by the aggregator
// immediately and never stored.
type PressEvent struct {
	At time.Time
}

// ClickResolution is the immutable result of one finalized press window:
// the number of presses that fell within the debounce chain.
type ClickResolution struct {
	Count int
}
