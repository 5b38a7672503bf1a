package stats

import "errors"

// ErrUnknownWindow marks a lookback period outside the defined set.
var ErrUnknownWindow = errors.New("unknown window")
