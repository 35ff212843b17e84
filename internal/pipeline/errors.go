package pipeline

import "errors"

// ErrRunInProgress is returned when a run is requested while another run is
// still ingesting into the shared candidate store. The store is reset at the
// start of every round, so two concurrent runs would corrupt each other.
var ErrRunInProgress = errors.New("a recruitment run is already in progress")
