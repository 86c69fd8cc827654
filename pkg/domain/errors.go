package domain

import "errors"

// ErrSnapshotNotFound is returned when a snapshot ID cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrUnknownLocation is returned when a location id is not part of the catalog.
var ErrUnknownLocation = errors.New("unknown location")

// ErrUnknownSection is returned when a section index is out of range for its location.
var ErrUnknownSection = errors.New("unknown section")

// ErrCommandDeclined is returned by command factories when the section precondition does not hold.
var ErrCommandDeclined = errors.New("command declined")

// ErrConfiguration wraps every catalog error detected while building the graph.
var ErrConfiguration = errors.New("configuration error")

// ErrNothingToUndo is returned when the history has no command to undo or redo.
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrSessionLocked is returned when a distributed session lock cannot be acquired.
var ErrSessionLocked = errors.New("session locked")

// ErrUnknownPlacement is returned when a boss/prize placement is not part of the catalog.
var ErrUnknownPlacement = errors.New("unknown placement")

// ErrUnsettled is reported when propagation hit its round bound and dropped pending work.
var ErrUnsettled = errors.New("propagation did not settle")
