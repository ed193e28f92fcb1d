package domain

import "errors"

// ErrJunctionRange is returned when a port references a junction id outside the diagram.
var ErrJunctionRange = errors.New("junction id out of range")

// ErrNotForest is returned when a composite parent relation contains a cycle
// other than the self-loop marking a root.
var ErrNotForest = errors.New("composite parent relation is not a rooted forest")

// ErrNoRoot is returned when a schedule has no self-parented composite.
var ErrNoRoot = errors.New("schedule has no root composite")

// ErrMultipleRoots is returned when a schedule has more than one self-parented composite.
// Multi-root forests are representable but not evaluable.
var ErrMultipleRoots = errors.New("schedule has multiple root composites")

// ErrOrderMismatch is returned when an explicit visitation order does not
// cover the diagram's boxes exactly once.
var ErrOrderMismatch = errors.New("visitation order does not match box count")

// ErrGeneratorCount is returned when the generator vector length differs from the box count.
var ErrGeneratorCount = errors.New("generator count does not match box count")

// ErrScheduleNotFound is returned by schedule caches on a miss.
var ErrScheduleNotFound = errors.New("schedule not found")
