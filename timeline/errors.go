package timeline

import "errors"

// ErrInconsistent marks an entity-count or invariant mismatch between
// captions, boundaries, and crops. It indicates a structural bug between
// pipeline stages and is the only fatal error kind: it must surface to the
// caller rather than be silently truncated.
var ErrInconsistent = errors.New("timeline inconsistent")
