package analytics

import "errors"

// ErrInvalidArgument reports an out-of-range rank or percentile, or a
// non-positive capacity, bucket count or window size. It is always returned
// wrapped with context, so test for it with errors.Is.
var ErrInvalidArgument = errors.New("analytics: invalid argument")
