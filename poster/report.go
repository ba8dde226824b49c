package poster

import (
	"time"

	"github.com/samber/lo"
)

// Report collects the results of one run in input order
type Report struct {
	// Total is the number of ids handed to Run
	Total int
	// Results holds one entry per processed id, in input order
	Results []Result
	// Interrupted is set when cancellation left ids unscheduled
	Interrupted bool
	// Duration is the wall time of the whole run
	Duration time.Duration
}

// Counts returns the number of results per status
func (r *Report) Counts() map[Status]int {
	return lo.CountValuesBy(r.Results, func(res Result) Status {
		return res.Status
	})
}

// Count returns the number of results with the given status
func (r *Report) Count(status Status) int {
	return lo.CountBy(r.Results, func(res Result) bool {
		return res.Status == status
	})
}

// Failed returns the results that ended in a failure status
func (r *Report) Failed() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool {
		return res.Status.IsFailure()
	})
}

// OK reports whether every id was processed without failure
func (r *Report) OK() bool {
	return !r.Interrupted && len(r.Failed()) == 0
}
