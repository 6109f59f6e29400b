package crawl

// stuckDetector watches the discovered-page count across polls. A nonzero
// count that stays flat for threshold consecutive polls means the upstream
// crawl has stalled and its pages should be taken as-is.
type stuckDetector struct {
	threshold int
	last      int
	unchanged int
}

func newStuckDetector(threshold int) *stuckDetector {
	return &stuckDetector{threshold: threshold, last: -1}
}

// observe records a poll's page count and reports whether the crawl is
// now considered stuck.
func (d *stuckDetector) observe(count int) bool {
	if count == d.last && count > 0 {
		d.unchanged++
		return d.unchanged >= d.threshold
	}
	d.last = count
	d.unchanged = 0
	return false
}
