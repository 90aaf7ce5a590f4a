package forwarder

import "time"

// Stats tallies the outcome of one run.
type Stats struct {
	// Sent counts lines acknowledged with a 200 response.
	Sent int

	// Failed counts lines rejected by status code or lost to transport
	// errors.
	Failed int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Rate reports acknowledged lines per second. Zero elapsed time yields 0.
func (s Stats) Rate() float64 {
	elapsed := s.Elapsed.Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Sent) / elapsed
}
