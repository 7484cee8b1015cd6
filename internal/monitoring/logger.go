package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// IterationLogger returns a swarm observer that reports progress through Logf.
func IterationLogger(total int) func(iteration int, bestCost float64) {
	return func(iteration int, bestCost float64) {
		Logf("Iteration %d/%d, Best Cost: %.4f", iteration+1, total, bestCost)
	}
}
