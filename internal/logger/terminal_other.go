//go:build !linux && !darwin

package logger

// isTerminal conservatively reports false on platforms without a terminal
// probe, disabling colored output.
func isTerminal(fd uintptr) bool {
	return false
}
