package vm

// Stdlib is the boundary through which programs reach the outside world.
type Stdlib interface {
	// Print emits the arguments joined by a single space as one line.
	Print(args []string)
	// Input reads one line without trimming it.
	Input() (string, error)
	// GetEnvVar returns the variable's value, or "" when it is unset.
	GetEnvVar(name string) string
	SetEnvVar(name, value string)
	// System asks the host to terminate the program.
	System()
}
