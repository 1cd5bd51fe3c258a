package stdlib

import (
	"io"
	"strings"
)

// Memory is a Stdlib backed by in-memory buffers: queued input lines,
// captured output and a private environment.
type Memory struct {
	input   []string
	output  []string
	env     map[string]string
	systems int
}

// NewMemory creates a Memory that will answer INPUT with the given lines.
func NewMemory(input ...string) *Memory {
	return &Memory{input: input, env: make(map[string]string)}
}

// Print records one output line.
func (m *Memory) Print(args []string) {
	m.output = append(m.output, strings.Join(args, " "))
}

// Input returns the next queued line, or io.EOF when none are left.
func (m *Memory) Input() (string, error) {
	if len(m.input) == 0 {
		return "", io.EOF
	}
	line := m.input[0]
	m.input = m.input[1:]
	return line, nil
}

func (m *Memory) GetEnvVar(name string) string {
	return m.env[name]
}

func (m *Memory) SetEnvVar(name, value string) {
	m.env[name] = value
}

// System records the request; the VM stops on its own.
func (m *Memory) System() {
	m.systems++
}

// Output returns the printed lines.
func (m *Memory) Output() []string {
	return m.output
}

// SystemCalls returns how many times System was called.
func (m *Memory) SystemCalls() int {
	return m.systems
}
