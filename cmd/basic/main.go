// basic CLI - runs, inspects and stores bytecode images.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chazu/basic/manifest"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("basic.cli")

// app carries what every subcommand needs.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	stdin    io.Reader // nil means the process console
	manifest *manifest.Manifest
}

func main() {
	verbose := flag.Int("v", 0, "Log verbosity (overrides [log] verbosity)")
	dir := flag.String("C", ".", "Directory to search for basic.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: basic [options] <command> [arguments]\n\n")
		fmt.Fprintf(os.Stderr, "Runs and manages BASIC bytecode images.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  run [-trace] [-stats] [image|name]  Run an image file or stored image\n")
		fmt.Fprintf(os.Stderr, "  disasm [-dump] <image|name>         Disassemble an image\n")
		fmt.Fprintf(os.Stderr, "  store put|get|ls|rm ...             Manage the image store\n")
		fmt.Fprintf(os.Stderr, "  sample [-o file] [-store] <name>    Write a demo image\n")
		fmt.Fprintf(os.Stderr, "  info                                Show the resolved configuration\n")
	}
	flag.Parse()

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default()
	}

	verbosity := m.Log.Verbosity
	if *verbose != 0 {
		verbosity = *verbose
	}
	configureLogging(verbosity, m.LogPath())

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	a := &app{stdout: os.Stdout, stderr: os.Stderr, manifest: m}
	if err := a.dispatch(args[0], args[1:]); err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogging(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

func (a *app) dispatch(cmd string, args []string) error {
	switch cmd {
	case "run":
		return a.handleRunCommand(args)
	case "disasm":
		return a.handleDisasmCommand(args)
	case "store":
		return a.handleStoreCommand(args)
	case "sample":
		return a.handleSampleCommand(args)
	case "info":
		return a.handleInfoCommand(args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// newFlagSet creates a subcommand flag set that reports errors instead of
// exiting.
func (a *app) newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: basic %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}
