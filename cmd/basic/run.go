package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chazu/basic/stdlib"
	"github.com/chazu/basic/vm"
)

// handleRunCommand processes the `basic run` subcommand.
// Usage:
//
//	basic run hello.img        # run an image file
//	basic run -stats hello     # run a stored image, then report CPU use
func (a *app) handleRunCommand(args []string) error {
	fs := a.newFlagSet("run", "[-trace] [-stats] [image|name]")
	trace := fs.Bool("trace", false, "Log every instruction (needs -v 2)")
	stats := fs.Bool("stats", false, "Print instruction count and CPU time when done")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("run takes at most one image")
	}

	img, err := a.loadImage(fs.Arg(0))
	if err != nil {
		return err
	}

	con := a.console()
	defer con.Close()
	con.MaxHistory = a.manifest.Run.MaxHistory
	con.Exit = func(int) { log.Info("program stopped by SYSTEM") }
	for name, value := range a.manifest.Run.Env {
		con.SetEnvVar(name, value)
	}

	interp := vm.NewInterpreter(con)
	interp.Trace = *trace || a.manifest.Run.Trace

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("running %s (%d instructions)", img.Name, img.Program.Len())
	before, err := readCPUTimes()
	if err != nil && *stats {
		log.Warningf("cannot read CPU times: %v", err)
	}
	start := time.Now()
	runErr := interp.Interpret(ctx, img.Program)
	if *stats {
		after, err := readCPUTimes()
		if err != nil {
			log.Warningf("cannot read CPU times: %v", err)
		}
		fmt.Fprintf(a.stderr, "%d instructions in %s (user %s, system %s)\n",
			interp.Steps(), time.Since(start).Round(time.Microsecond),
			after.User-before.User, after.System-before.System)
	}
	return runErr
}

// console returns the Stdlib the program talks to.
func (a *app) console() *stdlib.Console {
	if a.stdin == nil {
		return stdlib.NewConsole()
	}
	return stdlib.NewConsoleIO(a.stdin, a.stdout)
}
