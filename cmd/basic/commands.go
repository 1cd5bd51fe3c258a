package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/manifest"
	"github.com/goforj/godump"
)

// handleDisasmCommand processes the `basic disasm` subcommand.
func (a *app) handleDisasmCommand(args []string) error {
	fs := a.newFlagSet("disasm", "[-dump] <image|name>")
	dump := fs.Bool("dump", false, "Also dump the decoded image structure")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("disasm takes one image")
	}

	img, err := a.loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	if img.Source != "" {
		fmt.Fprintf(a.stdout, "; source: %s\n", img.Source)
	}
	fmt.Fprint(a.stdout, img.Program.DisassembleWithName(img.Name))
	if *dump {
		godump.Fdump(a.stdout, img)
	}
	return nil
}

// handleStoreCommand processes the `basic store` subcommand.
// Usage:
//
//	basic store put <name> <file|->
//	basic store get <name> [file]
//	basic store ls
//	basic store rm <name>
func (a *app) handleStoreCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("store needs a subcommand: put, get, ls or rm")
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sub, rest := args[0], args[1:]
	switch {
	case sub == "put" && len(rest) == 2:
		var img *bytecode.Image
		if rest[1] == "-" {
			img, err = bytecode.ReadImage(a.stdinOrProcess())
		} else {
			img, err = bytecode.LoadImage(rest[1])
		}
		if err != nil {
			return err
		}
		return store.Put(rest[0], img)

	case sub == "get" && (len(rest) == 1 || len(rest) == 2):
		img, err := store.Get(rest[0])
		if err != nil {
			return err
		}
		if len(rest) == 2 {
			return bytecode.SaveImage(rest[1], img)
		}
		return bytecode.WriteImage(a.stdout, img)

	case sub == "ls" && len(rest) == 0:
		entries, err := store.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tINSTRUCTIONS\tBYTES\tDIGEST\tSAVED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.12s\t%s\n",
				e.Name, e.Instructions, e.Size, e.Digest, e.SavedAt.Local().Format(time.DateTime))
		}
		return w.Flush()

	case sub == "rm" && len(rest) == 1:
		return store.Delete(rest[0])
	}
	return fmt.Errorf("bad store command: basic store %v", args)
}

func (a *app) stdinOrProcess() io.Reader {
	if a.stdin == nil {
		return os.Stdin
	}
	return a.stdin
}

// handleSampleCommand processes the `basic sample` subcommand.
func (a *app) handleSampleCommand(args []string) error {
	fs := a.newFlagSet("sample", "[-o file] [-store] <name>")
	out := fs.String("o", "", "Output file (default <name>.img)")
	toStore := fs.Bool("store", false, "Put the image in the store instead of a file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("sample takes one name, one of %v", sampleNames())
	}

	name := fs.Arg(0)
	img, err := compileSample(name)
	if err != nil {
		return err
	}
	if *toStore {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Put(name, img)
	}
	if *out == "" {
		*out = name + ".img"
	}
	if err := bytecode.SaveImage(*out, img); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "wrote %s (%d instructions)\n", *out, img.Program.Len())
	return nil
}

// handleInfoCommand processes the `basic info` subcommand.
func (a *app) handleInfoCommand(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("info takes no arguments")
	}
	m := a.manifest
	if m.Dir == "." {
		fmt.Fprintf(a.stdout, "# no %s found, using defaults\n", manifest.FileName)
	} else {
		fmt.Fprintf(a.stdout, "# %s\n", m.Dir)
	}
	fmt.Fprintf(a.stdout, "# store: %s\n", m.StorePath())
	if entry := m.EntryPath(); entry != "" {
		fmt.Fprintf(a.stdout, "# entry: %s\n", entry)
	}
	return m.Encode(a.stdout)
}
