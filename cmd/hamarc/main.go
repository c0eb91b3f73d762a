// Command hamarc packs files into, and unpacks them from, a
// container whose per-file payload is protected by a parametric
// Hamming single-error-correcting code.
package main

import (
	"errors"
	"fmt"
	"os"

	"hamarc/internal/cliargs"
	"hamarc/internal/config"
	"hamarc/internal/logging"
	"hamarc/pkg/archive"
	"hamarc/pkg/hamming"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	p := cliargs.New("hamarc")

	var create, list, extract, appendMode, del, concat, help bool
	var archivePath, configPath string
	var dataBits, parityBits int
	var verbose bool

	p.AddFlag(&create, "c", "create", "create a new archive from the given files")
	p.AddFlag(&list, "l", "list", "list the archive's contents")
	p.AddFlag(&extract, "x", "extract", "extract files from the archive")
	p.AddFlag(&appendMode, "a", "append", "append files to the archive")
	p.AddFlag(&del, "d", "delete", "delete named files from the archive")
	p.AddFlag(&concat, "A", "concatenate", "concatenate source archives into one")
	p.AddString(&archivePath, "f", "file", "", "archive path (required)")
	p.AddInt(&dataBits, "D", "hamming-data-bits", hamarcDefaultDataBits, "Hamming data bits k, in [1,16]")
	p.AddInt(&parityBits, "P", "hamming-parity-bits", hamarcDefaultParityBits, "Hamming parity bits r, in [1,8]")
	p.AddString(&configPath, "", "hamming-config", "", "YAML file supplying hamming.data_bits/hamming.parity_bits defaults")
	p.AddFlag(&verbose, "v", "verbose", "enable debug-level logging")
	p.AddFlag(&help, "h", "help", "show usage")

	if err := p.Parse(argv); err != nil {
		if errors.Is(err, cliargs.ErrHelp) {
			fmt.Print(p.Usage())
			return 0
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	if help {
		fmt.Print(p.Usage())
		return 0
	}

	logging.Init(verbose, os.Getenv("HAMARC_LOG_PRETTY") == "1")

	if err := applyConfigDefaults(configPath, &dataBits, &parityBits); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	mode, err := selectMode(create, list, extract, appendMode, del, concat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	if archivePath == "" {
		fmt.Fprintln(os.Stderr, "error: -f/--file is required")
		return 1
	}

	opts := hamming.Options{DataBits: dataBits, ParityBits: parityBits}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	engine := archive.NewEngine(archivePath, opts)

	if err := dispatch(mode, engine, p.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	return 0
}

const (
	hamarcDefaultDataBits   = 8
	hamarcDefaultParityBits = 4
)

type mode int

const (
	modeCreate mode = iota
	modeList
	modeExtract
	modeAppend
	modeDelete
	modeConcatenate
)

// selectMode enforces "exactly one of" across the six mode flags.
func selectMode(create, list, extract, appendMode, del, concat bool) (mode, error) {
	flags := []bool{create, list, extract, appendMode, del, concat}
	modes := []mode{modeCreate, modeList, modeExtract, modeAppend, modeDelete, modeConcatenate}

	selected := -1
	for i, f := range flags {
		if !f {
			continue
		}
		if selected != -1 {
			return 0, fmt.Errorf("exactly one mode flag may be given")
		}
		selected = i
	}

	if selected == -1 {
		return 0, fmt.Errorf("one of -c/-l/-x/-a/-d/-A is required")
	}

	return modes[selected], nil
}

func dispatch(m mode, engine *archive.Engine, args []string) error {
	switch m {
	case modeCreate:
		if len(args) == 0 {
			return fmt.Errorf("create requires at least one input file")
		}
		return engine.Create(args)
	case modeList:
		entries, err := engine.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s (%d bytes)\n", e.Name, e.OriginalSize)
		}
		return nil
	case modeExtract:
		return engine.Extract(args)
	case modeAppend:
		if len(args) == 0 {
			return fmt.Errorf("append requires at least one input file")
		}
		return engine.Append(args)
	case modeDelete:
		if len(args) == 0 {
			return fmt.Errorf("delete requires at least one file name")
		}
		return engine.Delete(args)
	case modeConcatenate:
		if len(args) < 2 {
			return fmt.Errorf("concatenate requires at least two source archives")
		}
		return engine.Concatenate(args)
	default:
		return fmt.Errorf("unknown mode")
	}
}

// applyConfigDefaults loads an optional YAML config (per
// config.Resolve) and uses its hamming defaults for any of
// dataBits/parityBits still equal to the CLI's own default. A flag
// whose value differs from that default wins over the config file; a
// flag given explicitly with the default value (e.g. -D 8) cannot be
// told apart from an omitted one, so the config value replaces it.
func applyConfigDefaults(flagPath string, dataBits, parityBits *int) error {
	path := config.Resolve(flagPath)
	if path == "" {
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if *dataBits == hamarcDefaultDataBits && cfg.Hamming.DataBits != 0 {
		*dataBits = cfg.Hamming.DataBits
	}
	if *parityBits == hamarcDefaultParityBits && cfg.Hamming.ParityBits != 0 {
		*parityBits = cfg.Hamming.ParityBits
	}

	return nil
}
