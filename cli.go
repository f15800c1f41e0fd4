package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"gbcore/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run one or more ROMs
	romInfosMode             // Show ROM infos
	versionMode              // Show gbcore version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run ROM in emulator."`
		RomInfos RomInfos `cmd:"" help:"Show ROM infos." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show gbcore version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomPaths []string `arg:"" name:"/path/to/rom" help:"${rompath_help}"`

		Cycles     int64    `name:"cycles" help:"${cycles_help}" default:"0"`
		Realtime   bool     `name:"realtime" help:"Pace emulation to the hardware clock."`
		Config     string   `name:"config" help:"${config_help}" type:"existingfile"`
		Trace      *outfile `name:"trace" help:"Write CPU trace log. (single ROM only)" placeholder:"FILE|stdout|stderr"`
		Snapshot   string   `name:"snapshot" help:"Write machine state to file on exit. (single ROM only)" type:"path"`
		Restore    string   `name:"restore" help:"Restore machine state from file before running. (single ROM only)" type:"existingfile"`
		CPUProfile string   `name:"cpuprofile" help:"Write CPU profile to file." type:"path"`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/rom" type:"existingfile"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"rompath_help": "ROMs to run. Several ROMs run concurrently, each on its own console.",
	"cycles_help":  "Number of CPU cycles to run, 0 runs until interrupted.",
	"config_help":  "Configuration file. (default: user config directory)",
	"log_help":     "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("gbcore"),
		kong.Description("Game Boy emulator core."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch cmd := ctx.Command(); {
	case strings.HasPrefix(cmd, "rom-infos"):
		cfg.mode = romInfosMode
	case cmd == "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

// logModMask is the set of modules selected with --log. "no" is
// represented by ModuleMaskAll, after logging has been disabled.
type logModMask log.ModuleMask

// Decode implements kong.MapperValue. It applies the selection right away so
// that logs emitted during startup honor it.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	mask, off, err := parseLogModules(tok.Value.(string))
	if err != nil {
		return err
	}
	if off {
		log.Disable()
		*lm = logModMask(log.ModuleMaskAll)
		return nil
	}
	*lm = logModMask(mask)
	log.EnableDebugModules(mask)
	return nil
}

// parseLogModules parses a comma-separated list of module names, or one of
// the special values "all" and "no". off is true for "no".
func parseLogModules(arg string) (mask log.ModuleMask, off bool, err error) {
	var all bool
	for _, name := range strings.Split(arg, ",") {
		switch name {
		case "all":
			all = true
		case "no":
			off = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}

	switch {
	case off && (all || mask != 0):
		return 0, false, fmt.Errorf("'no' can't be combined with other log modules")
	case all:
		mask = log.ModuleMaskAll
	}
	return mask, off, nil
}

// outfile is a FILE|stdout|stderr command line value.
type outfile struct {
	io.Writer
	name string
	fd   *os.File // nil for the standard streams
}

// Decode implements kong.MapperValue.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)

	switch f.name {
	case "stdout":
		f.Writer = os.Stdout
	case "stderr":
		f.Writer = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.fd = fd
		f.Writer = fd
	}
	return nil
}

func (f *outfile) String() string { return f.name }

func (f *outfile) Close() error {
	if f.fd == nil {
		return nil
	}
	return f.fd.Close()
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
