package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"gbcore/emu"
	"gbcore/emu/log"
	"gbcore/hw/snapshot"
	"gbcore/rom"
)

// result summarizes the run of a single ROM.
type result struct {
	path   string
	cycles int64
	pc     uint16
	state  string
	err    error
}

// runMain runs the ROMs given on the command line, and returns the process
// exit code.
func runMain(args Run, logMask logModMask) int {
	cfg := emu.LoadConfigOrDefault()
	if args.Config != "" {
		var err error
		cfg, err = emu.LoadConfig(args.Config)
		checkf(err, "failed to load configuration")
	}
	if logMask == 0 {
		log.EnableDebugModules(cfg.LogModuleMask())
	}
	if args.Realtime {
		cfg.Emulation.Realtime = true
	}

	single := len(args.RomPaths) == 1
	if !single && (args.Trace != nil || args.Snapshot != "" || args.Restore != "") {
		fatalf("--trace, --snapshot and --restore need a single ROM")
	}
	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		defer args.Trace.Close()
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]result, len(args.RomPaths))
	if single {
		results[0] = runROM(ctx, args.RomPaths[0], cfg, args)
	} else {
		// Consoles share nothing, each one runs in its own goroutine.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, path := range args.RomPaths {
			g.Go(func() error {
				results[i] = runROM(gctx, path, cfg, args)
				return nil
			})
		}
		_ = g.Wait()
	}

	return printResults(os.Stdout, results)
}

func runROM(ctx context.Context, path string, cfg emu.Config, args Run) result {
	res := result{path: path}

	cart, err := rom.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	e, err := emu.Launch(cart.Data, cfg)
	if err != nil {
		res.err = err
		return res
	}

	cpu := e.GB.CPU
	if len(args.RomPaths) == 1 {
		log.AddContext(cpu)
		defer log.RemoveContext(cpu)
	}
	if log.ModMem.Enabled(log.DebugLevel) {
		e.GB.PrintMemoryMap(os.Stderr)
	}

	if args.Restore != "" {
		if err := restore(e.GB, args.Restore); err != nil {
			res.err = fmt.Errorf("restore: %w", err)
			return res
		}
	}

	start := cpu.Cycles
	err = e.Run(ctx, args.Cycles)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	res.err = err
	res.cycles = cpu.Cycles - start
	res.pc = cpu.PC
	res.state = cpu.State().String()

	if args.Snapshot != "" {
		if err := writeSnapshot(e.GB, args.Snapshot); err != nil {
			res.err = errors.Join(res.err, fmt.Errorf("snapshot: %w", err))
		}
	}
	return res
}

func restore(gb *emu.GameBoy, path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := snapshot.Unmarshal(buf)
	if err != nil {
		return err
	}
	return gb.Restore(s)
}

func writeSnapshot(gb *emu.GameBoy, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := snapshot.Write(f, gb.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printResults writes one line per ROM and returns 1 if any of them failed.
func printResults(w io.Writer, results []result) int {
	code := 0
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		name := filepath.Base(r.path)
		if r.err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\n", name, r.err)
			code = 1
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\tPC:%04X\tcycles:%d\n", name, r.state, r.pc, r.cycles)
	}
	tw.Flush()
	return code
}
