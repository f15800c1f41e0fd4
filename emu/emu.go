package emu

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"gbcore/emu/log"
)

// ErrStopped is returned by Run when the emulator has been stopped with
// Stop.
var ErrStopped = errors.New("emulator stopped")

// cycles run between checks of the stop conditions and pacing.
const sliceCycles = 70224

type Emulator struct {
	GB  *GameBoy
	cfg EmulationConfig

	// These are accessed concurrently by the emulator loop and its
	// controller.
	quit   atomic.Bool
	paused atomic.Bool

	// overridden by tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration)
}

// Launch powers up a console running the cartridge image. It doesn't start
// the emulation loop, call Run() for that.
func Launch(image []byte, cfg Config) (*Emulator, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	gb, err := PowerUp(image, cfg)
	if err != nil {
		return nil, err
	}
	return &Emulator{
		GB:    gb,
		cfg:   cfg.Emulation,
		now:   time.Now,
		sleep: sleepCtx,
	}, nil
}

// Run runs the emulation for ncycles, or forever if ncycles is 0. It
// returns early with the context error if ctx is cancelled, ErrStopped if
// Stop is called, or the error of the CPU.
func (e *Emulator) Run(ctx context.Context, ncycles int64) error {
	start := e.now()
	startCycles := e.GB.CPU.Cycles
	until := startCycles + ncycles

	for ncycles == 0 || e.GB.CPU.Cycles < until {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.quit.Load() {
			return ErrStopped
		}
		if e.paused.Load() {
			// Don't burn cpu while paused.
			e.sleep(ctx, 100*time.Millisecond)
			continue
		}

		n := int64(sliceCycles)
		if ncycles != 0 {
			n = min(n, until-e.GB.CPU.Cycles)
		}
		if err := e.GB.Run(n); err != nil {
			return err
		}

		if e.cfg.Realtime {
			elapsed := e.GB.CPU.Cycles - startCycles
			ahead := cyclesDuration(elapsed, e.cfg.ClockHz) - e.now().Sub(start)
			if ahead > 0 {
				e.sleep(ctx, ahead)
			}
		}
	}

	log.ModEmu.InfoZ("Emulation loop exited").
		Int64("cycles", e.GB.CPU.Cycles-startCycles).
		Duration("elapsed", e.now().Sub(start)).
		End()
	return nil
}

// cyclesDuration returns the time the hardware takes to run ncycles at
// the given clock.
func cyclesDuration(ncycles int64, clockHz int) time.Duration {
	if clockHz <= 0 {
		return 0
	}
	hz := int64(clockHz)
	secs, rem := ncycles/hz, ncycles%hz
	return time.Duration(secs)*time.Second + time.Duration(rem*int64(time.Second)/hz)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// SetPause and Stop allows to control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Stop()               { e.quit.Store(true) }
