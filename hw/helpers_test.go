package hw

import (
	"bytes"
	"testing"

	"gopkg.in/Sirupsen/logrus.v0"

	"gbcore/emu/log"
	"gbcore/hw/hwio"
)

// newTestCPU returns a CPU with 64KB of flat RAM, prog loaded at 0x0100 and
// PC pointing to it.
func newTestCPU(t *testing.T, prog ...uint8) (*CPU, []byte) {
	t.Helper()

	ram := &hwio.Mem{Name: "ram", Data: make([]byte, 0x10000)}
	bus := hwio.NewTable("test")
	bus.Map(0x0000, ram, "ram")

	cpu := NewCPU(bus)
	cpu.PC = 0x0100
	cpu.SP = 0xFFFE
	copy(ram.Data[0x0100:], prog)
	return cpu, ram.Data
}

func mustStep(t *testing.T, cpu *CPU) int {
	t.Helper()

	cycles, err := cpu.Step()
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	return cycles
}

// captureLog enables debug output for mods and returns the log output.
func captureLog(t *testing.T, mods ...log.Module) *bytes.Buffer {
	t.Helper()

	var mask log.ModuleMask
	for _, mod := range mods {
		mask |= mod.Mask()
	}
	old := logrus.StandardLogger().Out
	buf := &bytes.Buffer{}
	logrus.SetOutput(buf)
	log.EnableDebugModules(mask)
	t.Cleanup(func() {
		logrus.SetOutput(old)
		log.DisableDebugModules(mask)
	})
	return buf
}
