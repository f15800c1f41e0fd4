package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/Sirupsen/logrus.v0"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	old := logrus.StandardLogger().Out
	buf := &bytes.Buffer{}
	logrus.SetOutput(buf)
	t.Cleanup(func() {
		logrus.SetOutput(old)
		DisableDebugModules(ModuleMaskAll)
	})
	return buf
}

type pcContext struct{ pc uint16 }

func (c *pcContext) AddLogContext(e *EntryZ) { e.Hex16("pc", c.pc) }

func TestModuleNames(t *testing.T) {
	for _, mod := range []Module{ModEmu, ModCPU, ModMem, ModHwIo, ModCart, ModIRQ} {
		got, ok := ModuleByName(mod.String())
		if !ok || got != mod {
			t.Errorf("ModuleByName(%q) = %v, %t", mod.String(), got, ok)
		}
	}
	if _, ok := ModuleByName("<error>"); ok {
		t.Errorf("ModuleByName found the error placeholder")
	}

	mod := NewModule("test")
	if got, ok := ModuleByName("test"); !ok || got != mod {
		t.Errorf("ModuleByName(test) = %v, %t, want %v", got, ok, mod)
	}
	if names := ModuleNames(); names[len(names)-1] != "test" {
		t.Errorf("ModuleNames() = %v, want test last", names)
	}
}

func TestDebugFiltering(t *testing.T) {
	buf := captureOutput(t)

	if e := ModCPU.DebugZ("hidden"); e != nil {
		t.Fatalf("DebugZ returned an entry for a disabled module")
	}
	ModCPU.DebugZ("hidden").Hex8("a", 1).End()
	if buf.Len() != 0 {
		t.Fatalf("disabled debug entry was emitted: %s", buf)
	}

	EnableDebugModules(ModCPU.Mask())
	ModCPU.DebugZ("step").Hex16("sp", 0xFFFE).Error("err", errors.New("bad")).End()
	ModMem.DebugZ("hidden").End()

	out := buf.String()
	for _, want := range []string{"step", "_mod=cpu", "sp=fffe", "err=bad"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q: %s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled module emitted: %s", out)
	}
}

func TestWarningsAlwaysEnabled(t *testing.T) {
	buf := captureOutput(t)

	ModCart.WarnZ("careful").Int("bank", 3).End()
	if out := buf.String(); !strings.Contains(out, "careful") || !strings.Contains(out, "bank=3") {
		t.Errorf("warning not emitted: %s", out)
	}
}

func TestContext(t *testing.T) {
	buf := captureOutput(t)

	ctx := &pcContext{pc: 0x150}
	AddContext(ctx)
	ModEmu.WarnZ("with context").End()
	RemoveContext(ctx)
	ModEmu.WarnZ("without context").End()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "pc=0150") {
		t.Errorf("context missing: %s", lines[0])
	}
	if strings.Contains(lines[1], "pc=") {
		t.Errorf("context still present after removal: %s", lines[1])
	}
}

// Must run last, Disable can't be undone.
func TestDisable(t *testing.T) {
	buf := captureOutput(t)

	Disable()
	ModEmu.ErrorZ("silenced").End()
	ModEmu.Warnf("silenced too")
	if buf.Len() != 0 {
		t.Errorf("output after Disable: %s", buf)
	}
}
