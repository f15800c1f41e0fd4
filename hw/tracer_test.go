package hw

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTraceFormat(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x3E, 0x99, 0x00, 0xCB, 0x37) // LD A,$99; NOP; SWAP A

	var out bytes.Buffer
	cpu.SetTraceOutput(&out)
	for range 3 {
		mustStep(t, cpu)
	}

	const regs = "B:00 C:00 D:00 E:00 H:00 L:00 SP:FFFE"
	want := []string{
		fmt.Sprintf("%-16s%-20sA:00 F:00 %s CYC:0", "0100  3E 99 ", "LD A,$99", regs),
		fmt.Sprintf("%-16s%-20sA:99 F:00 %s CYC:8", "0102  00 ", "NOP", regs),
		fmt.Sprintf("%-16s%-20sA:99 F:00 %s CYC:12", "0103  CB 37 ", "SWAP A", regs),
	}
	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}

	// Interrupts and idle steps aren't traced.
	out.Reset()
	cpu.halted = true
	mustStep(t, cpu)
	if out.Len() != 0 {
		t.Errorf("idle step traced: %q", out.String())
	}

	cpu.SetTraceOutput(nil)
	cpu.halted = false
	mustStep(t, cpu)
	if out.Len() != 0 {
		t.Errorf("trace still enabled: %q", out.String())
	}
}
