package emu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gbcore/emu/log"
	"gbcore/hw/hwdefs"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Emulation EmulationConfig `toml:"emulation"`
	Debug     DebugConfig     `toml:"debug"`

	TraceOut io.Writer `toml:"-"`
}

// Accepted values of EmulationConfig.InvalidOpcode.
const (
	InvalidOpcodeFail = "fail"
	InvalidOpcodeNop  = "nop"
)

// Accepted values of EmulationConfig.InterruptPriority.
const (
	PriorityHighest = "highest"
	PriorityLowest  = "lowest"
)

type EmulationConfig struct {
	// Realtime paces emulation to ClockHz, otherwise it runs as fast as
	// possible.
	Realtime bool `toml:"realtime"`
	ClockHz  int  `toml:"clock_hz"`

	// InvalidOpcode is either "fail", stopping the emulation, or "nop",
	// skipping the byte.
	InvalidOpcode string `toml:"invalid_opcode"`

	// InterruptPriority is "highest" (highest pending bit first) or
	// "lowest" (VBlank first, like the hardware).
	InterruptPriority string `toml:"interrupt_priority"`

	// StartPC is the PC after reset. Unset means 0x100, where the boot ROM
	// hands over to the cartridge; 0 is a valid entry point.
	StartPC *uint16 `toml:"start_pc"`
}

const defaultStartPC = 0x100

func (ecfg *EmulationConfig) startPC() uint16 {
	if ecfg.StartPC == nil {
		return defaultStartPC
	}
	return *ecfg.StartPC
}

func (ecfg *EmulationConfig) priority() hwdefs.IntPriority {
	if ecfg.InterruptPriority == PriorityLowest {
		return hwdefs.LowestFirst
	}
	return hwdefs.HighestFirst
}

type DebugConfig struct {
	// LogModules lists the modules with debug logs enabled, unless
	// overridden from the command line.
	LogModules []string `toml:"log_modules"`
}

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Emulation: EmulationConfig{
			ClockHz:           hwdefs.ClockHz,
			InvalidOpcode:     InvalidOpcodeFail,
			InterruptPriority: PriorityHighest,
		},
	}
}

// Check validates cfg, filling unset fields with defaults.
func (cfg *Config) Check() error {
	def := DefaultConfig()
	ecfg := &cfg.Emulation
	if ecfg.ClockHz == 0 {
		ecfg.ClockHz = def.Emulation.ClockHz
	}
	if ecfg.ClockHz < 0 {
		return fmt.Errorf("emulation.clock_hz: invalid frequency %d", ecfg.ClockHz)
	}
	switch ecfg.InvalidOpcode {
	case "":
		ecfg.InvalidOpcode = def.Emulation.InvalidOpcode
	case InvalidOpcodeFail, InvalidOpcodeNop:
	default:
		return fmt.Errorf("emulation.invalid_opcode: got %q, want %q or %q", ecfg.InvalidOpcode, InvalidOpcodeFail, InvalidOpcodeNop)
	}
	switch ecfg.InterruptPriority {
	case "":
		ecfg.InterruptPriority = def.Emulation.InterruptPriority
	case PriorityHighest, PriorityLowest:
	default:
		return fmt.Errorf("emulation.interrupt_priority: got %q, want %q or %q", ecfg.InterruptPriority, PriorityHighest, PriorityLowest)
	}
	for _, name := range cfg.Debug.LogModules {
		if _, ok := log.ModuleByName(name); !ok {
			return fmt.Errorf("debug.log_modules: unknown module %q", name)
		}
	}
	return nil
}

// LogModuleMask returns the mask of the modules listed in the debug
// section. Check must have been called.
func (cfg *Config) LogModuleMask() log.ModuleMask {
	var mask log.ModuleMask
	for _, name := range cfg.Debug.LogModules {
		if mod, ok := log.ModuleByName(name); ok {
			mask |= mod.Mask()
		}
	}
	return mask
}

// ConfigDir is the directory holding the gbcore configuration.
var ConfigDir = sync.OnceValue(func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.WarnZ("no user config directory").Error("err", err).End()
		return "."
	}
	return filepath.Join(dir, "gbcore")
})

const cfgFilename = "config.toml"

// LoadConfig reads and checks the configuration file at path. Keys that
// don't match any setting are reported as errors.
func LoadConfig(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := decodeConfig(string(buf))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the gbcore config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("ignoring config file").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig into gbcore config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir(), cfgFilename), buf, 0o644)
}
