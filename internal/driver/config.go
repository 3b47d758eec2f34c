package driver

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"mica/internal/layout"
)

// Config controls the middle-end pipeline. It maps to the optional
// mica.toml next to the input.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Target   TargetConfig   `toml:"target"`
}

// PipelineConfig selects passes and parallelism.
type PipelineConfig struct {
	// Jobs caps parallel body processing; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`

	// MaxDiagnostics caps diagnostics collected per body.
	MaxDiagnostics int `toml:"max_diagnostics"`

	SimplifyCFG bool `toml:"simplify_cfg"`
	Renumber    bool `toml:"renumber"`
	Validate    bool `toml:"validate"`
	DumpMIR     bool `toml:"dump_mir"`
}

// TargetConfig names the ABI target.
type TargetConfig struct {
	Triple string `toml:"triple"`
}

// DefaultConfig is the configuration used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			Jobs:           0,
			MaxDiagnostics: 100,
			SimplifyCFG:    true,
			Renumber:       true,
			Validate:       true,
		},
		Target: TargetConfig{Triple: "x86_64-linux-gnu"},
	}
}

// LoadConfig reads a TOML manifest, falling back to defaults when the
// file does not exist. Unknown keys are rejected so typos surface.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return cfg, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}
	return cfg, nil
}

// ResolveTarget maps the configured triple to a layout target.
func (c Config) ResolveTarget() (layout.Target, error) {
	switch c.Target.Triple {
	case "", "x86_64-linux-gnu":
		return layout.X86_64LinuxGNU(), nil
	default:
		return layout.Target{}, fmt.Errorf("unsupported target triple %q", c.Target.Triple)
	}
}

// jobLimit resolves the effective parallelism.
func (c Config) jobLimit(n int) int {
	jobs := c.Pipeline.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if n > 0 && jobs > n {
		jobs = n
	}
	return jobs
}
