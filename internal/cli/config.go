package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the resolved CLI configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
type Config struct {
	Weights string `koanf:"weights"`
	Input   string `koanf:"input"`
	Preset  string `koanf:"preset"`
	Backend string `koanf:"backend"`
	Verify  bool   `koanf:"verify"`
	Verbose bool   `koanf:"verbose"`
}

const (
	DefaultPreset  = "resnet110"
	DefaultBackend = "software"
)

// findConfigFile picks the config file to use.
// Priority: explicit path > dialectnet.yaml > dialectnet.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"dialectnet.yaml", "dialectnet.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig layers defaults, an optional YAML file, DIALECTNET_*
// environment variables, and explicitly set CLI flags.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"preset":  DefaultPreset,
		"backend": DefaultBackend,
		"verify":  true,
		"verbose": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if used := findConfigFile(cfgFile); used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider("DIALECTNET_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DIALECTNET_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
