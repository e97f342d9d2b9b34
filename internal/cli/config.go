package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/models"
)

// ConfigFileName is the base name of the optional configuration file
const ConfigFileName = "wsgen"

// Config holds the configuration for a generation run
type Config struct {
	// Patterns are go/packages patterns, "./..." scans the whole module
	Patterns []string `mapstructure:"patterns"`

	// Module overrides the module path read from go.mod
	Module string `mapstructure:"module"`

	// Dir is the directory patterns are resolved from
	Dir string `mapstructure:"dir"`

	// RuntimePackage is the import path of the runtime generated code uses
	RuntimePackage string `mapstructure:"runtime_package"`

	Session    SessionConfig    `mapstructure:"session"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`

	// Unmatched is the default policy for unknown discriminator values: ignore or error
	Unmatched string `mapstructure:"unmatched"`

	DryRun  bool `mapstructure:"dry_run"`
	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
}

// SessionConfig names the session type handlers declare. It defaults to the
// runtime's Session; another type must be an alias of it.
type SessionConfig struct {
	Package string `mapstructure:"package"`
	Type    string `mapstructure:"type"`
}

// RegistryConfig places and names the registry artifact
type RegistryConfig struct {
	Dir  string `mapstructure:"dir"`
	Type string `mapstructure:"type"`
	File string `mapstructure:"file"`
}

// DispatcherConfig names dispatcher types and files
type DispatcherConfig struct {
	Suffix     string `mapstructure:"suffix"`
	FileSuffix string `mapstructure:"file_suffix"`
}

// NewViper returns a viper instance with defaults, WSGEN_ environment
// variables and wsgen.yaml lookup in dir
func NewViper(dir string) *viper.Viper {
	v := viper.New()

	v.SetDefault("patterns", []string{"./..."})
	v.SetDefault("dir", ".")
	v.SetDefault("runtime_package", models.DefaultRuntimePackage)
	v.SetDefault("session.package", "")
	v.SetDefault("session.type", "Session")
	v.SetDefault("registry.dir", "")
	v.SetDefault("registry.type", "DispatcherRegistry")
	v.SetDefault("registry.file", "wsgen_registry_gen.go")
	v.SetDefault("dispatcher.suffix", "Dispatcher")
	v.SetDefault("dispatcher.file_suffix", "_dispatcher_gen.go")
	v.SetDefault("unmatched", string(models.UnmatchedIgnore))
	v.SetDefault("module", "")
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvPrefix("WSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads the configuration file if there is one and unmarshals
// every layer into a Config
func LoadConfig(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, wserrors.WrapConfigError(v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, wserrors.WrapConfigError("config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects contradictory or incomplete settings
func (c Config) Validate() error {
	if c.Verbose && c.Quiet {
		return wserrors.ConfigError("verbose", "--verbose and --quiet cannot be combined")
	}
	if len(c.Patterns) == 0 {
		return wserrors.ConfigError("patterns", "at least one package pattern is required")
	}
	if _, err := models.ParseUnmatchedPolicy(c.Unmatched); err != nil {
		return wserrors.WrapConfigError("unmatched", err)
	}
	if c.RuntimePackage == "" {
		return wserrors.ConfigError("runtime_package", "must not be empty")
	}
	if c.Session.Type == "" {
		return wserrors.ConfigError("session.type", "must not be empty")
	}
	// an empty type suffix names the dispatcher after its controller
	if c.Dispatcher.Suffix == "" {
		return wserrors.ConfigError("dispatcher.suffix", "must not be empty")
	}
	// a bare ".go" names the output after the controller's own source file
	if fs := c.Dispatcher.FileSuffix; !strings.HasSuffix(fs, ".go") || fs == ".go" {
		return wserrors.ConfigError("dispatcher.file_suffix", fmt.Sprintf("%q must end in .go and add to the base name", fs))
	}
	return nil
}

// SessionPackage returns the import path of the session type
func (c Config) SessionPackage() string {
	if c.Session.Package != "" {
		return c.Session.Package
	}
	return c.RuntimePackage
}
