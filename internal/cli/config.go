package cli

import (
	"reflect"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/mod/semver"

	"github.com/bisgardo/reification/internal/builder"
	"github.com/bisgardo/reification/internal/classifier"
	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/generator"
	"github.com/bisgardo/reification/internal/reifier"
	"github.com/bisgardo/reification/internal/resolver"
)

// ConfigEnvPrefix prefixes environment overrides, e.g. REIFY_OUTPUT_DIR
const ConfigEnvPrefix = "REIFY"

// ConfigName is the base name of the project configuration file
const ConfigName = "reify"

// SupportedConfigMajor is the configuration schema major version this build reads
const SupportedConfigMajor = "v1"

// Config holds the configuration for the CLI generator
type Config struct {
	// Version of the configuration schema, a semantic version with major 1
	Version string `mapstructure:"version" validate:"required"`

	// Inputs is the list of directories to scan for declaration files.
	// Supports "./..." patterns.
	Inputs []string `mapstructure:"inputs" validate:"required,min=1,dive,required"`

	// OutputDir receives the generated files, laid out by package
	OutputDir string `mapstructure:"output_dir" validate:"required"`

	// Format selects java source or json descriptors
	Format string `mapstructure:"format" validate:"oneof=java json"`

	// Separator joins the target name and the bound simple name
	Separator string `mapstructure:"separator" validate:"required"`

	// StrictReferences rejects supertypes missing from the inputs
	StrictReferences bool `mapstructure:"strict_references"`

	// MaxDepth bounds the hierarchy walk; zero selects the default
	MaxDepth int `mapstructure:"max_depth" validate:"gte=0"`

	// Workers bounds parallel request evaluation; zero means unlimited
	Workers int `mapstructure:"workers" validate:"gte=0"`

	Prefixes PrefixConfig `mapstructure:"prefixes"`
	Server   ServerConfig `mapstructure:"server"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `mapstructure:"-"`
}

// PrefixConfig holds the method name prefixes of the strategies
type PrefixConfig struct {
	NewInstance     string `mapstructure:"new_instance" validate:"required"`
	ClassDescriptor string `mapstructure:"class_descriptor" validate:"required"`
}

// ServerConfig configures "reify serve"
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0.0")
	v.SetDefault("inputs", []string{"."})
	v.SetDefault("output_dir", "generated")
	v.SetDefault("format", generator.FormatJava)
	v.SetDefault("separator", builder.DefaultSeparator)
	v.SetDefault("strict_references", false)
	v.SetDefault("max_depth", resolver.DefaultMaxDepth)
	v.SetDefault("workers", 0)
	v.SetDefault("prefixes.new_instance", "new")
	v.SetDefault("prefixes.class_descriptor", "class")
	v.SetDefault("server.addr", ":8080")
}

// NewViper creates a viper instance with defaults and environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadConfig reads the configuration. An explicit path must exist; without
// one, reify.toml or reify.yaml is looked up in the working directory and
// defaults apply when neither is present.
func LoadConfig(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapConfigurationError(path, "read", err).
				WithSuggestion("Check that the configuration file exists and is valid TOML or YAML")
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !cerrors.As(err, &notFound) {
				return nil, errors.WrapConfigurationError(ConfigName, "read", err)
			}
		}
	}

	return LoadConfigWithViper(v)
}

// LoadConfigWithViper decodes and validates configuration from v
func LoadConfigWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapConfigurationError("configuration", "decode", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints, the schema version and the prefix table
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.FromValidation("configuration", err)
	}

	version := c.Version
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return errors.NewValidationError("version", "a semantic version", c.Version)
	}
	if semver.Major(version) != SupportedConfigMajor {
		return errors.NewValidationError("version", "a "+SupportedConfigMajor+".x configuration", c.Version).
			WithSuggestion("Migrate the configuration file to schema version 1")
	}

	if c.Prefixes.NewInstance == c.Prefixes.ClassDescriptor {
		return errors.NewConstraintError("prefixes", "new_instance and class_descriptor must differ")
	}
	return nil
}

// ReifierOptions maps the configuration onto engine options
func (c *Config) ReifierOptions() reifier.Options {
	return reifier.Options{
		Resolver: resolver.Options{
			StrictReferences: c.StrictReferences,
			MaxDepth:         c.MaxDepth,
		},
		Prefixes: []classifier.Prefix{
			{Prefix: c.Prefixes.NewInstance, Kind: classifier.NewInstanceKind},
			{Prefix: c.Prefixes.ClassDescriptor, Kind: classifier.ClassDescriptorKind},
		},
		Separator: c.Separator,
		Workers:   c.Workers,
	}
}

// DefaultConfig returns the configuration used without a file or environment
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	config, err := LoadConfigWithViper(v)
	if err != nil {
		panic(err)
	}
	return config
}
