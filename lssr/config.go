// Configuration for the sockstat reporter

package lssr

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"github.com/emypar/linux-sockstat-reporter/internal/utils"
	"github.com/emypar/linux-sockstat-reporter/procfs"
	"github.com/go-yaml/yaml"
)

// The configuration is stored in one object to make it easy to load it from a
// file. Most of the configuration parameters are based on the file settings and
// a few can be overridden by command line arguments.
//
// The decreasing order of precedence for parameter values:
//   - command line arg (if applicable)
//   - config file
//   - built-in default
//
// Note: the object is loaded from a YAML file, therefore all configuration
// parameters should be public and they should have tag annotations.

const (
	SOCKSTAT_CONFIG_MAX_FILE_SIZE_DEFAULT = "1MiB"

	FORMAT_TEXT = "text"
	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"

	COLOR_AUTO   = "auto"
	COLOR_ALWAYS = "always"
	COLOR_NEVER  = "never"
)

var (
	FormatChoices = []string{FORMAT_TEXT, FORMAT_JSON, FORMAT_YAML}
	ColorChoices  = []string{COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER}
)

type SockstatConfig struct {
	ProcfsRoot string `yaml:"procfs_root"`
	// If empty, <procfs_root>/net/sockstat:
	SockstatPath string `yaml:"sockstat_path"`
	Extended     bool   `yaml:"extended"`
	// Size ceiling for every source, as understood by units.RAMInBytes, e.g.
	// 64KiB, 1MiB; use 0 for no limit:
	MaxFileSize string `yaml:"max_file_size"`
	// If empty, the OS hostname:
	Hostname         string `yaml:"hostname"`
	UseShortHostname bool   `yaml:"use_short_hostname"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
}

type LssrConfig struct {
	SockstatConfig *SockstatConfig `yaml:"sockstat_config"`
	OutputConfig   *OutputConfig   `yaml:"output_config"`
	LoggerConfig   *LoggerConfig   `yaml:"log_config"`
}

func DefaultSockstatConfig() *SockstatConfig {
	return &SockstatConfig{
		ProcfsRoot:  procfs.PROCFS_ROOT_DEFAULT,
		MaxFileSize: SOCKSTAT_CONFIG_MAX_FILE_SIZE_DEFAULT,
	}
}

func DefaultOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format: FORMAT_TEXT,
		Color:  COLOR_AUTO,
	}
}

func DefaultLssrConfig() *LssrConfig {
	return &LssrConfig{
		SockstatConfig: DefaultSockstatConfig(),
		OutputConfig:   DefaultOutputConfig(),
		LoggerConfig:   DefaultLoggerConfig(),
	}
}

func checkChoice(value string, choices []string) error {
	for _, choice := range choices {
		if value == choice {
			return nil
		}
	}
	return fmt.Errorf("%q: invalid value, not in %q", value, choices)
}

// Build the engine configuration:
func (cfg *SockstatConfig) SnapshotConfig() (*procfs.SnapshotConfig, error) {
	snapCfg := procfs.DefaultSnapshotConfig(cfg.ProcfsRoot)
	if cfg.SockstatPath != "" {
		snapCfg.SockstatPath = cfg.SockstatPath
	}
	snapCfg.Extended = cfg.Extended
	if cfg.MaxFileSize != "" {
		maxFileSize, err := units.RAMInBytes(cfg.MaxFileSize)
		if err != nil {
			return nil, fmt.Errorf("max_file_size: %w", err)
		}
		if maxFileSize < 0 {
			return nil, fmt.Errorf("max_file_size: %q: negative value", cfg.MaxFileSize)
		}
		snapCfg.MaxFileSize = maxFileSize
	}
	snapCfg.Hostname = cfg.Hostname
	if snapCfg.Hostname == "" && cfg.UseShortHostname {
		snapCfg.Hostname = utils.Hostname(true)
	}
	return snapCfg, nil
}

func (cfg *LssrConfig) Validate() error {
	if cfg.SockstatConfig == nil {
		cfg.SockstatConfig = DefaultSockstatConfig()
	}
	if cfg.OutputConfig == nil {
		cfg.OutputConfig = DefaultOutputConfig()
	}
	if cfg.LoggerConfig == nil {
		cfg.LoggerConfig = DefaultLoggerConfig()
	}
	if err := checkChoice(cfg.OutputConfig.Format, FormatChoices); err != nil {
		return fmt.Errorf("output_config.format: %w", err)
	}
	if err := checkChoice(cfg.OutputConfig.Color, ColorChoices); err != nil {
		return fmt.Errorf("output_config.color: %w", err)
	}
	if _, err := cfg.SockstatConfig.SnapshotConfig(); err != nil {
		return fmt.Errorf("sockstat_config.%w", err)
	}
	return nil
}

func LoadLssrConfig(cfgFile string) (*LssrConfig, error) {
	f, err := os.Open(cfgFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	cfg := DefaultLssrConfig()
	// An empty file leaves the defaults in place:
	if err = decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}
	return cfg, nil
}

// The command line args, registered with a flag set:
type LssrArgs struct {
	ConfigFile *string

	ProcfsRoot   *StringFlagCheckUsed
	SockstatPath *StringFlagCheckUsed
	Extended     *BoolFlagCheckUsed
	MaxFileSize  *StringFlagCheckUsed
	Hostname     *StringFlagCheckUsed

	Format *StringFlagCheckUsed
	Color  *StringFlagCheckUsed

	LogLevel   *StringFlagCheckUsed
	LogUseJson *BoolFlagCheckUsed
}

func NewLssrArgs(fs *flag.FlagSet) *LssrArgs {
	return &LssrArgs{
		ConfigFile: fs.String(
			"config",
			"",
			FormatFlagUsage(`Config file to load; if not specified the built-in defaults are used`),
		),
		ProcfsRoot: NewStringFlagCheckUsed(
			fs,
			"procfs-root",
			procfs.PROCFS_ROOT_DEFAULT,
			`Override config sockstat_config.procfs_root, the root of all sources`,
		),
		SockstatPath: NewStringFlagCheckUsed(
			fs,
			"sockstat-path",
			"",
			`Override config sockstat_config.sockstat_path, the primary source`,
		),
		Extended: NewBoolFlagCheckUsed(
			fs,
			"extended",
			`Override config sockstat_config.extended, load the auxiliary sources:
			sockstat6, netlink, packet, snmp, snmp6 and netstat`,
		),
		MaxFileSize: NewStringFlagCheckUsed(
			fs,
			"max-file-size",
			SOCKSTAT_CONFIG_MAX_FILE_SIZE_DEFAULT,
			`Override config sockstat_config.max_file_size, the size ceiling for
			every source, e.g. 64KiB, 1MiB; use 0 for no limit`,
		),
		Hostname: NewStringFlagCheckUsed(
			fs,
			"hostname",
			"",
			`Override config sockstat_config.hostname, the hostname reported in metadata`,
		),
		Format: NewStringFlagCheckUsed(
			fs,
			"format",
			FORMAT_TEXT,
			fmt.Sprintf(`Override config output_config.format, one of %q`, FormatChoices),
			FormatChoices...,
		),
		Color: NewStringFlagCheckUsed(
			fs,
			"color",
			COLOR_AUTO,
			fmt.Sprintf(`Override config output_config.color for the text format, one of %q`, ColorChoices),
			ColorChoices...,
		),
		LogLevel: NewStringFlagCheckUsed(
			fs,
			"log-level",
			DEFAULT_LOG_LEVEL.String(),
			fmt.Sprintf(`Override config log_config.level, it should be one of the %s values`, GetLogLevelNames()),
		),
		LogUseJson: NewBoolFlagCheckUsed(
			fs,
			"log-json-format",
			`Override config log_config.use_json, enable log in JSON format`,
		),
	}
}

var CommandLineArgs = NewLssrArgs(flag.CommandLine)

// Apply the args used on the command line:
func (args *LssrArgs) Override(cfg *LssrConfig) {
	if cfg.SockstatConfig == nil {
		cfg.SockstatConfig = DefaultSockstatConfig()
	}
	if cfg.OutputConfig == nil {
		cfg.OutputConfig = DefaultOutputConfig()
	}
	if cfg.LoggerConfig == nil {
		cfg.LoggerConfig = DefaultLoggerConfig()
	}

	sockstatCfg := cfg.SockstatConfig
	if args.ProcfsRoot.Used {
		sockstatCfg.ProcfsRoot = args.ProcfsRoot.Value
	}
	if args.SockstatPath.Used {
		sockstatCfg.SockstatPath = args.SockstatPath.Value
	}
	if args.Extended.Used {
		sockstatCfg.Extended = args.Extended.Value
	}
	if args.MaxFileSize.Used {
		sockstatCfg.MaxFileSize = args.MaxFileSize.Value
	}
	if args.Hostname.Used {
		sockstatCfg.Hostname = args.Hostname.Value
	}

	outputCfg := cfg.OutputConfig
	if args.Format.Used {
		outputCfg.Format = args.Format.Value
	}
	if args.Color.Used {
		outputCfg.Color = args.Color.Value
	}

	loggerCfg := cfg.LoggerConfig
	if args.LogLevel.Used {
		loggerCfg.Level = args.LogLevel.Value
	}
	if args.LogUseJson.Used {
		loggerCfg.UseJson = args.LogUseJson.Value
	}
}

// Load the config file, if one was given, else use the defaults, then apply
// the overrides and validate the result:
func (args *LssrArgs) LoadConfig() (*LssrConfig, error) {
	var (
		cfg *LssrConfig
		err error
	)
	if *args.ConfigFile != "" {
		if cfg, err = LoadLssrConfig(*args.ConfigFile); err != nil {
			return nil, err
		}
	} else {
		cfg = DefaultLssrConfig()
	}
	args.Override(cfg)
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadLssrConfigFromArgs() (*LssrConfig, error) {
	return CommandLineArgs.LoadConfig()
}
