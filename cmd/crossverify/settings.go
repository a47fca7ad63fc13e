package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output format constants.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// envPrefix prefixes every environment variable, e.g. CROSSVERIFY_CHANNEL.
const envPrefix = "CROSSVERIFY"

// hexBytes is a byte string given in hex on the command line or in the
// environment.
type hexBytes []byte

// settings is the resolved configuration of one invocation. Flags take
// precedence over the environment, which takes precedence over the config
// file.
type settings struct {
	Channel     string        `mapstructure:"channel"`
	Side        string        `mapstructure:"side"`
	Message     string        `mapstructure:"message"`
	MessageHex  hexBytes      `mapstructure:"message-hex"`
	Context     string        `mapstructure:"context"`
	MasterSeed  hexBytes      `mapstructure:"master-seed"`
	XMSS        string        `mapstructure:"xmss"`
	Parallel    int           `mapstructure:"parallel"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Output      string        `mapstructure:"output"`
	Verbose     bool          `mapstructure:"verbose"`
	Quiet       bool          `mapstructure:"quiet"`
	LogFile     string        `mapstructure:"log-file"`
	MetricsFile string        `mapstructure:"metrics-file"`

	// Set when the value came from a flag, the environment or a file, so
	// an explicit empty message or context differs from the default.
	messageSet bool
	contextSet bool
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.String("env-file", ".env", "dotenv file loaded into the environment if present")
	fs.String("channel", "/tmp", "blob channel: directory, file://dir, mem:// or redis://host:port/db")
	fs.String("side", "subject", "side this process plays (subject|reference)")
	fs.String("message", "", "message to sign (default: family message)")
	fs.String("message-hex", "", "message to sign, hex encoded")
	fs.String("context", "", "ML-DSA signing context (default: \"test\")")
	fs.String("master-seed", "", "hex secret seeds are derived from (default: counting seeds)")
	fs.String("xmss", "SHA2_10", "XMSS parameter set as HASH_HEIGHT, e.g. SHAKE256_16")
	fs.Int("parallel", 0, "families verified at once by 'all' (0: all)")
	fs.Duration("timeout", 10*time.Minute, "overall timeout")
	fs.StringP("output", "o", OutputText, "output format (text|json)")
	fs.BoolP("verbose", "v", false, "enable debug logging")
	fs.BoolP("quiet", "q", false, "only log warnings and errors")
	fs.String("log-file", "", "also write JSON logs to this file, rotated")
	fs.String("metrics-file", "", "write Prometheus metrics to this textfile")
}

// hexHook decodes hex strings into hexBytes fields.
func hexHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(hexBytes(nil)) || from.Kind() != reflect.String {
			return data, nil
		}
		s := strings.TrimPrefix(strings.TrimSpace(data.(string)), "0x")
		if s == "" {
			return hexBytes(nil), nil
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %w", err)
		}
		return hexBytes(b), nil
	}
}

func decoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			hexHook(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// loadSettings binds the root flags to v, reads the optional dotenv and
// config files and decodes the result.
func loadSettings(v *viper.Viper, cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s, decoderOption()); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	s.messageSet = isSet(v, flags, "message") || isSet(v, flags, "message-hex")
	s.contextSet = isSet(v, flags, "context")

	if s.Output != OutputText && s.Output != OutputJSON {
		return nil, fmt.Errorf("invalid output format %q: must be %s or %s", s.Output, OutputText, OutputJSON)
	}
	if s.Verbose && s.Quiet {
		return nil, errors.New("--verbose and --quiet are mutually exclusive")
	}
	if s.Message != "" && len(s.MessageHex) > 0 {
		return nil, errors.New("--message and --message-hex are mutually exclusive")
	}
	return &s, nil
}

// isSet reports whether key was given explicitly. Bound flags always
// count as set in viper, so the flag's Changed state is checked too.
func isSet(v *viper.Viper, flags *pflag.FlagSet, key string) bool {
	if f := flags.Lookup(key); f != nil && f.Changed {
		return true
	}
	if _, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))); ok {
		return true
	}
	return v.InConfig(key)
}

// message returns the message to sign, or nil for the family default.
func (s *settings) message() []byte {
	if !s.messageSet {
		return nil
	}
	if len(s.MessageHex) > 0 {
		return s.MessageHex
	}
	return []byte(s.Message)
}
