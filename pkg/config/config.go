package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	ListenAddr   string
	MetricsAddr  string
	LogLevel     string
	ShutdownWait time.Duration
	SafeLogging  bool

	Algorithm       string
	Personalization string

	SeedInterval time.Duration
	SeedGrace    time.Duration
	SeedJitter   time.Duration

	ControlInterval time.Duration
	QueueCapacity   int
	QueueTarget     int
	Workers         int

	EffortMin       uint32
	EffortMax       uint32
	EffortGrowth    float64
	EffortShrink    float64
	EffortDwell     int
	EffortIdleAfter int

	RequestTimeout time.Duration
	ConnTimeout    time.Duration
}

type option struct {
	name  string
	def   any
	usage string
}

// options are read from flags, then from the environment (name upper-cased,
// dashes as underscores), then fall back to the default.
var options = []option{
	{"listen-addr", ":8080", "address the introduction endpoint listens on"},
	{"metrics-addr", ":9090", "address for /metrics; empty disables it"},
	{"log-level", "info", "debug, info, warn or error"},
	{"shutdown-wait", 5 * time.Second, "how long to drain connections on shutdown"},
	{"safe-logging", true, "scrub seed ids and nonces from logs"},
	{"pow-algorithm", "blake2b-v1", "cost function: blake2b-v1, blake3 or sha256-lzb"},
	{"pow-personalization", "intro-pow v1", "string binding puzzles to this endpoint"},
	{"seed-interval", time.Hour, "seed rotation interval"},
	{"seed-grace", 15 * time.Minute, "how long the previous seed stays valid after rotation"},
	{"seed-jitter", 5 * time.Minute, "random extra delay added to each rotation"},
	{"control-interval", 10 * time.Second, "effort controller sampling interval"},
	{"queue-capacity", 1024, "admission queue capacity"},
	{"queue-target", 128, "queue depth the controller steers towards"},
	{"workers", runtime.NumCPU(), "verifier workers"},
	{"effort-min", uint32(64), "first non-zero effort"},
	{"effort-max", uint32(1 << 24), "maximum effort"},
	{"effort-growth", 2.0, "multiplier applied per interval while escalating"},
	{"effort-shrink", 0.5, "multiplier applied per interval while decaying"},
	{"effort-dwell", 2, "intervals a controller mode is held before it may change"},
	{"effort-idle-after", 3, "calm intervals at zero effort before reporting idle"},
	{"request-timeout", 10 * time.Second, "backend time budget per admitted request"},
	{"conn-timeout", 2 * time.Minute, "deadline for one client connection, solving included"},
}

// RegisterFlags adds a flag per option to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, o := range options {
		switch d := o.def.(type) {
		case string:
			fs.String(o.name, d, o.usage)
		case bool:
			fs.Bool(o.name, d, o.usage)
		case int:
			fs.Int(o.name, d, o.usage)
		case uint32:
			fs.Uint32(o.name, d, o.usage)
		case float64:
			fs.Float64(o.name, d, o.usage)
		case time.Duration:
			fs.Duration(o.name, d, o.usage)
		default:
			panic(fmt.Sprintf("config: unsupported default for %q", o.name))
		}
	}
}

// Load resolves every option. fs may be nil; flags absent from it are
// simply not consulted.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	for _, o := range options {
		v.SetDefault(o.name, o.def)
		if fs == nil {
			continue
		}
		if f := fs.Lookup(o.name); f != nil {
			if err := v.BindPFlag(o.name, f); err != nil {
				return Config{}, err
			}
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		ListenAddr:      v.GetString("listen-addr"),
		MetricsAddr:     v.GetString("metrics-addr"),
		LogLevel:        v.GetString("log-level"),
		ShutdownWait:    v.GetDuration("shutdown-wait"),
		SafeLogging:     v.GetBool("safe-logging"),
		Algorithm:       v.GetString("pow-algorithm"),
		Personalization: v.GetString("pow-personalization"),
		SeedInterval:    v.GetDuration("seed-interval"),
		SeedGrace:       v.GetDuration("seed-grace"),
		SeedJitter:      v.GetDuration("seed-jitter"),
		ControlInterval: v.GetDuration("control-interval"),
		QueueCapacity:   v.GetInt("queue-capacity"),
		QueueTarget:     v.GetInt("queue-target"),
		Workers:         v.GetInt("workers"),
		EffortMin:       v.GetUint32("effort-min"),
		EffortMax:       v.GetUint32("effort-max"),
		EffortGrowth:    v.GetFloat64("effort-growth"),
		EffortShrink:    v.GetFloat64("effort-shrink"),
		EffortDwell:     v.GetInt("effort-dwell"),
		EffortIdleAfter: v.GetInt("effort-idle-after"),
		RequestTimeout:  v.GetDuration("request-timeout"),
		ConnTimeout:     v.GetDuration("conn-timeout"),
	}
	return cfg, cfg.Validate()
}

// Validate reports every problem at once. Unparsable durations and numbers
// arrive here as zero and are caught as non-positive.
func (c Config) Validate() error {
	var err error
	check := func(ok bool, msg string) {
		if !ok {
			err = multierr.Append(err, errors.New(msg))
		}
	}
	check(c.ListenAddr != "", "listen-addr must be set")
	check(c.ShutdownWait > 0, "shutdown-wait must be positive")
	check(c.Algorithm != "", "pow-algorithm must be set")
	check(c.SeedInterval > 0, "seed-interval must be positive")
	check(c.SeedGrace >= 0, "seed-grace must not be negative")
	check(c.SeedGrace <= c.SeedInterval, "seed-grace must not exceed seed-interval")
	check(c.SeedJitter >= 0, "seed-jitter must not be negative")
	check(c.ControlInterval > 0, "control-interval must be positive")
	check(c.QueueCapacity > 0, "queue-capacity must be positive")
	check(c.QueueTarget >= 0 && c.QueueTarget < c.QueueCapacity, "queue-target must be in [0, queue-capacity)")
	check(c.Workers > 0, "workers must be positive")
	check(c.EffortMin > 0, "effort-min must be positive")
	check(c.EffortMax >= c.EffortMin, "effort-max must be >= effort-min")
	check(c.EffortGrowth > 1, "effort-growth must be > 1")
	check(c.EffortShrink > 0 && c.EffortShrink < 1, "effort-shrink must be in (0,1)")
	check(c.EffortDwell >= 1, "effort-dwell must be at least 1")
	check(c.EffortIdleAfter >= 1, "effort-idle-after must be at least 1")
	check(c.RequestTimeout > 0, "request-timeout must be positive")
	check(c.ConnTimeout > 0, "conn-timeout must be positive")
	return err
}
