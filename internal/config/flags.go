package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging and the slow step rate")
	flagSkeleton = flag.String("skeleton", "", "Skeleton definition file (default: built-in humanoid)")
	flagStepRate = flag.Int("step-rate", 0, "Physics steps per simulated second")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSkeleton != "" {
		cfg.Skeleton.Path = *flagSkeleton
	}
	if *flagStepRate > 0 {
		cfg.Physics.StepRate = *flagStepRate
		cfg.Physics.DebugStepRate = *flagStepRate
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
