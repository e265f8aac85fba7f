package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagColors  = flag.Bool("colors", false, "Parse the colored OBJ dialect")
	flagWorkers = flag.Int("workers", 0, "Concurrent loads for batch commands")
	flagOut     = flag.String("out", "", "Output directory for dumped buffers")
	flagRoot    = flag.String("root", "", "Additional asset root directory")
	flagLogFile = flag.String("log", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
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
	if *flagColors {
		cfg.Loader.Colors = true
	}
	if *flagWorkers > 0 {
		cfg.Loader.Workers = *flagWorkers
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagRoot != "" {
		cfg.Assets.Roots = append(cfg.Assets.Roots, *flagRoot)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
