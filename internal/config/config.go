// Package config handles objtool configuration loading and management.
package config

// Config holds all objtool settings.
type Config struct {
	Loader  LoaderConfig  `yaml:"loader"`
	Assets  AssetsConfig  `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoaderConfig holds mesh loading settings.
type LoaderConfig struct {
	Colors  bool `yaml:"colors"`  // Parse the colored OBJ dialect
	Workers int  `yaml:"workers"` // Concurrent loads in batch mode
}

// AssetsConfig holds asset source settings.
type AssetsConfig struct {
	Roots []string `yaml:"roots"` // Directories searched for meshes, last has priority
	Cache bool     `yaml:"cache"`
}

// OutputConfig holds buffer dump settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			Colors:  false,
			Workers: 4,
		},
		Assets: AssetsConfig{
			Roots: []string{"."},
			Cache: true,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
