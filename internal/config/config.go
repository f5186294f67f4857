package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// LibraryDir and OutputDir preselect directories at startup; both may
	// be empty, in which case the user picks them in the UI.
	LibraryDir string `env:"LIBRARY_DIR"`
	OutputDir  string `env:"OUTPUT_DIR"`

	// DefaultFPS is the seconds-to-frame-number divisor. It is a user
	// setting, not the video's encoded rate, and can be changed per
	// session in the UI.
	DefaultFPS  float64 `env:"DEFAULT_FPS"  envDefault:"30"`
	JPEGQuality int     `env:"JPEG_QUALITY" envDefault:"95"`

	DBPath   string `env:"DB_PATH"   envDefault:"./linejudge.db"`
	TempDir  string `env:"TEMP_DIR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
