// Package config handles engine configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets"`
	Map      MapConfig      `yaml:"map"`
	Sprites  SpritesConfig  `yaml:"sprites"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// AssetsConfig holds asset search paths.
type AssetsConfig struct {
	// Roots are searched in reverse order (last entry wins).
	Roots []string `yaml:"roots"`
}

// MapConfig selects the map the demo loads.
type MapConfig struct {
	// Name of a map description under the asset roots. Empty means a
	// procedural map is generated instead.
	Name string `yaml:"name"`
	// Procedural generation parameters, used when Name is empty.
	Seed   int64 `yaml:"seed"`
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
}

// SpritesConfig holds sprite atlas settings.
type SpritesConfig struct {
	// PageSize is the preferred atlas page extent. Must be a power of
	// two; oversized sprites force larger pages.
	PageSize int `yaml:"page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Assets: AssetsConfig{
			Roots: []string{"assets"},
		},
		Map: MapConfig{
			Name:   "",
			Seed:   1,
			Width:  64,
			Height: 64,
		},
		Sprites: SpritesConfig{
			PageSize: 1024,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
