package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	World   WorldConfig   `yaml:"world"`
	Dynamic DynamicConfig `yaml:"dynamic"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// SendBuffer is the number of outgoing frames queued per connection
	SendBuffer   int     `yaml:"send_buffer"`
	PingPeriod   string  `yaml:"ping_period"`
	CommandRate  float64 `yaml:"command_rate"`
	CommandBurst int     `yaml:"command_burst"`
	// Empty means any origin may connect
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type WorldConfig struct {
	Size     int    `yaml:"size"`
	Lake     Rect   `yaml:"lake"`
	MaxDepth int    `yaml:"max_depth"`
	Seed     string `yaml:"seed"`
}

// Rect is an inclusive tile rectangle
type Rect struct {
	X0 int `yaml:"x0"`
	Y0 int `yaml:"y0"`
	X1 int `yaml:"x1"`
	Y1 int `yaml:"y1"`
}

type DynamicConfig struct {
	WeightMin   int `yaml:"weight_min"`
	WeightMax   int `yaml:"weight_max"`
	GemCount    int `yaml:"gem_count"`
	GemBonusMin int `yaml:"gem_bonus_min"`
	GemBonusMax int `yaml:"gem_bonus_max"`
	DoorCount   int `yaml:"door_count"`
}

type StorageConfig struct {
	Type string `yaml:"type"`
	File string `yaml:"file"`
	URL  string `yaml:"url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file or environment overrides are present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			SendBuffer:   256,
			PingPeriod:   "30s",
			CommandRate:  5,
			CommandBurst: 10,
		},
		World: WorldConfig{
			Size:     32,
			Lake:     Rect{X0: 10, Y0: 10, X1: 20, Y1: 20},
			MaxDepth: 7,
			Seed:     "numcom",
		},
		Dynamic: DynamicConfig{
			WeightMin:   1,
			WeightMax:   9,
			GemCount:    24,
			GemBonusMin: 1,
			GemBonusMax: 5,
			DoorCount:   1,
		},
		Storage: StorageConfig{
			Type: StorageMemory,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the defaults, then the YAML file named by CONFIG_FILE (if set),
// then the environment overrides
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto c
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("DB_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Storage.URL = v
	}
	if v := getenv("DB_FILE"); v != "" {
		c.Storage.File = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("WORLD_SEED"); v != "" {
		c.World.Seed = v
	}
	if v := getenv("WORLD_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing WORLD_SIZE: %w", err)
		}
		c.World.Size = size
	}

	// Defaults for the optional backends
	if c.Storage.Type == StorageJSON && c.Storage.File == "" {
		c.Storage.File = "db.json"
	}
	if c.Storage.Type == StoragePostgres && c.Storage.URL == "" {
		c.Storage.URL = "host=localhost user=numcom password=numcom dbname=numcom sslmode=disable"
	}

	return nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Server.Validate())
	el.Add(c.World.Validate())
	el.Add(c.Dynamic.Validate())
	el.Add(c.Storage.Validate())

	return el.Err()
}

func (c *ServerConfig) Validate() error {
	el := errors.NewErrorList()

	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		el.Add(fmt.Errorf("port must be an integer between 1 and 65535"))
	}
	if c.SendBuffer <= 0 {
		el.Add(fmt.Errorf("send_buffer must be positive"))
	}
	if _, err := c.PingInterval(); err != nil {
		el.Add(fmt.Errorf("parsing ping_period: %w", err))
	}
	if c.CommandRate < 0 {
		el.Add(fmt.Errorf("command_rate must not be negative"))
	}
	if c.CommandRate > 0 && c.CommandBurst <= 0 {
		el.Add(fmt.Errorf("command_burst must be positive when command_rate is set"))
	}

	return el.Err()
}

// PingInterval parses PingPeriod
func (c *ServerConfig) PingInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.PingPeriod)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Size <= 0 {
		el.Add(fmt.Errorf("world size must be positive"))
	}
	if c.Lake.X1 <= c.Lake.X0 || c.Lake.Y1 <= c.Lake.Y0 {
		el.Add(fmt.Errorf("lake must span at least two tiles on each axis"))
	}
	if c.Lake.X0 < 0 || c.Lake.Y0 < 0 || c.Lake.X1 >= c.Size || c.Lake.Y1 >= c.Size {
		el.Add(fmt.Errorf("lake must lie inside the %dx%d grid", c.Size, c.Size))
	}
	if c.MaxDepth <= 0 {
		el.Add(fmt.Errorf("max_depth must be positive"))
	}

	return el.Err()
}

func (c *DynamicConfig) Validate() error {
	el := errors.NewErrorList()

	if c.WeightMin < 0 {
		el.Add(fmt.Errorf("weight_min must not be negative"))
	}
	if c.WeightMax < c.WeightMin {
		el.Add(fmt.Errorf("weight_max must not be below weight_min"))
	}
	if c.GemCount < 0 || c.DoorCount < 0 {
		el.Add(fmt.Errorf("artifact counts must not be negative"))
	}
	if c.GemCount > 0 && (c.GemBonusMin <= 0 || c.GemBonusMax < c.GemBonusMin) {
		el.Add(fmt.Errorf("gem bonus range must be positive and ordered"))
	}

	return el.Err()
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()

	switch c.Type {
	case StorageMemory:
	case StorageJSON:
		if c.File == "" {
			el.Add(fmt.Errorf("storage file is required for json storage"))
		}
	case StoragePostgres:
		if c.URL == "" {
			el.Add(fmt.Errorf("storage url is required for postgres storage"))
		}
	default:
		el.Add(fmt.Errorf("unknown storage type %q", c.Type))
	}

	return el.Err()
}
