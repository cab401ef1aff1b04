package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup. Feed URLs and
// file paths come from YAML; credentials come from the environment.
type Config struct {
	Server ServerConfig      `yaml:"server"`
	Feeds  map[string]string `yaml:"feeds"`
	Alerts AlertsConfig      `yaml:"alerts"`
	Static StaticConfig      `yaml:"static"`

	// APIKey is read from MTA_API_KEY, never from the file.
	APIKey string `yaml:"-"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type AlertsConfig struct {
	URL string `yaml:"url"`
}

type StaticConfig struct {
	URL  string   `yaml:"url"`
	Path string   `yaml:"path"`
	TTL  Duration `yaml:"ttl"`
}

// Duration lets YAML scalars use time.ParseDuration syntax ("24h").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Load reads the YAML config at path and applies defaults and
// environment overrides. A missing file is not an error: the defaults
// alone describe the production MTA endpoints.
func Load(path string) (*Config, error) {
	cfg := defaults()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Static.TTL == 0 {
		cfg.Static.TTL = Duration(24 * time.Hour)
	}
	if port := os.Getenv("API_PORT"); port != "" {
		cfg.Server.Port = port
	}
	cfg.APIKey = os.Getenv("MTA_API_KEY")

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Feeds: map[string]string{
			"ACE":     "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace",
			"BDFM":    "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm",
			"G":       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g",
			"JZ":      "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz",
			"NQRW":    "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw",
			"1234567": "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs",
			"L":       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l",
			"SIR":     "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-si",
		},
		Alerts: AlertsConfig{
			URL: "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/camsys%2Fsubway-alerts",
		},
		Static: StaticConfig{
			URL:  "http://web.mta.info/developers/data/nyct/subway/google_transit.zip",
			Path: "google_transit.zip",
			TTL:  Duration(24 * time.Hour),
		},
	}
}
