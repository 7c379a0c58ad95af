package risk

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
)

// Config holds the thresholds the rule table is built from. The values are
// domain knowledge, not logic, so they live in data and can be overridden
// from a YAML file without touching the cascade.
type Config struct {
	BogotaMaxDays      int      `yaml:"bogota_max_days"`
	CoastalMaxDays     int      `yaml:"coastal_max_days"`
	CoastalCities      []string `yaml:"coastal_cities"`
	StalledUrgentHours float64  `yaml:"stalled_urgent_hours"`
	StalledWatchHours  float64  `yaml:"stalled_watch_hours"`
	PeripheralZones    []string `yaml:"peripheral_zones"`
}

// DefaultConfig returns the built-in thresholds.
func DefaultConfig() Config {
	return Config{
		BogotaMaxDays:      4,
		CoastalMaxDays:     6,
		CoastalCities:      []string{"CALI", "CARTAGENA"},
		StalledUrgentHours: 72,
		StalledWatchHours:  48,
		PeripheralZones:    []string{"USME", "BOSA", "SOACHA", "CIUDAD BOLIVAR", "SAN CRISTOBAL"},
	}
}

// LoadConfig reads threshold overrides from a YAML file. An empty path or a
// missing file yields the defaults; keys absent from the file keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, common.WrapError(err, "read risk rules")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), common.WrapError(err, "parse risk rules")
	}
	return cfg, nil
}
