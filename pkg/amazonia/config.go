package amazonia

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the bucket configuration.
const (
	EnvCOGBucket      = "AMAZONIA_COG_BUCKET"
	EnvMetadataBucket = "AMAZONIA_METADATA_BUCKET"
	EnvSTACBucket     = "AMAZONIA_STAC_BUCKET"
	EnvRegion         = "AMAZONIA_REGION"
)

// Buckets names the object-storage buckets holding scene objects.
type Buckets struct {
	// COG holds the band imagery and metadata XML files.
	COG string `yaml:"cog"`
	// Metadata holds the quicklook PNGs, served over HTTPS.
	Metadata string `yaml:"metadata"`
	// STAC holds published STAC documents.
	STAC string `yaml:"stac"`
}

// Config controls where emitted asset hrefs point. It never affects
// geometry or datetime fields.
type Config struct {
	Buckets Buckets `yaml:"buckets"`
	// Region selects the bucket endpoint, empty for us-east-1.
	Region string `yaml:"region"`
}

// DefaultConfig returns the production bucket layout shared with the
// CBERS/Amazonia open-data distribution.
func DefaultConfig() Config {
	return Config{
		Buckets: Buckets{
			COG:      "cbers-pds",
			Metadata: "cbers-meta-pds",
			STAC:     "cbers-stac",
		},
	}
}

// LoadConfig builds a Config from defaults, an optional YAML file and
// environment overrides, in that order of precedence.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("amazonia: reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("amazonia: parsing config %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(EnvCOGBucket); ok {
		cfg.Buckets.COG = v
	}
	if v, ok := os.LookupEnv(EnvMetadataBucket); ok {
		cfg.Buckets.Metadata = v
	}
	if v, ok := os.LookupEnv(EnvSTACBucket); ok {
		cfg.Buckets.STAC = v
	}
	if v, ok := os.LookupEnv(EnvRegion); ok {
		cfg.Region = v
	}

	return cfg, nil
}

// quicklookBase returns the HTTPS endpoint serving the metadata bucket.
func (c Config) quicklookBase() string {
	if c.Region == "" || c.Region == "us-east-1" {
		return "https://s3.amazonaws.com"
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", c.Region)
}
