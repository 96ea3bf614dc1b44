package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/DaoSolary/Desaparecidos/pkg/domain/model/config"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

// Scoring holds CLI flags for duplicate scoring configuration
type Scoring struct {
	configPath string
}

// Flags returns CLI flags for scoring configuration
func (s *Scoring) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scoring-config",
			Usage:       "Path to a TOML file with scoring weights and threshold (stock values when unset)",
			Sources:     cli.EnvVars("DESAPARECIDOS_SCORING_CONFIG"),
			Destination: &s.configPath,
		},
	}
}

// ConfigPath returns the scoring configuration file path
func (s *Scoring) ConfigPath() string {
	return s.configPath
}

// Configure loads the scoring configuration, falling back to the stock
// weights and threshold when no file is given.
func (s *Scoring) Configure() (*domainConfig.ScoringConfig, error) {
	if s.configPath == "" {
		return domainConfig.DefaultScoringConfig(), nil
	}

	cfg, err := LoadScoringConfig(s.configPath)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Loaded scoring configuration",
		"path", s.configPath,
		"threshold", cfg.Threshold,
	)
	return cfg, nil
}

// scoringFile mirrors the TOML layout of the scoring configuration file
type scoringFile struct {
	Threshold *float64        `toml:"threshold"`
	Weights   *weightsSection `toml:"weights"`
}

type weightsSection struct {
	Name        *float64 `toml:"name"`
	MissingDate *float64 `toml:"missing_date"`
	Province    *float64 `toml:"province"`
	Age         *float64 `toml:"age"`
}

// LoadScoringConfig loads scoring weights and the detection threshold
// from a TOML file. Fields absent from the file keep their stock values.
func LoadScoringConfig(path string) (*domainConfig.ScoringConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "scoring config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read scoring config file", goerr.V(ConfigPathKey, path))
	}

	var file scoringFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	cfg := domainConfig.DefaultScoringConfig()
	if file.Threshold != nil {
		cfg.Threshold = *file.Threshold
	}
	if file.Weights != nil {
		if file.Weights.Name != nil {
			cfg.Weights.Name = *file.Weights.Name
		}
		if file.Weights.MissingDate != nil {
			cfg.Weights.MissingDate = *file.Weights.MissingDate
		}
		if file.Weights.Province != nil {
			cfg.Weights.Province = *file.Weights.Province
		}
		if file.Weights.Age != nil {
			cfg.Weights.Age = *file.Weights.Age
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "scoring config validation failed", goerr.V(ConfigPathKey, path))
	}

	return cfg, nil
}
