package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/diegorribeiro/metaclean/internal/ffmpeg"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// MetaCleanConfig is the user-supplied configuration for the tool.
// Everything has a working default: with no config file and no
// environment overrides the tool behaves exactly like its stock
// distribution (ffmpeg discovered next to the executable or on PATH,
// five minute remux timeout).
type MetaCleanConfig struct {
	// FfmpegBinPath pins the external transcoder to an exact binary.
	// When set, no fallback lookup is performed; a missing binary at
	// this path is a hard, user-diagnosable error.
	FfmpegBinPath  string `yaml:"ffmpeg_bin" env:"FFMPEG_BIN"`
	FfprobeBinPath string `yaml:"ffprobe_bin" env:"FFPROBE_BIN"`

	// RemuxTimeout bounds a single ffmpeg invocation. Zero disables
	// the bound entirely.
	RemuxTimeout time.Duration `yaml:"remux_timeout" env:"REMUX_TIMEOUT" env-default:"5m"`
}

// LoadFromFile reads a YAML configuration file (with env overrides
// applied on top) in to this config. A missing file is not an error;
// defaults and environment variables alone are a valid configuration.
func (config *MetaCleanConfig) LoadFromFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cleanenv.ReadEnv(config)
	}

	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration from %s - %v", configPath, err.Error())
	}

	return nil
}

// FfmpegConfig expands user-friendly paths (~/...) and re-shapes the
// config for the ffmpeg package.
func (config *MetaCleanConfig) FfmpegConfig() ffmpeg.Config {
	return ffmpeg.Config{
		FfmpegBinPath:  expandPath(config.FfmpegBinPath),
		FfprobeBinPath: expandPath(config.FfprobeBinPath),
		Timeout:        config.RemuxTimeout,
	}
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}

	return expanded
}
