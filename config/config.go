// Package config loads and validates yaml configuration files for the
// daemons.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Load reads the yaml file at path into cfg and validates its
// `validate` struct tags.
func Load(path string, cfg interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return errors.Wrap(err, "decode config file")
	}

	return errors.Wrap(validator.New().Struct(cfg), "validate config")
}
