package logging

import (
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate *validator.Validate
var once sync.Once

// validateConfig checks a Config before the service is built from it.
// Level names are parsed here so a typo fails Initialize instead of
// silently selecting some other level.
func validateConfig(cfg *Config) error {
	const op = "logging.validateConfig"
	if cfg == nil {
		return errors.New(op + ": " + errMsgCfgNotSet)
	}

	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(err, op+": "+errMsgConfigInvalid)
	}

	if cfg.Level != emptyString {
		if _, err := ParseLevel(cfg.Level); err != nil {
			return errors.Wrap(err, op+": "+errMsgConfigInvalid)
		}
	}

	if cfg.RelLogFileDir != emptyString && filepath.IsAbs(cfg.RelLogFileDir) {
		return errors.Errorf("%s: RelLogFileDir must be relative, got %q", op, cfg.RelLogFileDir)
	}

	return nil
}
