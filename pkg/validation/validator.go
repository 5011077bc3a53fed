package validation

import (
	"fmt"
	"strings"

	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
)

// ValidationError represents a validation error with a specific field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var errMsgs []string
	for _, err := range e {
		errMsgs = append(errMsgs, err.Error())
	}
	return strings.Join(errMsgs, "; ")
}

// SectionValidator validates one part of the configuration.
type SectionValidator interface {
	Validate(cfg *config.Schema) ValidationErrors
}

// ConfigValidator runs every registered section validator.
type ConfigValidator struct {
	validators []SectionValidator
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		validators: []SectionValidator{
			&GlobalValidator{},
			&NetworkValidator{},
			&StatisticsValidator{},
			&ScheduleValidator{},
		},
	}
}

// ValidateConfig validates the entire configuration schema
func (v *ConfigValidator) ValidateConfig(cfg *config.Schema) error {
	var allErrors ValidationErrors
	for _, validator := range v.validators {
		allErrors = append(allErrors, validator.Validate(cfg)...)
	}
	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

type GlobalValidator struct{}

func (GlobalValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors
	logger.Debugf("validating global config: %+v", cfg.Global)

	if cfg.Global.ListenAddr == "" {
		errors = append(errors, ValidationError{
			Field:   "global.listenAddr",
			Message: "cannot be empty",
		})
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Global.LogLevel)] {
		errors = append(errors, ValidationError{
			Field:   "global.logLevel",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	return errors
}
