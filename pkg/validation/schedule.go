package validation

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/symbol/symbol-faucet/pkg/config"
)

// ScheduleValidator checks the watchdog cron expression and rate limit settings.
type ScheduleValidator struct{}

func (ScheduleValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors

	if hc := cfg.HealthCheck; hc != nil && hc.Enabled {
		if _, err := cron.ParseStandard(hc.Schedule); err != nil {
			errors = append(errors, ValidationError{
				Field:   "healthCheck.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
		if hc.FailureThreshold < 1 {
			errors = append(errors, ValidationError{
				Field:   "healthCheck.failureThreshold",
				Message: "must be at least 1",
			})
		}
	}

	if rl := cfg.RateLimit; rl != nil && rl.Enabled {
		if rl.RPS <= 0 {
			errors = append(errors, ValidationError{
				Field:   "rateLimit.rps",
				Message: "must be positive",
			})
		}
		if rl.Burst < 1 {
			errors = append(errors, ValidationError{
				Field:   "rateLimit.burst",
				Message: "must be at least 1",
			})
		}
	}

	return errors
}
