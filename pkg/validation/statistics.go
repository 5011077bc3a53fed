package validation

import (
	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/statistics"
)

type StatisticsValidator struct{}

func (StatisticsValidator) Validate(cfg *config.Schema) ValidationErrors {
	var errors ValidationErrors
	stats := cfg.Statistics
	if stats == nil || stats.URL == "" {
		return nil
	}

	if msg := checkHTTPURL(stats.URL); msg != "" {
		errors = append(errors, ValidationError{
			Field:   "statistics.url",
			Message: msg,
		})
	}

	filter, err := statistics.ParseFilter(stats.Filter)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "statistics.filter",
			Message: "must be one of: preferred, suggested",
		})
		return errors
	}

	criteria := statistics.NodeSearchCriteria{Filter: filter, Limit: stats.Limit, SSL: stats.SSL}
	if err := criteria.Validate(); err != nil {
		errors = append(errors, ValidationError{
			Field:   "statistics.limit",
			Message: err.Error(),
		})
	}
	return errors
}
