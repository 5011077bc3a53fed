package statistics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type Filter string

const (
	Preferred Filter = "preferred"
	Suggested Filter = "suggested"
)

// NodeSearchCriteria parameterises GET /nodes on the statistics service.
type NodeSearchCriteria struct {
	Filter Filter `json:"filter" validate:"required,oneof=preferred suggested"`
	Limit  int    `json:"limit" validate:"min=1,max=1000"`
	SSL    *bool  `json:"ssl,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func (c NodeSearchCriteria) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s=%s (got %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid node search criteria: %s", strings.Join(msgs, "; "))
}

// ParseFilter is case-insensitive and rejects anything but preferred/suggested.
func ParseFilter(value string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(value))) {
	case Preferred:
		return Preferred, nil
	case Suggested:
		return Suggested, nil
	}
	return "", fmt.Errorf("unsupported node filter: %q", value)
}
