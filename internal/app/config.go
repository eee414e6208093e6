package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/pargrid/internal/fixtures"
	"github.com/specialistvlad/pargrid/internal/report"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 10

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath string `validate:"required_without=Fixture,excluded_with=Fixture"` // hcl file or directory
	Fixture   string `validate:"omitempty,fixture"`
	// Set holds "port.path=value" assignments for unconnected inputs.
	Set []string `validate:"dive,assignment"`

	Workers      int    `validate:"min=1"`
	Output       string `validate:"oneof=text json yaml"`
	PlanOnly     bool
	SnapshotPath string

	MonitorURL      string `validate:"omitempty,url"`
	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"min=0,max=65535"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fixture", func(fl validator.FieldLevel) bool {
		_, ok := fixtures.Get(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("assignment", func(fl validator.FieldLevel) bool {
		path, _, ok := strings.Cut(fl.Field().String(), "=")
		return ok && strings.TrimSpace(path) != ""
	})
	return v
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Output == "" {
		cfg.Output = report.FormatText
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, errorMessage(fe))
			}
			return nil, errors.New(strings.Join(msgs, "; "))
		}
		return nil, err
	}
	return &cfg, nil
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_without":
		return "either a model path or a fixture name is required"
	case "excluded_with":
		return "a model path and a fixture name cannot be used together"
	case "fixture":
		return fmt.Sprintf("unknown fixture %q (available: %s)", fe.Value(), strings.Join(fixtures.Names(), ", "))
	case "assignment":
		return fmt.Sprintf("invalid assignment %q: expected path=value", fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid %s %q: must be one of %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		return fmt.Sprintf("invalid %s %v: out of range", fe.Field(), fe.Value())
	case "url":
		return fmt.Sprintf("invalid %s %q: must be a URL", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("invalid %s: failed %s validation", fe.Field(), fe.Tag())
	}
}
