// Package config loads the bittrex CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvAPIKey     = "BITTREX_API_KEY"
	EnvAPISecret  = "BITTREX_API_SECRET"
	EnvBaseURL    = "BITTREX_BASE_URL"
	EnvTimeout    = "BITTREX_TIMEOUT"
	EnvRateLimit  = "BITTREX_RATE_LIMIT"
	EnvRatePeriod = "BITTREX_RATE_PERIOD"
)

// Config holds everything needed to build a client.
type Config struct {
	APIKey     string        `json:"api_key"`
	APISecret  string        `json:"api_secret" validate:"required_with=APIKey"`
	BaseURL    string        `json:"base_url" validate:"omitempty,url"`
	Timeout    time.Duration `json:"timeout" validate:"gte=0"`
	RateLimit  int           `json:"rate_limit" validate:"gt=0"`
	RatePeriod time.Duration `json:"rate_period" validate:"gt=0"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Timeout:    20 * time.Second,
		RateLimit:  60,
		RatePeriod: 60 * time.Second,
	}
}

// Load is Read followed by Validate.
func Load(envFiles ...string) (Config, error) {
	cfg, err := Read(envFiles...)
	if err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Read loads envFiles (".env" if none are given) into the process
// environment without overriding it, then builds a Config from it.
// Missing env files are skipped. The result is not validated, so
// callers can layer flag values on top first.
func Read(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Default()
	cfg.APIKey = os.Getenv(EnvAPIKey)
	cfg.APISecret = os.Getenv(EnvAPISecret)
	cfg.BaseURL = os.Getenv(EnvBaseURL)

	var err error
	if cfg.Timeout, err = durationEnv(EnvTimeout, cfg.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.RatePeriod, err = durationEnv(EnvRatePeriod, cfg.RatePeriod); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if cfg.RateLimit, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvRateLimit, err)
		}
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}

	return d, nil
}

// /////////////////////////////////////////////////////////////////////////////////////////////

var validate *validator.Validate
var translator ut.Translator

// envNames maps Config fields to the variables Read takes them from.
var envNames = map[string]string{
	"APIKey":     EnvAPIKey,
	"APISecret":  EnvAPISecret,
	"BaseURL":    EnvBaseURL,
	"Timeout":    EnvTimeout,
	"RateLimit":  EnvRateLimit,
	"RatePeriod": EnvRatePeriod,
}

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("config: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	// Signing needs both halves of the credentials.
	err := validate.RegisterTranslation("required_with", translator,
		func(ut ut.Translator) error {
			return ut.Add("required_with", "{0} is required when {1} is set, set {2} or pass --secret", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T("required_with", fe.Field(), envNames[fe.Param()], envNames[fe.StructField()])
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// Validate checks cfg against its declared tags.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			fields = append(fields, FieldError{
				Field: verror.Field(),
				Env:   envNames[verror.StructField()],
				Err:   verror.Translate(translator),
			})
		}
		return fields
	}

	return nil
}

// FieldError is a validation failure on one Config field, with the
// environment variable that sets it.
type FieldError struct {
	Field string `json:"field"`
	Env   string `json:"env,omitempty"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		if f.Env != "" {
			parts[i] = f.Env + ": " + f.Err
			continue
		}
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}
