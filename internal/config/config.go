// Package config contains functions for loading and validating the
// converter options and the server config.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// use a single instance per struct family, it caches struct info
var (
	uni             *ut.UniversalTranslator
	validate        *validator.Validate
	optionsValidate *validator.Validate
	registerOnce    sync.Once
)

func init() {
	en := en.New()
	uni = ut.New(en, en)
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("port", validatePort)

	optionsValidate = validator.New(validator.WithRequiredStructEnabled())
	optionsValidate.RegisterValidation("resourceid", validateResourceID)
	optionsValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" && name != "-" {
			return name
		}
		return fld.Name
	})
}

type Database struct {
	Host     string `validate:"required,hostname_rfc1123"`
	Port     string `validate:"required,port"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`
}

// EnvConfig configures the conversion server. The history database is
// optional and only validated when DB_HOST is set.
type EnvConfig struct {
	Environment string    `validate:"omitempty,oneof=development production"`
	Port        string    `validate:"required,port"`
	Database    *Database `validate:"omitempty"`
}

func loadWithDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		val = def
	}
	return val
}

func LoadEnvConfig() (EnvConfig, error) {
	conf := EnvConfig{
		Environment: loadWithDefault("ENVIRONMENT", "development"),
		Port:        loadWithDefault("PORT", "8080"),
	}
	if os.Getenv("DB_HOST") != "" {
		conf.Database = &Database{
			Host:     loadWithDefault("DB_HOST", ""),
			Port:     loadWithDefault("DB_PORT", "5432"),
			Name:     loadWithDefault("DB_NAME", ""),
			User:     loadWithDefault("DB_USER", ""),
			Password: loadWithDefault("DB_PASSWORD", ""),
		}
	}

	trans, err := translator()
	if err != nil {
		return conf, err
	}

	err = validate.Struct(conf)
	if err != nil {
		return conf, translateErrors(err, trans)
	}

	return conf, nil
}

func translator() (ut.Translator, error) {
	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("failed to find translator")
	}

	registerOnce.Do(func() {
		registerEnvTranslations(trans)
		registerOptionTranslations(trans)
	})
	return trans, nil
}

func registerEnvTranslations(trans ut.Translator) {
	en_translations.RegisterDefaultTranslations(validate, trans)
	validate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "environment variable {0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", toEnvName(fe.StructNamespace()))

		return t
	})
	validate.RegisterTranslation("port", trans, func(ut ut.Translator) error {
		return ut.Add("port", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("port", toEnvName(fe.StructNamespace()))
		return fmt.Sprintf("invalid %s (%s) - expected an int between 1 and 65535", t, fe.Value())
	})
	validate.RegisterTranslation("hostname_rfc1123", trans, func(ut ut.Translator) error {
		return ut.Add("hostname_rfc1123", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("hostname_rfc1123", toEnvName(fe.StructNamespace()))
		return fmt.Sprintf("invalid %s (%s) - expected a valid hostname", t, fe.Value())
	})
	validate.RegisterTranslation("oneof", trans, func(ut ut.Translator) error {
		return ut.Add("oneof", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", toEnvName(fe.StructNamespace()))
		return fmt.Sprintf("invalid %s (%s) - expected one of: %s", t, fe.Value(), fe.Param())
	})
}

func translateErrors(err error, trans ut.Translator) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var msg strings.Builder
	for _, err := range validationErrors {
		msg.WriteString(err.Translate(trans))
		msg.WriteString("\n")
	}
	return errors.New(strings.TrimSuffix(msg.String(), "\n"))
}

func toEnvName(field string) string {
	var sb strings.Builder
	field = strings.TrimPrefix(field, "EnvConfig.")
	field = strings.TrimPrefix(field, "Options.")

	field, found := strings.CutPrefix(field, "Database.")
	if found {
		sb.WriteString("DB_")
	}

	for idx := range len(field) {
		char := string(field[idx])
		if strings.ToUpper(char) == char && idx != 0 {
			_, _ = sb.WriteString("_")
		}
		_, _ = sb.WriteString(strings.ToUpper(char))
	}

	return sb.String()
}

func validatePort(fl validator.FieldLevel) bool {
	v, err := strconv.ParseUint(fl.Field().String(), 10, 16)
	return err == nil && v > 0
}

func validateResourceID(fl validator.FieldLevel) bool {
	_, err := arm.ParseResourceID(fl.Field().String())
	return err == nil
}
