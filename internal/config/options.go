package config

import (
	"fmt"
	"reflect"

	"compose2containerapps/internal/containerapps"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Options carries the values every converted ContainerApp shares. Build it
// once per run and pass it explicitly.
type Options struct {
	ResourceGroup string                     `flag:"resource-group" env:"RESOURCE_GROUP" validate:"required"`
	Location      string                     `flag:"location" env:"LOCATION" validate:"required"`
	EnvironmentID string                     `flag:"containerapps-environment-id" env:"CONTAINERAPPS_ENVIRONMENT_ID" validate:"required,resourceid"`
	Transport     containerapps.Transport    `flag:"transport" env:"TRANSPORT" validate:"omitempty,oneof=auto http http2"`
	RevisionMode  containerapps.RevisionMode `flag:"revisions-mode" env:"REVISIONS_MODE" validate:"omitempty,oneof=single multiple"`
	APIVersion    string                     `flag:"-"`
	Tags          map[string]string          `flag:"tag"`
	Verbose       bool                       `flag:"verbose"`
}

// optionEnv maps a flag name to the environment variable that can supply it.
var optionEnv = func() map[string]string {
	m := map[string]string{}
	t := reflect.TypeOf(Options{})
	for i := range t.NumField() {
		f := t.Field(i)
		if env := f.Tag.Get("env"); env != "" {
			m[f.Tag.Get("flag")] = env
		}
	}
	return m
}()

// EnvName returns the environment variable bound to a flag, if any.
func EnvName(flag string) string {
	return optionEnv[flag]
}

// Validate checks every field and reports all problems at once.
func (o Options) Validate() error {
	trans, err := translator()
	if err != nil {
		return err
	}

	if err := optionsValidate.Struct(o); err != nil {
		return translateErrors(err, trans)
	}
	return nil
}

// WithDefaults fills in the enum defaults.
func (o Options) WithDefaults() Options {
	if o.Transport == "" {
		o.Transport = containerapps.TransportAuto
	}
	if o.RevisionMode == "" {
		o.RevisionMode = containerapps.RevisionModeSingle
	}
	return o
}

func optionLabel(flag string) string {
	if env := EnvName(flag); env != "" {
		return fmt.Sprintf("--%s (or %s)", flag, env)
	}
	return "--" + flag
}

func registerOptionTranslations(trans ut.Translator) {
	optionsValidate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("option_required", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		return fmt.Sprintf("missing required option %s", optionLabel(fe.Field()))
	})
	optionsValidate.RegisterTranslation("resourceid", trans, func(ut ut.Translator) error {
		return ut.Add("option_resourceid", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		return fmt.Sprintf("invalid %s (%s) - expected an Azure resource id", optionLabel(fe.Field()), fe.Value())
	})
	optionsValidate.RegisterTranslation("oneof", trans, func(ut ut.Translator) error {
		return ut.Add("option_oneof", "{0}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		return fmt.Sprintf("invalid %s (%s) - expected one of: %s", optionLabel(fe.Field()), fe.Value(), fe.Param())
	})
}
