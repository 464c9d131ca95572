// Package utils contains utility functions
package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

const maxAppNameLength = 32

// OutputPath returns the file a service is rendered to: the base file name
// prefixed with the service name, in the base file's directory.
func OutputPath(base, service string) string {
	dir, file := filepath.Split(base)
	return filepath.Join(dir, fmt.Sprintf("%s-%s", service, file))
}

// SanitizeAppName lowercases name and replaces characters ContainerApps
// does not accept in resource names.
func SanitizeAppName(name string) string {
	sanitized := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"/", "-",
		"_", "-",
		" ", "-",
		".", "-",
		"#", "",
		"!", "",
		"@", "",
	)
	sanitized = strings.Trim(replacer.Replace(sanitized), "-")
	if len(sanitized) > maxAppNameLength {
		sanitized = strings.TrimRight(sanitized[:maxAppNameLength], "-")
	}
	return sanitized
}

// ValidateAppName lists the reasons name cannot be used as a ContainerApp
// name. An empty result means the name is valid.
func ValidateAppName(name string) []string {
	errs := validation.IsDNS1123Label(name)
	if len(name) > maxAppNameLength {
		errs = append(errs, fmt.Sprintf("must be no more than %d characters", maxAppNameLength))
	}
	return errs
}
