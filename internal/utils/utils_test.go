package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		service string
		want    string
	}{
		{name: "bare file", base: "containerapps.yml", service: "web", want: "web-containerapps.yml"},
		{name: "nested file", base: filepath.Join("out", "apps.yaml"), service: "api", want: filepath.Join("out", "api-apps.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.base, tt.service))
		})
	}
}

func TestSanitizeAppName(t *testing.T) {
	assert.Equal(t, "my-web-app", SanitizeAppName("My_Web App"))
	assert.Equal(t, "api-v1", SanitizeAppName("api.v1!"))
	assert.Equal(t, "feature-login", SanitizeAppName("/feature/login/"))
	assert.Len(t, SanitizeAppName("a-very-long-service-name-that-goes-past-the-limit"), 32)
}

func TestValidateAppName(t *testing.T) {
	assert.Empty(t, ValidateAppName("web"))
	assert.NotEmpty(t, ValidateAppName("Web_App"))
	assert.NotEmpty(t, ValidateAppName("a-very-long-service-name-that-goes-past-the-limit"))
}
