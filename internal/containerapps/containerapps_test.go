package containerapps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *Config {
	return &Config{
		Kind:          Kind,
		Location:      "eastus",
		Name:          "web",
		ResourceGroup: "rg",
		Type:          ResourceType,
		Properties: Properties{
			KubeEnvironmentID: "/subscriptions/0000/resourceGroups/rg/providers/Microsoft.App/managedEnvironments/env",
			Configuration: Configuration{
				Secrets:    []Secret{},
				Registries: []Registry{},
				Ingress: Ingress{
					External:   true,
					TargetPort: 8080,
				},
			},
			Template: Template{
				Containers: []Container{{
					Image: "nginx",
					Env:   []EnvVar{Value("MODE", "prod"), Value("EMPTY", "")},
				}},
				Scale: Scale{MinReplicas: 1},
			},
		},
	}
}

func TestMarshalOmitsEmptyFields(t *testing.T) {
	data, err := Marshal(sampleConfig())
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "kind: containerapp")
	assert.Contains(t, out, "type: Microsoft.Web/containerApps")
	assert.Contains(t, out, "activeRevisionsMode: single")
	assert.Contains(t, out, "transport: auto")
	assert.Contains(t, out, "targetPort: 8080")
	assert.Contains(t, out, "minReplicas: 1")
	assert.NotContains(t, out, "secrets")
	assert.NotContains(t, out, "registries")
	assert.NotContains(t, out, "apiVersion")
	assert.NotContains(t, out, "tags")
	assert.NotContains(t, out, "revisionSuffix")
	assert.NotContains(t, out, "maxReplicas")
	assert.NotContains(t, out, "secretRef")
}

func TestMarshalIsDeterministic(t *testing.T) {
	first, err := Marshal(sampleConfig())
	require.NoError(t, err)
	second, err := Marshal(sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web-containerapps.yml")
	doc, err := WriteFile(path, sampleConfig())
	require.NoError(t, err)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(doc), string(onDisk))

	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "web", cfg.Name)
	assert.Equal(t, RevisionModeSingle, cfg.Properties.Configuration.ActiveRevisionsMode)
	assert.Equal(t, TransportAuto, cfg.Properties.Configuration.Ingress.Transport)
	env := cfg.Properties.Template.Containers[0].Env
	require.Len(t, env, 2)
	require.NotNil(t, env[1].Value)
	assert.Equal(t, "", *env[1].Value)
}

func TestWriteFileBadPath(t *testing.T) {
	_, err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.yml"), sampleConfig())
	assert.Error(t, err)
}

func TestTransportText(t *testing.T) {
	tests := []struct {
		input   string
		want    Transport
		wantErr bool
	}{
		{input: "", want: TransportAuto},
		{input: "auto", want: TransportAuto},
		{input: "HTTP", want: TransportHTTP},
		{input: " http2 ", want: TransportHTTP2},
		{input: "grpc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransport(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Transport("tcp").MarshalText()
	assert.Error(t, err)
}

func TestRevisionModeText(t *testing.T) {
	m, err := ParseRevisionMode("Multiple")
	require.NoError(t, err)
	assert.Equal(t, RevisionModeMultiple, m)

	text, err := RevisionMode("").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "single", string(text))

	_, err = ParseRevisionMode("some")
	assert.True(t, strings.Contains(err.Error(), "expected one of"))
}
