package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/convert"
	"compose2containerapps/internal/models"
	"compose2containerapps/internal/pipeline"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCli(t *testing.T, deploy bool, args ...string) *cli {
	t.Helper()
	c := &cli{v: viper.New()}
	cmd := newConvertCmd(c, deploy)
	require.NoError(t, cmd.ParseFlags(args))
	require.NoError(t, c.init(cmd))
	return c
}

func TestOptionsPrecedence(t *testing.T) {
	t.Setenv("RESOURCE_GROUP", "rg-from-env")
	t.Setenv("LOCATION", "westeurope")
	t.Setenv("TRANSPORT", "http2")

	c := newTestCli(t, false, "--location", "eastus", "--tag", "team=web")
	opts, err := c.options()
	require.NoError(t, err)

	assert.Equal(t, "rg-from-env", opts.ResourceGroup)
	assert.Equal(t, "eastus", opts.Location)
	assert.Equal(t, containerapps.TransportHTTP2, opts.Transport)
	assert.Equal(t, map[string]string{"team": "web"}, opts.Tags)
}

func TestOptionsFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resource-group: rg-from-file\nrevisions-mode: multiple\n"), 0o600))

	c := &cli{v: viper.New(), cfgFile: path}
	cmd := newConvertCmd(c, false)
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, c.init(cmd))

	opts, err := c.options()
	require.NoError(t, err)
	assert.Equal(t, "rg-from-file", opts.ResourceGroup)
	assert.Equal(t, containerapps.RevisionModeMultiple, opts.RevisionMode)
}

func TestOptionsParseEnumsInAnyCase(t *testing.T) {
	opts, err := newTestCli(t, false, "--revisions-mode", "Single", "--transport", "HTTP2").options()
	require.NoError(t, err)
	assert.Equal(t, containerapps.RevisionModeSingle, opts.RevisionMode)
	assert.Equal(t, containerapps.TransportHTTP2, opts.Transport)

	_, err = newTestCli(t, false, "--revisions-mode", "several").options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--revisions-mode")

	_, err = newTestCli(t, false, "--transport", "tcp").options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--transport")
}

func TestDeployValidatesAzureByDefault(t *testing.T) {
	assert.False(t, newTestCli(t, false).v.GetBool("validate-azure"))
	assert.True(t, newTestCli(t, true).v.GetBool("validate-azure"))
}

func TestResolverSelection(t *testing.T) {
	assert.IsType(t, convert.StrictResolver{}, newTestCli(t, false).resolver(nil))
	assert.IsType(t, convert.EmptyResolver{}, newTestCli(t, false, "--allow-unset").resolver(nil))
}

func TestParseValues(t *testing.T) {
	values, err := parseValues([]string{"TAG=1.2", "EMPTY=", "URL=http://x?a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TAG": "1.2", "EMPTY": "", "URL": "http://x?a=b"}, values)

	_, err = parseValues([]string{"TAG"})
	assert.Error(t, err)
	_, err = parseValues([]string{"=value"})
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printSummary(&out, pipeline.Report{Outcomes: []models.ServiceOutcome{
		{Name: "web", Path: "web-containerapps.yml", FQDN: "web.example.io"},
		{Name: "worker", Err: errors.New("service has no image")},
	}})

	assert.Contains(t, out.String(), "✓ web → web-containerapps.yml (https://web.example.io)")
	assert.Contains(t, out.String(), "✗ worker: service has no image")
	assert.Contains(t, out.String(), "1 of 2 services failed")
}
