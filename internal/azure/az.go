package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/blang/semver/v4"
)

var (
	ErrNotInstalled  = errors.New("az cli is not installed, see https://aka.ms/azure-cli")
	ErrNotLoggedIn   = errors.New("az cli is not logged in, run \"az login\" first")
	ErrVersionTooOld = errors.New("az cli is too old")
	ErrNoFQDN        = errors.New("containerapp has no fqdn")
)

// MinimumVersion is the oldest az release with the containerapp commands.
var MinimumVersion = semver.MustParse("2.37.0")

type Cli struct {
	runner Runner
	logger *slog.Logger
}

func NewCli(runner Runner, logger *slog.Logger) *Cli {
	return &Cli{runner: runner, logger: logger}
}

// CheckInstalled reports whether az is on the PATH.
func CheckInstalled() error {
	if _, err := exec.LookPath("az"); err != nil {
		return ErrNotInstalled
	}
	return nil
}

type AccountUser struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	TenantID  string      `json:"tenantId"`
	IsDefault bool        `json:"isDefault"`
	User      AccountUser `json:"user"`
}

func (az *Cli) run(ctx context.Context, args ...string) (RunResult, error) {
	res, err := az.runner.Run(ctx, NewRunArgs("az", args...))
	if err != nil {
		if isNotLoggedInMessage(res.Stderr) || isNotLoggedInMessage(res.Stdout) {
			return res, ErrNotLoggedIn
		}
		return res, fmt.Errorf("az %s: %w", strings.Join(args[:min(len(args), 2)], " "), err)
	}
	return res, nil
}

func isNotLoggedInMessage(s string) bool {
	return strings.Contains(s, "az login")
}

// Version returns the installed az version.
func (az *Cli) Version(ctx context.Context) (semver.Version, error) {
	res, err := az.run(ctx, "version", "--output", "json")
	if err != nil {
		return semver.Version{}, err
	}

	var versions map[string]any
	if err := json.Unmarshal([]byte(res.Stdout), &versions); err != nil {
		return semver.Version{}, fmt.Errorf("decoding az version: %w", err)
	}
	raw, ok := versions["azure-cli"].(string)
	if !ok {
		return semver.Version{}, errors.New("az version output has no azure-cli entry")
	}
	v, err := semver.ParseTolerant(raw)
	if err != nil {
		return semver.Version{}, fmt.Errorf("parsing az version %q: %w", raw, err)
	}
	return v, nil
}

func (az *Cli) CheckVersion(ctx context.Context) error {
	v, err := az.Version(ctx)
	if err != nil {
		return err
	}
	if v.LT(MinimumVersion) {
		return fmt.Errorf("%w: found %s, need %s or newer", ErrVersionTooOld, v, MinimumVersion)
	}
	az.logger.DebugContext(ctx, "az version", slog.String("version", v.String()))
	return nil
}

// Account returns the active account. ErrNotLoggedIn is returned when az
// asks for a login.
func (az *Cli) Account(ctx context.Context) (Account, error) {
	res, err := az.run(ctx, "account", "show", "--output", "json")
	if err != nil {
		return Account{}, err
	}

	var account Account
	if err := json.Unmarshal([]byte(res.Stdout), &account); err != nil {
		return Account{}, fmt.Errorf("decoding az account: %w", err)
	}
	return account, nil
}

func (az *Cli) SetSubscription(ctx context.Context, subscription string) error {
	_, err := az.run(ctx, "account", "set", "--subscription", subscription)
	return err
}

// Validate checks the az version and login state and optionally switches
// the active subscription.
func (az *Cli) Validate(ctx context.Context, subscription string) (Account, error) {
	if err := az.CheckVersion(ctx); err != nil {
		return Account{}, err
	}
	account, err := az.Account(ctx)
	if err != nil {
		return Account{}, err
	}
	if subscription == "" || subscription == account.Name || subscription == account.ID {
		return account, nil
	}

	az.logger.InfoContext(ctx, "switching subscription",
		slog.String("from", account.Name),
		slog.String("to", subscription))
	if err := az.SetSubscription(ctx, subscription); err != nil {
		return Account{}, err
	}
	return az.Account(ctx)
}

// EnvironmentID looks up the resource id of a ContainerApps environment.
func (az *Cli) EnvironmentID(ctx context.Context, resourceGroup, name string) (string, error) {
	res, err := az.run(ctx,
		"containerapp", "env", "show",
		"--resource-group", resourceGroup,
		"--name", name,
		"--output", "json")
	if err != nil {
		return "", err
	}

	var env struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &env); err != nil {
		return "", fmt.Errorf("decoding containerapp environment: %w", err)
	}
	if env.ID == "" {
		return "", fmt.Errorf("containerapp environment %s has no id", name)
	}
	return env.ID, nil
}

type ingressInfo struct {
	Ingress *struct {
		FQDN string `json:"fqdn"`
	} `json:"ingress"`
}

type containerAppInfo struct {
	Configuration *ingressInfo `json:"configuration"`
	Properties    *struct {
		Configuration *ingressInfo `json:"configuration"`
	} `json:"properties"`
}

func (i containerAppInfo) fqdn() string {
	if i.Properties != nil && i.Properties.Configuration != nil && i.Properties.Configuration.Ingress != nil {
		return i.Properties.Configuration.Ingress.FQDN
	}
	if i.Configuration != nil && i.Configuration.Ingress != nil {
		return i.Configuration.Ingress.FQDN
	}
	return ""
}

// CreateContainerApp deploys a rendered ContainerApp document and returns
// the app's FQDN.
func (az *Cli) CreateContainerApp(ctx context.Context, name, resourceGroup, path string) (string, error) {
	res, err := az.run(ctx,
		"containerapp", "create",
		"--name", name,
		"--resource-group", resourceGroup,
		"--yaml", path,
		"--output", "json")
	if err != nil {
		return "", err
	}

	var info containerAppInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return "", fmt.Errorf("decoding containerapp %s: %w", name, err)
	}
	fqdn := info.fqdn()
	if fqdn == "" {
		return "", fmt.Errorf("%w: %s", ErrNoFQDN, name)
	}
	return fqdn, nil
}
