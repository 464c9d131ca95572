package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	projectName     = "compose2containerapps"
	defaultFileName = "docker-compose.yml"
)

var ErrNoServices = errors.New("compose file has no services")

// Read decodes a compose document.
func Read(ctx context.Context, r io.Reader) (*File, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading compose file: %w", err)
	}
	return Parse(ctx, content)
}

// Parse loads a compose document. Variables are left as written, they are
// expanded field by field during conversion.
func Parse(ctx context.Context, content []byte) (*File, error) {
	return load(ctx, ".", defaultFileName, content)
}

func ReadFile(ctx context.Context, path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return load(ctx, filepath.Dir(path), filepath.Base(path), content)
}

func load(ctx context.Context, workingDir, filename string, content []byte) (*File, error) {
	var order struct {
		Services yaml.MapSlice `yaml:"services"`
	}
	if err := yaml.Unmarshal(content, &order); err != nil {
		return nil, fmt.Errorf("parsing compose file: %w", err)
	}
	if len(order.Services) == 0 {
		return nil, ErrNoServices
	}

	var dict map[string]any
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, fmt.Errorf("parsing compose file: %w", err)
	}
	services, ok := dict["services"].(map[string]any)
	if !ok {
		return nil, errors.New("parsing compose file: services must be a mapping")
	}

	failed := map[string]error{}
	for name, raw := range services {
		if err := checkService(raw); err != nil {
			failed[name] = err
			delete(services, name)
		}
	}
	if len(failed) > 0 {
		var err error
		if content, err = yaml.Marshal(dict); err != nil {
			return nil, fmt.Errorf("encoding compose file: %w", err)
		}
	}

	project := &types.Project{Name: projectName, WorkingDir: workingDir}
	if len(services) > 0 {
		var err error
		project, err = loader.LoadWithContext(ctx, types.ConfigDetails{
			WorkingDir:  workingDir,
			ConfigFiles: []types.ConfigFile{{Filename: filename, Content: content}},
			Environment: types.Mapping{},
		}, func(o *loader.Options) {
			o.SetProjectName(projectName, true)
			o.SkipInterpolation = true
			o.SkipValidation = true
			o.SkipNormalization = true
			o.SkipConsistencyCheck = true
			o.SkipResolveEnvironment = true
		})
		if err != nil {
			return nil, fmt.Errorf("loading compose file: %w", err)
		}
	}

	file := &File{Project: project, Services: make(Services, 0, len(order.Services))}
	for _, item := range order.Services {
		name := fmt.Sprint(item.Key)
		if err, ok := failed[name]; ok {
			file.Services = append(file.Services, NamedService{Name: name, Err: err})
			continue
		}
		svc, ok := project.Services[name]
		if !ok {
			svc, ok = project.DisabledServices[name]
		}
		if !ok {
			file.Services = append(file.Services, NamedService{Name: name, Err: fmt.Errorf("service %s was not loaded", name)})
			continue
		}
		file.Services = append(file.Services, NamedService{Name: name, Service: svc})
	}
	return file, nil
}

// checkService catches the errors that would otherwise fail loading the
// whole file.
func checkService(raw any) error {
	svc, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return nil
		}
		return fmt.Errorf("service definition must be a mapping, got %T", raw)
	}

	ports, ok := svc["ports"].([]any)
	if !ok {
		return nil
	}
	for _, item := range ports {
		if err := checkPortEntry(item); err != nil {
			return fmt.Errorf("parsing port %v: %w", item, err)
		}
	}
	return nil
}

// LoadDotEnv reads the .env file that sits next to the compose file. A
// missing file yields an empty map.
func LoadDotEnv(composePath string) (map[string]string, error) {
	path := filepath.Join(filepath.Dir(composePath), ".env")
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}
