// Package containerapps contains the Azure ContainerApps resource document
// accepted by `az containerapp create --yaml`.
package containerapps

const (
	ResourceType = "Microsoft.Web/containerApps"
	Kind         = "containerapp"
)

// Config is a single ContainerApp resource.
type Config struct {
	Kind          string            `yaml:"kind,omitempty"`
	APIVersion    string            `yaml:"apiVersion,omitempty"`
	Location      string            `yaml:"location"`
	Name          string            `yaml:"name"`
	ResourceGroup string            `yaml:"resourceGroup,omitempty"`
	Type          string            `yaml:"type"`
	Tags          map[string]string `yaml:"tags,omitempty"`
	Properties    Properties        `yaml:"properties"`
}

type Properties struct {
	KubeEnvironmentID string        `yaml:"kubeEnvironmentId"`
	Configuration     Configuration `yaml:"configuration"`
	Template          Template      `yaml:"template"`
}

type Configuration struct {
	ActiveRevisionsMode RevisionMode `yaml:"activeRevisionsMode"`
	Secrets             []Secret     `yaml:"secrets,omitempty"`
	Ingress             Ingress      `yaml:"ingress"`
	Registries          []Registry   `yaml:"registries,omitempty"`
}

type Secret struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type Registry struct {
	Server            string `yaml:"server"`
	Username          string `yaml:"username"`
	PasswordSecretRef string `yaml:"passwordSecretRef"`
}

type Ingress struct {
	External      bool            `yaml:"external"`
	AllowInsecure bool            `yaml:"allowInsecure"`
	TargetPort    int             `yaml:"targetPort,omitempty"`
	Traffic       []TrafficWeight `yaml:"traffic,omitempty"`
	Transport     Transport       `yaml:"transport"`
}

type TrafficWeight struct {
	RevisionName   string `yaml:"revisionName,omitempty"`
	LatestRevision bool   `yaml:"latestRevision"`
	Weight         int    `yaml:"weight"`
}

type Template struct {
	RevisionSuffix string      `yaml:"revisionSuffix,omitempty"`
	Containers     []Container `yaml:"containers"`
	Scale          Scale       `yaml:"scale"`
}

type Scale struct {
	MinReplicas int `yaml:"minReplicas"`
	MaxReplicas int `yaml:"maxReplicas,omitempty"`
}

type Container struct {
	Image     string     `yaml:"image"`
	Name      string     `yaml:"name,omitempty"`
	Env       []EnvVar   `yaml:"env,omitempty"`
	Resources *Resources `yaml:"resources,omitempty"`
	Command   []string   `yaml:"command,omitempty"`
	Args      []string   `yaml:"args,omitempty"`
}

// EnvVar sets either a literal value or a reference to a configured secret.
type EnvVar struct {
	Name      string  `yaml:"name"`
	Value     *string `yaml:"value,omitempty"`
	SecretRef string  `yaml:"secretRef,omitempty"`
}

type Resources struct {
	CPU    float64 `yaml:"cpu"`
	Memory string  `yaml:"memory"`
}

// Value returns a literal environment entry.
func Value(name, value string) EnvVar {
	return EnvVar{Name: name, Value: &value}
}
