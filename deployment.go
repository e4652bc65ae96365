package spadeploy

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Provider names a serverless platform.
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderGoogle Provider = "google"
)

// descriptor is the deployment file as written by the user, before it is
// split into a provider-specific Deployment.
type descriptor struct {
	Provider        Provider          `yaml:"provider"`
	Region          string            `yaml:"region"`
	Service         string            `yaml:"service"`
	Stage           string            `yaml:"stage"`
	App             string            `yaml:"app"`
	Tenant          string            `yaml:"tenant"`
	Environment     map[string]string `yaml:"environment"`
	Credentials     string            `yaml:"credentials"`
	Project         string            `yaml:"project"`
	DomainName      string            `yaml:"domainName"`
	CertificateName string            `yaml:"certificateName"`
}

// Settings are shared by every provider.
type Settings struct {
	Provider    Provider
	Region      string
	Service     string
	Stage       string // Optional for Google.
	App         string // Serverless dashboard app, optional.
	Tenant      string // Serverless dashboard tenant, optional.
	Environment map[string]string
}

// Common returns the provider-independent settings.
func (s Settings) Common() Settings {
	return s
}

// Deployment is a validated deployment target, either *AWSDeployment or
// *GoogleDeployment. It is read-only once loaded.
type Deployment interface {
	Common() Settings
	requirements(m Messages) []requirement
}

// AWSDeployment deploys to AWS Lambda behind API Gateway.
type AWSDeployment struct {
	Settings
	DomainName      string
	CertificateName string
}

func (d *AWSDeployment) requirements(m Messages) []requirement {
	return []requirement{
		{d.Stage != "", m.MissingStage, false},
		{d.CertificateName == "" || d.DomainName != "", m.UnusedCertificate, true},
	}
}

// GoogleDeployment deploys to Google Cloud Functions.
type GoogleDeployment struct {
	Settings
	Credentials string
	Project     string
}

func (d *GoogleDeployment) requirements(m Messages) []requirement {
	return []requirement{
		{d.Credentials != "", m.MissingCredentials, false},
		{d.Project != "", m.MissingProject, false},
		{d.Stage != "", m.OmittedStage, true},
	}
}

type requirement struct {
	ok       bool
	message  string
	advisory bool // Reported as a warning instead of an error.
}

// Loader reads and validates deployment descriptors.
type Loader struct {
	Messages Messages
}

// Load parses a YAML or JSON deployment descriptor and validates it. Every
// check runs, so a single call reports all the problems at once. The
// returned Deployment is nil when the file can't be read or the provider
// is unknown.
func (l *Loader) Load(fileName string) (Deployment, Diagnostics) {
	var diag Diagnostics

	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		diag.Error(err.Error())
		return nil, diag
	}

	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		diag.Error(err.Error())
		return nil, diag
	}

	settings := Settings{
		Provider:    desc.Provider,
		Region:      desc.Region,
		Service:     desc.Service,
		Stage:       desc.Stage,
		App:         desc.App,
		Tenant:      desc.Tenant,
		Environment: desc.Environment,
	}

	var deployment Deployment
	switch desc.Provider {
	case ProviderAWS:
		deployment = &AWSDeployment{
			Settings:        settings,
			DomainName:      desc.DomainName,
			CertificateName: desc.CertificateName,
		}
	case ProviderGoogle:
		deployment = &GoogleDeployment{
			Settings:    settings,
			Credentials: desc.Credentials,
			Project:     desc.Project,
		}
	default:
		diag.Error(l.Messages.BadProvider)
	}

	reqs := []requirement{
		{settings.Region != "", l.Messages.MissingRegion, false},
		{settings.Service != "", l.Messages.MissingService, false},
	}
	if deployment != nil {
		reqs = append(reqs, deployment.requirements(l.Messages)...)
	}
	for _, r := range reqs {
		switch {
		case r.ok:
		case r.advisory:
			diag.Warn(r.message)
		default:
			diag.Error(r.message)
		}
	}

	return deployment, diag
}
