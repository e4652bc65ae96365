package spadeploy

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/adamwasila/spadeploy/model"
)

// DomainManagerPlugin provisions the custom domain of an AWS deployment.
const DomainManagerPlugin = "serverless-domain-manager"

// Manifest is a serverless.yml document. It is edited in place so the
// template's key order and comments are kept.
type Manifest struct {
	doc yaml.Node
}

// ParseManifest decodes a serverless.yml document, which must be a mapping.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m.doc); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	if m.doc.Kind != yaml.DocumentNode || len(m.doc.Content) != 1 || m.doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("manifest is not a mapping")
	}
	return &m, nil
}

// BuildManifest loads the provider's manifest template and overlays the
// deployment on it.
func BuildManifest(d Deployment) (*Manifest, error) {
	common := d.Common()

	tmpl, err := model.Manifest(string(common.Provider))
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownProvider, "%s", common.Provider)
	}
	m, err := ParseManifest(tmpl)
	if err != nil {
		return nil, errors.Wrapf(err, "%s template", common.Provider)
	}

	m.Set("service", common.Service)
	m.Set("provider.region", common.Region)
	if common.App != "" {
		m.Set("app", common.App)
	}
	if common.Tenant != "" {
		m.Set("tenant", common.Tenant)
	}

	switch d := d.(type) {
	case *AWSDeployment:
		m.Set("provider.stage", d.Stage)
		if d.DomainName == "" {
			m.Delete("custom.customDomain")
			if n := m.lookup("custom"); n != nil && len(n.Content) == 0 {
				m.Delete("custom")
			}
			break
		}
		m.Set("custom.customDomain.domainName", d.DomainName)
		m.Set("custom.customDomain.stage", d.Stage)
		if d.CertificateName != "" {
			m.Set("custom.customDomain.certificateName", d.CertificateName)
		} else {
			m.Delete("custom.customDomain.certificateName")
		}
		m.AddPlugin(DomainManagerPlugin)

	case *GoogleDeployment:
		// Left as written; the google plugin expands ~ on the deploying machine.
		m.Set("provider.credentials", d.Credentials)
		m.Set("provider.project", d.Project)
		if d.Stage != "" {
			m.Set("provider.stage", d.Stage)
		}

	default:
		return nil, errors.Wrapf(ErrUnknownProvider, "%T", d)
	}

	return m, nil
}

// Get returns the scalar at a dotted path.
func (m *Manifest) Get(path string) (string, bool) {
	n := m.lookup(path)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Has reports whether anything is stored at a dotted path.
func (m *Manifest) Has(path string) bool {
	return m.lookup(path) != nil
}

// Set stores a string at a dotted path, creating intermediate mappings.
func (m *Manifest) Set(path string, value string) {
	n := m.root()
	for _, key := range strings.Split(path, ".") {
		if n.Kind != yaml.MappingNode {
			*n = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		child := mappingValue(n, key)
		if child == nil {
			child = &yaml.Node{}
			n.Content = append(n.Content, keyNode(key), child)
		}
		n = child
	}
	n.Kind = yaml.ScalarNode
	n.Tag = "!!str"
	n.Style = 0
	n.Value = value
	n.Content = nil
}

// Delete removes the entry at a dotted path, if any.
func (m *Manifest) Delete(path string) {
	keys := strings.Split(path, ".")
	parent := m.root()
	if len(keys) > 1 {
		parent = m.lookup(strings.Join(keys[:len(keys)-1], "."))
	}
	if parent == nil || parent.Kind != yaml.MappingNode {
		return
	}
	last := keys[len(keys)-1]
	for i := 0; i+1 < len(parent.Content); i += 2 {
		if parent.Content[i].Value == last {
			parent.Content = append(parent.Content[:i], parent.Content[i+2:]...)
			return
		}
	}
}

// Plugins lists the registered serverless plugins.
func (m *Manifest) Plugins() []string {
	n := mappingValue(m.root(), "plugins")
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	var plugins []string
	for _, p := range n.Content {
		plugins = append(plugins, p.Value)
	}
	return plugins
}

// AddPlugin registers a serverless plugin once.
func (m *Manifest) AddPlugin(name string) {
	root := m.root()
	n := mappingValue(root, "plugins")
	if n == nil || n.Kind != yaml.SequenceNode {
		m.Delete("plugins")
		n = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		root.Content = append(root.Content, keyNode("plugins"), n)
	}
	for _, p := range n.Content {
		if p.Value == name {
			return
		}
	}
	n.Content = append(n.Content, keyNode(name))
}

func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&m.doc); err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding manifest")
	}
	return buf.Bytes(), nil
}

func (m *Manifest) root() *yaml.Node {
	return m.doc.Content[0]
}

func (m *Manifest) lookup(path string) *yaml.Node {
	n := m.root()
	for _, key := range strings.Split(path, ".") {
		if n = mappingValue(n, key); n == nil {
			return nil
		}
	}
	return n
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func keyNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
