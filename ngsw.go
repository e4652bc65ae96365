package spadeploy

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ServiceWorkerManifest is a decoded Angular service worker manifest
// (ngsw.json). Fields this package does not touch are kept as they are.
type ServiceWorkerManifest map[string]interface{}

// LoadServiceWorkerManifest reads appDir/ngsw.json. The boolean is false,
// with no error, when the app has no service worker.
func LoadServiceWorkerManifest(appDir string) (ServiceWorkerManifest, bool, error) {
	data, err := os.ReadFile(filepath.Join(appDir, ServiceWorkerManifestFile))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "reading service worker manifest")
	}

	var m ServiceWorkerManifest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, false, errors.Wrap(err, "decoding service worker manifest")
	}
	return m, true, nil
}

// Rebase moves every absolute asset-group URL and hash table key under
// base, which must start and end with a slash.
func (m ServiceWorkerManifest) Rebase(base string) {
	if groups, ok := m["assetGroups"].([]interface{}); ok {
		for _, g := range groups {
			group, ok := g.(map[string]interface{})
			if !ok {
				continue
			}
			urls, ok := group["urls"].([]interface{})
			if !ok {
				continue
			}
			for i, u := range urls {
				if s, ok := u.(string); ok {
					urls[i] = rebaseURL(s, base)
				}
			}
		}
	}

	if table, ok := m["hashTable"].(map[string]interface{}); ok {
		rebased := make(map[string]interface{}, len(table))
		for k, v := range table {
			rebased[rebaseURL(k, base)] = v
		}
		m["hashTable"] = rebased
	}
}

// Rehash replaces the hash table entry for url with the SHA-1 of content.
// URLs missing from the table are left alone.
func (m ServiceWorkerManifest) Rehash(url string, content []byte) {
	table, ok := m["hashTable"].(map[string]interface{})
	if !ok {
		return
	}
	if _, ok := table[url]; !ok {
		return
	}
	sum := sha1.Sum(content)
	table[url] = hex.EncodeToString(sum[:])
}

func (m ServiceWorkerManifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "encoding service worker manifest")
	}
	return buf.Bytes(), nil
}

// RewriteServiceWorkerManifest returns appDir/ngsw.json rebased onto the
// deployment's base path. The boolean is false when there is nothing to
// rewrite.
func RewriteServiceWorkerManifest(d Deployment, appDir string) (string, bool, error) {
	base, err := BasePath(d)
	if err != nil {
		return "", false, err
	}
	m, ok, err := LoadServiceWorkerManifest(appDir)
	if err != nil || !ok {
		return "", false, err
	}
	m.Rebase(base)
	data, err := m.Marshal()
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func rebaseURL(url, base string) string {
	if strings.HasPrefix(url, "/") {
		return base + url[1:]
	}
	return url
}
