package spadeploy

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	IndexHTML                 = "index.html"
	ServiceWorkerManifestFile = "ngsw.json"
)

// Google Cloud Functions serve the app under the function name.
const googleBasePath = "/gcf/"

var (
	baseTag   = regexp.MustCompile(`<base href="[^"]*"\s*/?>`)
	envScript = regexp.MustCompile(`<script>var ENV = [^<]*;</script>`)
)

// BasePath is the URL path the app is served under, with leading and
// trailing slashes.
func BasePath(d Deployment) (string, error) {
	switch d := d.(type) {
	case *AWSDeployment:
		return "/" + d.Stage + "/", nil
	case *GoogleDeployment:
		return googleBasePath, nil
	}
	return "", errors.Wrapf(ErrUnknownProvider, "base path for %T", d)
}

// RewriteIndex returns appDir/index.html with its first base tag pointing
// at the deployment's base path and, when the deployment has an
// environment, a script defining it as ENV injected before </head>. The
// result is unchanged by a second rewrite.
func RewriteIndex(d Deployment, appDir string) (string, error) {
	base, err := BasePath(d)
	if err != nil {
		return "", err
	}

	data, err := ioutil.ReadFile(filepath.Join(appDir, IndexHTML))
	if err != nil {
		return "", errors.Wrap(err, "reading index")
	}
	index := string(data)

	if loc := baseTag.FindStringIndex(index); loc != nil {
		index = index[:loc[0]] + `<base href="` + base + `">` + index[loc[1]:]
	}

	if env := d.Common().Environment; env != nil {
		js, err := json.Marshal(env)
		if err != nil {
			return "", errors.Wrap(err, "encoding environment")
		}
		script := "<script>var ENV = " + string(js) + ";</script>"

		// A page rewritten before keeps its script, with the new environment.
		if loc := envScript.FindStringIndex(index); loc != nil {
			index = index[:loc[0]] + script + index[loc[1]:]
		} else if ix := strings.Index(index, "</head>"); ix != -1 {
			index = index[:ix] + script + index[ix:]
		}
	}

	return index, nil
}
