package spadeploy

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/adamwasila/spadeploy/model"
)

// DriverFile is the compiled request handler in the output directory.
const DriverFile = "index.js"

// CompileDriver transpiles the provider's TypeScript request handler into
// a CommonJS module exporting the entry point the platform invokes: aws
// for AWS, gcf for Google.
func CompileDriver(d Deployment) (string, error) {
	provider := d.Common().Provider

	src, err := model.Handler(string(provider))
	if err != nil {
		return "", errors.Wrapf(ErrUnknownProvider, "%s", provider)
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:     api.LoaderTS,
		Format:     api.FormatCommonJS,
		Target:     api.ES2017,
		Sourcefile: string(provider) + ".ts",
	})
	if len(result.Errors) > 0 {
		return "", errors.Errorf("compiling %s.ts: %s", provider, formatMessages(result.Errors))
	}
	return string(result.Code), nil
}

func formatMessages(msgs []api.Message) string {
	var lines []string
	for _, m := range msgs {
		if m.Location != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		lines = append(lines, m.Text)
	}
	return strings.Join(lines, "; ")
}
