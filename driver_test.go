package spadeploy_test

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/adamwasila/spadeploy"
)

func TestCompileDriver(t *testing.T) {
	testCases := []struct {
		d       spadeploy.Deployment
		handler string
	}{
		{awsDeployment("dev", nil), "function aws("},
		{googleDeployment(""), "function gcf("},
	}

	for _, tc := range testCases {
		out, err := spadeploy.CompileDriver(tc.d)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{tc.handler, "module.exports", `require("serverx-ts")`, `require("reflect-metadata")`} {
			if !strings.Contains(out, want) {
				t.Errorf("%s driver lacks %s:\n%s", tc.d.Common().Provider, want, out)
			}
		}
		if strings.Contains(out, ": any") {
			t.Errorf("%s driver still has type annotations:\n%s", tc.d.Common().Provider, out)
		}
	}
}

func TestCompileDriverUnknownProvider(t *testing.T) {
	d := awsDeployment("dev", nil)
	d.Provider = "azure"
	if _, err := spadeploy.CompileDriver(d); errors.Cause(err) != spadeploy.ErrUnknownProvider {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}
