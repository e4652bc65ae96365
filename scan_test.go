package spadeploy_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwasila/spadeploy"
)

func TestScan(t *testing.T) {
	s := spadeploy.Scanner{Messages: messages, ListFiles: true}
	files, diag := s.Scan("testdata/app")

	want := []string{
		"testdata/app/assets/logo.svg",
		"testdata/app/index.html",
		"testdata/app/main.js",
		"testdata/app/ngsw.json",
		"testdata/app/styles.css",
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Scan() files mismatch (-want +got):\n%s", diff)
	}
	if len(diag.Errors) != 0 || len(diag.Warnings) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diag)
	}
	if diff := cmp.Diff(want, diag.Infos); diff != "" {
		t.Errorf("Scan() infos mismatch (-want +got):\n%s", diff)
	}
}

func TestScanQuiet(t *testing.T) {
	s := spadeploy.Scanner{Messages: messages}
	files, diag := s.Scan("testdata/app")
	if len(files) == 0 {
		t.Fatal("expected files")
	}
	if len(diag.Infos) != 0 {
		t.Errorf("expected no infos, got %v", diag.Infos)
	}
}

func TestScanMissingIndex(t *testing.T) {
	s := spadeploy.Scanner{Messages: messages, ListFiles: true}
	files, diag := s.Scan("testdata/noindex")

	// A nested index.html doesn't count.
	want := []string{"testdata/noindex/main.js", "testdata/noindex/nested/index.html"}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Scan() files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{messages.MissingIndexHTML}, diag.Errors); diff != "" {
		t.Errorf("Scan() errors mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMissingDir(t *testing.T) {
	s := spadeploy.Scanner{Messages: messages, ListFiles: true}
	files, diag := s.Scan("testdata/missing")
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
	if len(diag.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", diag.Errors)
	}
	if !strings.Contains(diag.Errors[0], "no such file or directory") {
		t.Errorf("error %q does not carry the I/O failure", diag.Errors[0])
	}
	if len(diag.Infos) != 0 {
		t.Errorf("expected no infos, got %v", diag.Infos)
	}
}

func TestScanFile(t *testing.T) {
	s := spadeploy.Scanner{Messages: messages}
	files, diag := s.Scan("testdata/app/index.html")
	if len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
	if len(diag.Errors) != 1 || !strings.Contains(diag.Errors[0], "not a directory") {
		t.Errorf("unexpected errors: %v", diag.Errors)
	}
}

func TestScanSymlinkedDir(t *testing.T) {
	target, err := filepath.Abs("testdata/app")
	if err != nil {
		t.Fatal(err)
	}
	dist := filepath.Join(t.TempDir(), "dist")
	if err := os.Symlink(target, dist); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	s := spadeploy.Scanner{Messages: messages}
	files, diag := s.Scan(dist)
	if len(diag.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", diag.Errors)
	}

	var want []string
	for _, name := range []string{"assets/logo.svg", "index.html", "main.js", "ngsw.json", "styles.css"} {
		want = append(want, filepath.Join(dist, filepath.FromSlash(name)))
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("Scan() files mismatch (-want +got):\n%s", diff)
	}
}
