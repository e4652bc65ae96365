package spadeploy

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/goware/prefixer"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ManifestFile is the generated serverless manifest.
const ManifestFile = "serverless.yml"

// Pipeline packages a web app for a deployment and hands it to the
// deploy tool.
type Pipeline struct {
	conf   Config
	client Client
	log    zerolog.Logger

	// Task output is copied here, prefixed with the task name.
	Stdout io.Writer
	Stderr io.Writer
}

func NewPipeline(conf Config, client Client, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		conf:   conf,
		client: client,
		log:    log,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run validates the descriptor and the app, then assembles the output
// directory and runs the install and deploy tasks in it. Nothing is
// written when validation fails; a later failure leaves the output
// directory as it is.
func (p *Pipeline) Run() error {
	d, files, err := p.Validate()
	if err != nil {
		return err
	}

	generated, err := p.generate(d)
	if err != nil {
		return err
	}

	if err := p.assemble(files, generated); err != nil {
		return err
	}

	tasks, err := p.createTasks()
	if err != nil {
		return err
	}
	for _, task := range tasks {
		p.log.Info().Str("task", task.Name).Str("command", task.String()).Msg("running")
		if err := p.runTask(task); err != nil {
			return err
		}
	}

	if p.conf.DryRun {
		p.log.Info().Str("out", p.conf.OutDir).Msg("dry run, skipped deploy")
	}
	return nil
}

// Validate loads the descriptor and scans the app directory, logging
// everything found. It returns ErrValidation if anything is fatal.
func (p *Pipeline) Validate() (Deployment, []string, error) {
	loader := Loader{Messages: p.conf.Messages}
	scanner := Scanner{Messages: p.conf.Messages, ListFiles: p.conf.ListFiles}

	d, diag := loader.Load(p.conf.DeployFile)
	files, scanned := scanner.Scan(p.conf.AppDir)
	diag.Merge(scanned)

	for _, msg := range diag.Infos {
		p.log.Info().Msg(msg)
	}
	for _, msg := range diag.Warnings {
		p.log.Warn().Msg(msg)
	}
	for _, msg := range diag.Errors {
		p.log.Error().Msg(msg)
	}

	if err := diag.Err(); err != nil {
		return nil, nil, err
	}
	return d, files, nil
}

// generate renders every file that is written to the output directory
// instead of, or besides, the app's own files. Keys are relative paths.
func (p *Pipeline) generate(d Deployment) (map[string][]byte, error) {
	generated := map[string][]byte{}

	index, err := RewriteIndex(d, p.conf.AppDir)
	if err != nil {
		return nil, err
	}
	generated[IndexHTML] = []byte(index)

	sw, ok, err := LoadServiceWorkerManifest(p.conf.AppDir)
	if err != nil {
		return nil, err
	}
	if ok {
		base, err := BasePath(d)
		if err != nil {
			return nil, err
		}
		sw.Rebase(base)
		sw.Rehash(base+IndexHTML, generated[IndexHTML])
		if generated[ServiceWorkerManifestFile], err = sw.Marshal(); err != nil {
			return nil, err
		}
	}

	manifest, err := BuildManifest(d)
	if err != nil {
		return nil, err
	}
	if generated[ManifestFile], err = manifest.Marshal(); err != nil {
		return nil, err
	}

	if generated[PackageFile], err = NewPackageJSON(d, manifest.Plugins()).Marshal(); err != nil {
		return nil, err
	}

	driver, err := CompileDriver(d)
	if err != nil {
		return nil, err
	}
	generated[DriverFile] = []byte(driver)

	return generated, nil
}

// assemble clears the output directory, copies the app files into it and
// writes the generated files over them.
func (p *Pipeline) assemble(files []string, generated map[string][]byte) error {
	out := p.conf.OutDir
	if err := os.RemoveAll(out); err != nil {
		return errors.Wrap(err, "clearing output directory")
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	var size int64
	copied := 0
	for _, file := range files {
		rel, err := filepath.Rel(p.conf.AppDir, file)
		if err != nil {
			return errors.Wrapf(err, "copying %s", file)
		}
		if _, ok := generated[filepath.ToSlash(rel)]; ok {
			continue
		}
		n, err := copyFile(filepath.Join(out, rel), file)
		if err != nil {
			return errors.Wrapf(err, "copying %s", file)
		}
		size += n
		copied++
	}

	for name, data := range generated {
		if err := writeFile(filepath.Join(out, filepath.FromSlash(name)), data); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
		size += int64(len(data))
	}

	p.log.Info().
		Str("out", out).
		Int("copied", copied).
		Int("generated", len(generated)).
		Str("size", humanize.Bytes(uint64(size))).
		Msg("assembled")
	return nil
}

// runTask runs a task on the client, streaming its output until it exits.
func (p *Pipeline) runTask(task *Task) error {
	if err := p.client.Run(task); err != nil {
		return err
	}
	prefix, _ := p.client.Prefix()

	var wg sync.WaitGroup

	// Copy over task's STDOUT.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := io.Copy(p.Stdout, prefixer.New(p.client.Stdout(), prefix))
		if err != nil && err != io.EOF {
			p.log.Warn().Err(err).Str("task", task.Name).Msg("STDOUT")
		}
	}()

	// Copy over task's STDERR.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := io.Copy(p.Stderr, prefixer.New(p.client.Stderr(), prefix))
		if err != nil && err != io.EOF {
			p.log.Warn().Err(err).Str("task", task.Name).Msg("STDERR")
		}
	}()

	wg.Wait()
	return p.client.Wait()
}

func copyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// writeFile replaces path atomically with a world-readable file.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, 0644)
}
