// Package bundle runs manifest-driven asset collection: load every listed
// asset, then deliver the set as loose files, as a single archive, or as
// an archive shipped to object storage.
package bundle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	v1 "github.com/assetkit/assetkit/apis/v1"
	"github.com/assetkit/assetkit/pkg/archive"
	"github.com/assetkit/assetkit/pkg/asset"
)

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// ParseJob parses and validates a YAML bundle manifest. The name (usually
// the manifest path) annotates decode errors with their position.
func ParseJob(name string, data []byte) (v1.BundleJob, error) {
	src := asset.NewSourceFile(name, string(data))

	var job v1.BundleJob
	if err := src.DecodeYAML(&job); err != nil {
		return v1.BundleJob{}, fmt.Errorf("parse bundle job: %w", err)
	}
	if err := defaultValidator.Struct(job); err != nil {
		return v1.BundleJob{}, fmt.Errorf("validate bundle job: %w", err)
	}
	if out := job.Spec.Output; (out.Directory == nil) == (out.Archive == nil) {
		return v1.BundleJob{}, fmt.Errorf("validate bundle job: output needs exactly one of directory or archive")
	}
	return job, nil
}

// Runner executes one bundle job.
type Runner struct {
	logger        *zap.Logger
	store         *asset.Store
	job           v1.BundleJob
	newUploadSink func(ctx context.Context, spec v1.S3Spec) (Sink, error)
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithStore replaces the asset store, typically with one over an
// in-memory filesystem.
func WithStore(store *asset.Store) RunnerOption {
	return func(r *Runner) { r.store = store }
}

// WithUploadSinkFactory replaces how the upload sink is built; tests plug
// a recorder in here.
func WithUploadSinkFactory(factory func(ctx context.Context, spec v1.S3Spec) (Sink, error)) RunnerOption {
	return func(r *Runner) { r.newUploadSink = factory }
}

// New builds a Runner for job.
func New(logger *zap.Logger, job v1.BundleJob, opts ...RunnerOption) *Runner {
	r := &Runner{logger: logger, job: job}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		r.store = asset.NewStore()
	}
	if r.newUploadSink == nil {
		r.newUploadSink = func(ctx context.Context, spec v1.S3Spec) (Sink, error) {
			return NewS3Sink(ctx, spec)
		}
	}
	return r
}

// Run collects every asset and delivers the configured output.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("running bundle job",
		zap.String("job", r.job.Metadata.Name),
		zap.Int("assets", len(r.job.Spec.Assets)))

	out := r.job.Spec.Output
	switch {
	case out.Directory != nil:
		sink, err := NewDirectorySink(out.Directory.Path)
		if err != nil {
			return err
		}
		if err := r.collect(ctx, sink); err != nil {
			return err
		}
		return sink.Close(ctx)
	case out.Archive != nil:
		return r.runArchive(ctx, *out.Archive)
	default:
		return fmt.Errorf("bundle job %q has no output", r.job.Metadata.Name)
	}
}

// collect loads each asset and writes it into sink under its bundle
// name.
func (r *Runner) collect(ctx context.Context, sink Sink) error {
	for _, spec := range r.job.Spec.Assets {
		a, err := r.store.Load(ctx, spec.Origin)
		if err != nil {
			return fmt.Errorf("collect asset %s: %w", spec.Origin, err)
		}
		name := a.Filename
		if spec.Rename != "" {
			name = spec.Rename
		}
		r.logger.Debug("collected asset",
			zap.String("origin", spec.Origin),
			zap.String("name", name),
			zap.Int("bytes", len(a.Contents)))
		if err := sink.Write(ctx, name, bytes.NewReader(a.Contents)); err != nil {
			return fmt.Errorf("store asset %s in %s: %w", spec.Origin, sink.Name(), err)
		}
	}
	return nil
}

func (r *Runner) runArchive(ctx context.Context, spec v1.ArchiveSpec) error {
	format, err := archive.ParseFormat(spec.Format)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp("", "assetkit-bundle-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	sink, err := NewDirectorySink(staging)
	if err != nil {
		return err
	}
	if err := r.collect(ctx, sink); err != nil {
		return err
	}

	r.logger.Info("writing archive",
		zap.String("dest", spec.Path),
		zap.String("format", string(format)),
		zap.String("prefix", spec.Prefix))
	req := archive.Request{SourceDir: staging, DestPath: spec.Path, RootPrefix: spec.Prefix}
	if err := archive.Create(format, req); err != nil {
		return fmt.Errorf("archive bundle: %w", err)
	}

	if spec.Upload == nil {
		return nil
	}
	return r.upload(ctx, spec.Path, *spec.Upload)
}

func (r *Runner) upload(ctx context.Context, archivePath string, spec v1.S3Spec) error {
	sink, err := r.newUploadSink(ctx, spec)
	if err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	key := spec.Key
	if key == "" {
		key = filepath.Base(archivePath)
	}
	r.logger.Info("uploading archive",
		zap.String("sink", sink.Name()),
		zap.String("key", key))
	if err := sink.Write(ctx, key, f); err != nil {
		return err
	}
	return sink.Close(ctx)
}
