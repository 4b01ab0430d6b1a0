// Package storage persists uploaded binary assets and returns stable
// retrieval URLs. Two interchangeable backends exist: an S3-compatible
// remote object store and a local filesystem directory served by the web
// tier. Selection happens once, at configuration time; when the remote
// backend is configured, a per-asset failure still falls back to local.
package storage

import (
	"context"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/birlikweb/cms/config"
)

// Backend names recorded on stored asset references.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Object describes one stored asset: a stable retrieval URL and the backend
// that actually served the write.
type Object struct {
	URL     string
	Backend string
}

// Source is one uploaded asset. Open must return a fresh reader from the
// start of the data; the fallback path may consume the source twice.
type Source struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileSource adapts a multipart file part into a Source.
func FileSource(fh *multipart.FileHeader) Source {
	return Source{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// A Backend persists one asset under a logical folder. Store blocks until
// the write completed; uploads are attempted exactly once per backend.
type Backend interface {
	Store(ctx context.Context, folder string, src Source) (Object, error)
}

// New selects the backend once from configuration: remote-with-local-fallback
// when S3 credentials are present, plain local otherwise.
func New(cfg config.AppConfig, log *zap.SugaredLogger) (Backend, error) {
	local, err := NewLocal(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}
	if !cfg.RemoteStorageConfigured() {
		log.Infow("asset storage: local filesystem", "dir", cfg.UploadsDir)
		return local, nil
	}
	remote, err := NewS3(S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.S3PublicBaseURL,
		UsePathStyle:    cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Warnw("asset storage: remote init failed, using local filesystem", "err", err)
		return local, nil
	}
	log.Infow("asset storage: remote object store with local fallback", "bucket", cfg.S3Bucket)
	return &fallbackBackend{remote: remote, local: local, log: log}, nil
}

var filenameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename reduces an original upload name to a safe file name
// component, keeping the extension readable.
func SanitizeFilename(name string) string {
	// strip any path the client sent
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = filenameDisallowed.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = "file"
	}
	return name
}

// fallbackBackend tries the remote store first and falls back to the local
// filesystem for that asset on any remote failure.
type fallbackBackend struct {
	remote Backend
	local  Backend
	log    *zap.SugaredLogger
}

func (f *fallbackBackend) Store(ctx context.Context, folder string, src Source) (Object, error) {
	obj, rerr := f.remote.Store(ctx, folder, src)
	if rerr == nil {
		return obj, nil
	}
	f.log.Warnw("remote asset store failed, falling back to local", "name", src.Name, "err", rerr)

	obj, lerr := f.local.Store(ctx, folder, src)
	if lerr != nil {
		return Object{}, &Error{Name: src.Name, RemoteErr: rerr, LocalErr: lerr}
	}
	return obj, nil
}

// Error reports that every configured backend failed for one asset.
type Error struct {
	Name      string
	RemoteErr error
	LocalErr  error
}

func (e *Error) Error() string {
	return "store " + e.Name + ": remote: " + e.RemoteErr.Error() + "; local: " + e.LocalErr.Error()
}
