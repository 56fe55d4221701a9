package kbase

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/mapping"
)

const (
	gzipExt   = ".gz"
	snappyExt = ".sz"
)

// ErrEmptyRef is returned for an empty reference.
var ErrEmptyRef = errors.New("empty reference")

// Local serves every collaborator call from the filesystem. References are file paths.
//
// A read library reference is "path", "path#layout" or "forward,reverse" for a paired library
// stored in two files. A bare path is an interleaved library.
type Local struct {
	Scratch string
}

// NewLocal creates a local collaborator writing into scratch.
func NewLocal(scratch string) *Local {
	return &Local{Scratch: scratch}
}

func (l *Local) stagingDir() (string, error) {
	dir := filepath.Join(l.Scratch, uuid.NewString())
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", errors.Wrapf(err, "unable to create %s", dir)
	}

	return dir, nil
}

// GetAssemblyAsFasta copies the FASTA file at ref into scratch.
func (l *Local) GetAssemblyAsFasta(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", errors.Wrap(ErrEmptyRef, "assembly")
	}
	dir, err := l.stagingDir()
	if err != nil {
		return "", err
	}

	return copyFile(ref, filepath.Join(dir, filepath.Base(ref)))
}

// UnpackFile decompresses gzip and snappy framed files next to the original.
func (l *Local) UnpackFile(_ context.Context, path string) (string, error) {
	switch filepath.Ext(path) {
	case gzipExt:
		return unpack(path, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case snappyExt:
		return unpack(path, func(r io.Reader) (io.Reader, error) {
			return snappy.NewReader(r), nil
		})
	}

	return path, nil
}

// DownloadReads copies the files of every library into scratch, unpacking them on the way.
func (l *Local) DownloadReads(ctx context.Context, refs []string) (map[string]ReadLibrary, error) {
	libs := make(map[string]ReadLibrary, len(refs))
	for _, ref := range refs {
		lib, err := ParseReadsRef(ref)
		if err != nil {
			return nil, err
		}
		dir, err := l.stagingDir()
		if err != nil {
			return nil, err
		}
		lib.Fwd, err = l.stage(ctx, lib.Fwd, dir)
		if err != nil {
			return nil, errors.Wrapf(err, "library %s", ref)
		}
		if lib.Rev != "" {
			lib.Rev, err = l.stage(ctx, lib.Rev, dir)
			if err != nil {
				return nil, errors.Wrapf(err, "library %s", ref)
			}
		}
		log.Debug.Printf("staged %s library %s", lib.Layout, ref)
		libs[ref] = lib
	}

	return libs, nil
}

func (l *Local) stage(ctx context.Context, src, dir string) (string, error) {
	dst, err := copyFile(src, filepath.Join(dir, filepath.Base(src)))
	if err != nil {
		return "", err
	}

	return l.UnpackFile(ctx, dst)
}

// CreateExtendedReport writes the report as JSON into scratch. Its ref is the JSON path.
func (l *Local) CreateExtendedReport(_ context.Context, params ReportParams) (*ReportInfo, error) {
	err := os.MkdirAll(l.Scratch, 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s", l.Scratch)
	}
	path := filepath.Join(l.Scratch, params.ReportObjectName+".json")

	content, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode report")
	}
	err = os.WriteFile(path, content, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to write report %s", path)
	}

	return &ReportInfo{Name: params.ReportObjectName, Ref: path}, nil
}

// ParseReadsRef parses a local read library reference.
func ParseReadsRef(ref string) (ReadLibrary, error) {
	lib := ReadLibrary{Ref: ref, Layout: mapping.Interleaved}
	path := ref
	if before, tag, found := strings.Cut(ref, "#"); found {
		layout, err := mapping.ParseLayout(tag)
		if err != nil {
			return lib, errors.Wrapf(err, "library %s", ref)
		}
		path, lib.Layout = before, layout
	}
	if fwd, rev, found := strings.Cut(path, ","); found {
		path, lib.Rev, lib.Layout = fwd, rev, mapping.Paired
	}
	lib.Fwd = path
	if lib.Fwd == "" || (lib.Layout == mapping.Paired && lib.Rev == "") {
		return lib, errors.Wrapf(ErrEmptyRef, "library %q", ref)
	}

	return lib, nil
}

func copyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrapf(err, "unable to create %s", dst)
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	if err != nil {
		return "", errors.Wrapf(err, "unable to copy %s", src)
	}

	return dst, out.Close()
}

func unpack(path string, open func(io.Reader) (io.Reader, error)) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s", path)
	}
	defer in.Close()

	rdr, err := open(in)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read %s", path)
	}

	dst := strings.TrimSuffix(path, filepath.Ext(path))
	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrapf(err, "unable to create %s", dst)
	}
	defer out.Close()

	_, err = io.Copy(out, rdr) //nolint:gosec // inputs are trusted local files
	if err != nil {
		return "", errors.Wrapf(err, "unable to unpack %s", path)
	}

	return dst, out.Close()
}

var _ Services = (*Local)(nil)
