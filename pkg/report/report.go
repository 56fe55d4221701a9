// Package report packages a result directory into a zip archive and an HTML summary, and
// describes both as report links.
package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-anvio/pkg/kbase"
)

const (
	// ArchiveName is the name of the result archive.
	ArchiveName = "anvio_result.zip"
	// HTMLName is the name of the HTML summary.
	HTMLName = "report.html"

	archiveDescription = "Files generated by ANVIO App"
	htmlDescription    = "HTML summary report for kb_anvio App"
)

// Bundle is a packaged result directory.
type Bundle struct {
	ResultDir   string
	ArchivePath string
	HTMLPath    string
}

// Packager packages result directories into Scratch.
type Packager struct {
	Scratch string
	// Template is the path of the HTML template. The embedded template is used when empty.
	Template string
}

// NewPackager creates a packager with the embedded template.
func NewPackager(scratch string) *Packager {
	return &Packager{Scratch: scratch}
}

func (p *Packager) outputDir() (string, error) {
	dir := filepath.Join(p.Scratch, uuid.NewString())
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", errors.Wrapf(err, "unable to create %s", dir)
	}

	return dir, nil
}

// Package builds the archive and the HTML summary of resultDir. assemblyPath is the FASTA file
// summarised in the overview; an unreadable assembly only leaves the overview empty.
func (p *Packager) Package(ctx context.Context, resultDir, assemblyPath string) (*Bundle, error) {
	archiveDir, err := p.outputDir()
	if err != nil {
		return nil, err
	}
	htmlDir, err := p.outputDir()
	if err != nil {
		return nil, err
	}
	bundle := &Bundle{
		ResultDir:   resultDir,
		ArchivePath: filepath.Join(archiveDir, ArchiveName),
		HTMLPath:    filepath.Join(htmlDir, HTMLName),
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.Go(func() error {
		log.Printf("packing result files into %s", bundle.ArchivePath)
		return writeArchive(dCtx, resultDir, bundle.ArchivePath)
	})
	errGrp.Go(func() error {
		log.Printf("generating html report %s", bundle.HTMLPath)
		return p.writeHTML(resultDir, assemblyPath, bundle.HTMLPath)
	})

	err = errGrp.Wait()
	if err != nil {
		return nil, errors.Wrap(err, "unable to package results")
	}

	return bundle, nil
}

// FileLinks describes the archive as a report attachment.
func (b *Bundle) FileLinks() []kbase.LinkFile {
	return []kbase.LinkFile{link(b.ArchivePath, archiveDescription)}
}

// HTMLLinks describes the HTML summary as a report attachment.
func (b *Bundle) HTMLLinks() []kbase.LinkFile {
	return []kbase.LinkFile{link(b.HTMLPath, htmlDescription)}
}

func link(path, description string) kbase.LinkFile {
	name := filepath.Base(path)

	return kbase.LinkFile{
		Path:        path,
		Name:        name,
		Label:       name,
		Description: description,
	}
}
