package report

import (
	_ "embed"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

const (
	overviewToken = "<p>Overview_Content</p>"
	summaryToken  = "Summary_Table_Content"
)

//go:embed templates/report_template.html
var defaultTemplate string

func (p *Packager) template() (string, error) {
	if p.Template == "" {
		return defaultTemplate, nil
	}
	content, err := os.ReadFile(p.Template)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read template %s", p.Template)
	}

	return string(content), nil
}

func overview(assemblyPath string) string {
	if assemblyPath == "" {
		return ""
	}
	sum, err := Summarize(assemblyPath)
	if err != nil {
		log.Printf("no assembly overview: %v", err)
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Assembly: %s</p>\n", html.EscapeString(filepath.Base(assemblyPath)))
	fmt.Fprintf(&b, "<p>Contigs: %d</p>\n", sum.Contigs)
	fmt.Fprintf(&b, "<p>Total length: %d bp</p>\n", sum.TotalLength)
	fmt.Fprintf(&b, "<p>Longest contig: %d bp</p>\n", sum.MaxLength)
	fmt.Fprintf(&b, "<p>N50: %d bp</p>", sum.N50)

	return b.String()
}

// summaryTable lists the files of the result directory relative to it.
func summaryTable(resultDir string) (string, error) {
	var b strings.Builder
	err := filepath.WalkDir(resultDir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if p == resultDir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(resultDir, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td class=\"size\">%d</td></tr>\n", html.EscapeString(filepath.ToSlash(rel)), info.Size())

		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "unable to list %s", resultDir)
	}

	return b.String(), nil
}

func (p *Packager) writeHTML(resultDir, assemblyPath, dst string) error {
	tpl, err := p.template()
	if err != nil {
		return err
	}
	table, err := summaryTable(resultDir)
	if err != nil {
		return err
	}

	replacer := strings.NewReplacer(overviewToken, overview(assemblyPath), summaryToken, table)
	err = os.WriteFile(dst, []byte(replacer.Replace(tpl)), 0o600)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", dst)
	}

	return nil
}
