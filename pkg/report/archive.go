package report

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// BinDirSuffix marks the directories whose files are also stored at the root of the archive
// under their directory name.
const BinDirSuffix = "final_bins"

// ArchiveMembers lists the archive names of the files under resultDir in walk order. Every
// file is stored under its base name; files of a bin directory appear a second time as
// <dir>/<name>.
func ArchiveMembers(resultDir string) ([]Member, error) {
	var members []Member
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
		members = append(members, Member{Path: p, Name: entry.Name()})
		dir := filepath.Dir(p)
		if strings.HasSuffix(dir, BinDirSuffix) {
			members = append(members, Member{Path: p, Name: path.Join(filepath.Base(dir), entry.Name())})
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to walk %s", resultDir)
	}

	return members, nil
}

// Member is a file stored in the archive.
type Member struct {
	Path string
	Name string
}

func writeArchive(ctx context.Context, resultDir, dst string) error {
	members, err := ArchiveMembers(resultDir)
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dst)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = addMember(zw, member)
		if err != nil {
			return errors.Wrapf(err, "unable to archive %s", member.Path)
		}
	}

	err = zw.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to finish %s", dst)
	}

	return out.Close()
}

func addMember(zw *zip.Writer, member Member) error {
	in, err := os.Open(member.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = member.Name
	header.Method = zip.Deflate

	wrt, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(wrt, in)

	return err
}
