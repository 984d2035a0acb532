package filesystem

import (
	"io"
	"os"

	billy "gopkg.in/src-d/go-billy.v4"
)

// CopyFile copies the file src to dest within fs, replacing dest if it exists
func CopyFile(fs billy.Filesystem, src, dest string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	return fcopy(fs, src, dest, info)
}

func fcopy(fs billy.Filesystem, src, dest string, info os.FileInfo) error {
	s, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
