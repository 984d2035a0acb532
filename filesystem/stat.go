package filesystem

import (
	"os"

	billy "gopkg.in/src-d/go-billy.v4"
)

// Exists reports whether path exists in fs. Errors other than "does not exist"
// are returned.
func Exists(fs billy.Filesystem, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists in fs and is a directory
func IsDir(fs billy.Filesystem, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether path exists in fs and is not a directory
func IsFile(fs billy.Filesystem, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
