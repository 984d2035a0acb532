package filesystem

import (
	"fmt"
	"strings"

	billy "gopkg.in/src-d/go-billy.v4"
)

// RemoveFailure records a file RemoveMatching could not delete
type RemoveFailure struct {
	Name string
	Err  error
}

func (f RemoveFailure) Error() string {
	return fmt.Sprintf("error removing %s: %v", f.Name, f.Err)
}

// RemoveMatching deletes every regular file in dir whose name starts with prefix,
// except keep. A failed delete does not stop the others; failures are returned
// alongside the names that were removed. err is only set when dir can't be listed.
func RemoveMatching(fs billy.Filesystem, dir, prefix, keep string) (removed []string, failures []RemoveFailure, err error) {
	infos, err := fs.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || name == keep || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := fs.Remove(fs.Join(dir, name)); err != nil {
			failures = append(failures, RemoveFailure{Name: name, Err: err})
			continue
		}
		removed = append(removed, name)
	}
	return removed, failures, nil
}
