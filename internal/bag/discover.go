package bag

import (
	"io/fs"
	"path"
	"strings"
)

// IgnoreMarker is the sentinel file name that opts recordings out of
// discovery. It is checked in the grandparent of each recording file, the
// directory that groups recording runs.
const IgnoreMarker = "DATAIGNORE"

// Discover walks fsys and returns the paths of all .db3 recordings, in
// lexical order. Recordings whose grandparent directory contains the
// ignore marker are returned separately as ignored.
func Discover(fsys fs.FS) (found, ignored []string, err error) {
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".db3") {
			return nil
		}
		marker := path.Join(path.Dir(path.Dir(p)), IgnoreMarker)
		if _, err := fs.Stat(fsys, marker); err == nil {
			ignored = append(ignored, p)
			return nil
		}
		found = append(found, p)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return found, ignored, nil
}
