package repo

import (
	"github.com/loupe-vcs/loupe/pkg/object"
)

// Repo represents an opened Git repository, read-only.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git directory (resolved through gitlink files)
	Store   *object.Store // content-addressed loose-object store
}

// Algo returns the hash algorithm detected for the repository.
func (r *Repo) Algo() object.HashAlgo {
	return r.Store.Algo()
}
