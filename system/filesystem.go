package system

import (
	"io/fs"
	"net/http"
	"os"
)

// VirtualFS is the file system documents are read from. Names passed to Open
// are absolute OS paths.
type VirtualFS interface {
	fs.FS
}

// Client performs the HTTP requests used to fetch remote documents.
// *http.Client satisfies it.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type FileSystem struct{}

var (
	_ VirtualFS = (*FileSystem)(nil)
	_ Client    = (*http.Client)(nil)
)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}
