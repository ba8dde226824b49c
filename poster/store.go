package poster

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Replaceable so tests can simulate filesystems without hard links.
var linkFunc = os.Link

// sourceReader remembers read errors so they can be told apart from write errors.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

// writeExclusive streams r into dst. The data goes to a hidden temp file in
// the same directory first and is committed with a hard link, which fails if
// dst exists, so a partial file is never visible at dst and two writers can
// never both claim it.
//
// Returned errors: fs.ErrExist (unwrapped) when dst appeared meanwhile,
// *WriteError for local I/O failures, anything else for read failures on r.
func writeExclusive(dst string, r io.Reader) error {
	dir, name := filepath.Dir(dst), filepath.Base(dst)

	tmp, err := os.CreateTemp(dir, "."+name+".part-*")
	if err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	src := &sourceReader{r: r}
	if _, err := io.Copy(tmp, src); err != nil {
		if src.err != nil {
			return fmt.Errorf("failed to read response body: %w", src.err)
		}
		return &WriteError{Path: dst, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: dst, Err: err}
	}

	err = linkFunc(tmpName, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return fs.ErrExist
	}

	// Some filesystems (FAT, SMB shares) refuse hard links.
	return copyExclusive(tmpName, dst)
}

// copyExclusive copies src to a newly created dst, removing dst again on failure.
func copyExclusive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fs.ErrExist
		}
		return &WriteError{Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return &WriteError{Path: dst, Err: err}
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return &WriteError{Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return &WriteError{Path: dst, Err: err}
	}
	return nil
}

// exists reports whether anything is present at path
func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
