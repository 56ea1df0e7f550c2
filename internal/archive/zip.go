// Package archive compresses report directories into ZIP archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// bufferSize is the chunk size used to stream file contents into the archive
const bufferSize = 32 * 1024

// Entry is a regular file to archive
type Entry struct {
	// Path is the location of the file on disk
	Path string

	// Name is the path relative to the archived directory, with forward slashes
	Name string
}

type options struct {
	exclude []string
}

// Option customizes the archiving
type Option func(*options)

// WithExclude skips files whose relative path or base name matches one of the glob patterns.
// Patterns support ** through doublestar.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// Collect walks sourceDir and returns every regular file below it.
// A missing sourceDir yields no entries. sourceDir itself may be a symbolic link.
// Links to files are archived with the target content, links to directories are skipped.
func Collect(sourceDir string, opts ...Option) ([]Entry, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("archive: resolve %s: %w", sourceDir, err)
	}
	root, err = filepath.EvalSymlinks(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("archive: resolve %s: %w", sourceDir, err)
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if !regularFile(path, d) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if excluded(name, o.exclude) {
			return nil
		}

		entries = append(entries, Entry{Path: path, Name: name})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: walk %s: %w", sourceDir, err)
	}

	return entries, nil
}

// CompressDirectory writes every regular file below sourceDir into a ZIP archive at destination.
// The destination is created or truncated; removing it on failure is up to the caller.
func CompressDirectory(sourceDir, destination string, opts ...Option) error {
	entries, err := Collect(sourceDir, opts...)
	if err != nil {
		return err
	}

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", destination, err)
	}

	if err := Write(out, entries); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: close %s: %w", destination, err)
	}
	return nil
}

// Write streams the entries as a ZIP archive into w
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	buffer := make([]byte, bufferSize)

	for _, entry := range entries {
		if err := writeEntry(zw, entry, buffer); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, entry Entry, buffer []byte) error {
	in, err := os.Open(entry.Path)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", entry.Path, err)
	}
	defer in.Close()

	header := &zip.FileHeader{
		Name:   entry.Name,
		Method: zip.Deflate,
	}
	if info, err := in.Stat(); err == nil {
		header.Modified = info.ModTime()
	}

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive: add entry %s: %w", entry.Name, err)
	}

	if _, err := io.CopyBuffer(dst, in, buffer); err != nil {
		return fmt.Errorf("archive: write entry %s: %w", entry.Name, err)
	}
	return nil
}

// regularFile reports whether the entry is a regular file or a link to one
func regularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func excluded(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	base := filepath.Base(filepath.FromSlash(name))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
