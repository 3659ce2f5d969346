// Package upload stores receipt files and hands back the URL they are served from.
//
// Clients never name server paths: a receipt is first written to the staging area by
// Stage, and only the name Stage returned can be uploaded afterwards.
package upload

import (
	"context"       // Cancellation
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"io"            // File copy
	"os"            // File system access
	"path/filepath" // Path handling
	"strings"       // URL building

	"github.com/google/uuid" // Unique file names
)

var (
	// ErrInvalidFolder is returned for folder names that would escape the upload root
	ErrInvalidFolder = errors.New("invalid upload folder")
	// ErrInvalidRef is returned for references that do not name a file inside the staging area
	ErrInvalidRef = errors.New("invalid receipt reference")
)

// Disk stages client files under Staging, copies them under Root and serves them below BaseURL
type Disk struct {
	Root    string // Directory uploaded files are written to
	Staging string // Directory client files wait in, never served
	BaseURL string // Public URL prefix of Root
}

// NewDisk returns a Disk uploader
func NewDisk(root, staging, baseURL string) *Disk {
	return &Disk{Root: root, Staging: staging, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Stage stores r in the staging area and returns the reference to pass to Upload.
// Only the extension of filename is kept.
func (d *Disk) Stage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Staging, 0o755); err != nil {
		return "", err
	}
	ref := uuid.NewString() + extension(filename)
	if err := write(filepath.Join(d.Staging, ref), r); err != nil {
		return "", err
	}
	return ref, nil
}

// Upload copies the staged file localRef into Root/folder under a fresh name and returns its URL.
func (d *Disk) Upload(ctx context.Context, localRef, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if folder == "" || folder != filepath.Base(folder) || folder == "." || folder == ".." {
		return "", ErrInvalidFolder
	}
	if !filepath.IsLocal(localRef) {
		return "", ErrInvalidRef
	}
	src, err := os.Open(filepath.Join(d.Staging, localRef))
	if err != nil {
		return "", fmt.Errorf("open staged %s: %w", localRef, err)
	}
	defer src.Close()

	dir := filepath.Join(d.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + extension(localRef)
	if err := write(filepath.Join(dir, name), src); err != nil {
		return "", err
	}
	return d.BaseURL + "/" + folder + "/" + name, nil
}

// Remove deletes a file Upload stored. Removing a file that is already gone is not an error.
func (d *Disk) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, found := strings.CutPrefix(url, d.BaseURL+"/")
	if !found || !filepath.IsLocal(filepath.FromSlash(rel)) {
		return ErrInvalidRef
	}
	if err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(rel))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// extension returns the lower-cased extension of name when it is plain alphanumeric
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func write(path string, r io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}
