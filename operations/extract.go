package operations

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ulikunitz/xz"

	"github.com/joshyorko/sstui/anywork"
	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/fail"
)

// Extractor unpacks a complete archive blob into target directory. Entries
// already written stay in place when cancel is requested midway.
type Extractor func(blob []byte, target string, cancel *anywork.CancelToken) error

type Format struct {
	Suffix  string
	Extract Extractor
}

func DefaultFormats() []Format {
	return []Format{
		{Suffix: ".zip", Extract: ExtractZip},
		{Suffix: ".tar.xz", Extract: ExtractTarXz},
	}
}

func safeJoin(target, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(target, cleaned), nil
}

// writeEntry writes through a sibling temp file so no half written binary
// ever replaces a working one.
func writeEntry(fullpath string, mode fs.FileMode, source io.Reader) (err error) {
	defer fail.Around(&err)

	fail.Fast(os.MkdirAll(filepath.Dir(fullpath), 0o755))
	partial := fullpath + ".part"
	sink, err := os.OpenFile(partial, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm()|0o600)
	fail.Fast(err)
	_, err = io.Copy(sink, source)
	closeErr := sink.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partial)
	}
	fail.On(err != nil, "Failed to write %q, reason: %w", fullpath, err)
	os.Remove(fullpath)
	fail.Fast(os.Rename(partial, fullpath))
	common.Trace("Extracted %s", fullpath)
	return nil
}

func ExtractZip(blob []byte, target string, cancel *anywork.CancelToken) (err error) {
	defer fail.Around(&err)

	archive, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	fail.On(err != nil, "Not a valid zip archive, reason: %w", err)
	for _, entry := range archive.File {
		if cancel.IsCanceled() {
			return ErrCancelled
		}
		fullpath, err := safeJoin(target, entry.Name)
		fail.Fast(err)
		if entry.FileInfo().IsDir() {
			fail.Fast(os.MkdirAll(fullpath, 0o755))
			continue
		}
		source, err := entry.Open()
		fail.Fast(err)
		err = writeEntry(fullpath, entry.Mode(), source)
		source.Close()
		fail.Fast(err)
	}
	return nil
}

func ExtractTarXz(blob []byte, target string, cancel *anywork.CancelToken) (err error) {
	defer fail.Around(&err)

	decompressed, err := xz.NewReader(bytes.NewReader(blob))
	fail.On(err != nil, "Not a valid xz stream, reason: %w", err)
	archive := tar.NewReader(decompressed)
	for {
		if cancel.IsCanceled() {
			return ErrCancelled
		}
		header, err := archive.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		fail.On(err != nil, "Broken tar archive, reason: %w", err)
		fullpath, err := safeJoin(target, header.Name)
		fail.Fast(err)
		switch header.Typeflag {
		case tar.TypeDir:
			fail.Fast(os.MkdirAll(fullpath, 0o755))
		case tar.TypeReg:
			fail.Fast(writeEntry(fullpath, fs.FileMode(header.Mode), archive))
		default:
			common.Debug("Skipping tar entry %q of type %c.", header.Name, header.Typeflag)
		}
	}
}
