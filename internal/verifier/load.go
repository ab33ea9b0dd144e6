package verifier

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadFile reads the whole target file as UTF-8 text.
// A missing file is reported without opening a handle; the handle of an
// existing file is released before LoadFile returns.
func LoadFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &FileError{Kind: KindNotFound, Path: path}
		}
		return "", &FileError{Kind: KindUnreadable, Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &FileError{Kind: KindUnreadable, Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &FileError{Kind: KindUnreadable, Path: path, Err: err}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", &FileError{Kind: KindDecode, Path: path}
	}
	return string(data), nil
}
