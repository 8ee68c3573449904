package process

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// zip signature fits easily, filetype never looks further than that.
const sniffLen = 262

// isArchiveFile checks if file has ".zip" extension and zip signature.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isDocumentName checks if name looks like something DecodeDocument could
// handle.
func isDocumentName(name string) bool {
	_, ok := documentFormat(name)
	return ok
}

// selectReader returns reader producing UTF-8. Sources produced on Windows
// often come as UTF-16 with BOM or UTF-8 with BOM, BOM is dropped so it does
// not shift offsets.
func selectReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
