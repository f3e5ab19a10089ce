package csv

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const utf8BOM = "\uFEFF"

// skipBOM drops a leading UTF-8 BOM before encoding/csv sees it; a BOM in
// front of a quoted header would otherwise be a bare-quote error.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	return headers
}
