package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV detects the charset from the first 2KB and decodes to UTF-8.
// UTF-8, Windows-1251 and ISO-8859-1 are handled.
func readCSV(r io.Reader, headerRow int) (*Table, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	var dec io.Reader = br
	switch detectCharset(peek) {
	case "windows-1251":
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	case "iso-8859-1", "windows-1252":
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return buildTable(rows, headerRow), nil
}

func detectCharset(peek []byte) string {
	if len(peek) == 0 {
		return "utf-8"
	}
	// chardet is unreliable on short samples; valid UTF-8 is taken as is.
	if validUTF8Prefix(peek) {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

// validUTF8Prefix ignores a rune cut off at the end of the peek window.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}
