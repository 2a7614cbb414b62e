package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// table is a decoded upload: raw cells plus the 1-based source line of each
// record.
type table struct {
	records [][]string
	lines   []int
}

var zipMagic = []byte("PK\x03\x04")

func isXLSX(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// decodeText returns data as UTF-8. Anything that is not valid UTF-8 is
// read as Latin-1, the encoding of the legacy ERP exports.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1: %w", err)
	}
	return out, nil
}

// sniffDelimiter picks the most frequent candidate delimiter in the first
// lines of the file. Ties go to the earlier candidate.
func sniffDelimiter(data []byte) rune {
	sample := string(data)
	if len(sample) > 4096 {
		sample = sample[:4096]
	}

	best, bestCount := ',', strings.Count(sample, ",")
	for _, d := range []rune{';', '\t', '|'} {
		if c := strings.Count(sample, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// readCSV decodes and splits delimited text. delim 0 means sniff.
func readCSV(format string, data []byte, delim rune) (*table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	if delim == 0 {
		delim = sniffDelimiter(text)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	t := &table{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &ParseError{Format: format, Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)
		t.records = append(t.records, record)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

// readXLSX returns the first sheet's raw cell values.
func readXLSX(format string, data []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("open spreadsheet: %w", err)}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("spreadsheet has no sheets")}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Format: format, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}

	t := &table{records: rows, lines: make([]int, len(rows))}
	for i := range rows {
		t.lines[i] = i + 1
	}
	return t, nil
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// foldHeader makes header matching case, accent and punctuation insensitive:
// "Cód. Barras" and "cod_barras" both become "cod barras".
func foldHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// columnIndex maps each canonical column to the first header matching one of
// its aliases. Aliases must already be folded.
func columnIndex(header []string, aliases map[string][]string) map[string]int {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = foldHeader(h)
	}

	idx := make(map[string]int, len(aliases))
	for canonical, names := range aliases {
		idx[canonical] = -1
	search:
		for _, name := range names {
			for i, h := range folded {
				if h == name {
					idx[canonical] = i
					break search
				}
			}
		}
	}
	return idx
}

func trimmedLower(header []string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			out = append(out, h)
		}
	}
	return out
}
