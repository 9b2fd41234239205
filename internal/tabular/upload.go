package tabular

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCSV
	KindExcel
)

func (k Kind) String() string {
	switch k {
	case KindCSV:
		return "csv"
	case KindExcel:
		return "excel"
	default:
		return "unknown"
	}
}

// DetectKind picks the parser from the filename extension.
func DetectKind(filename string) Kind {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return KindCSV
	case ".xls", ".xlsx", ".xlsm":
		return KindExcel
	default:
		return KindUnknown
	}
}

// DecodeDataURI decodes "data:<mime>;base64,<payload>" as sent by a browser
// file input. The payload after the first comma is base64.
func DecodeDataURI(contents string) ([]byte, error) {
	if strings.TrimSpace(contents) == "" {
		return nil, ErrEmptyContent
	}
	_, payload, ok := strings.Cut(contents, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI: missing comma")
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return decoded, nil
}

// EncodeDataURI is the inverse of DecodeDataURI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseUpload decodes browser upload content and parses it by filename.
func ParseUpload(contents, filename string) (*Table, error) {
	raw, err := DecodeDataURI(contents)
	if err != nil {
		return nil, err
	}

	switch DetectKind(filename) {
	case KindCSV:
		return ParseCSV(bytes.NewReader(raw))
	case KindExcel:
		return ParseExcel(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
	}
}

// ParseCSV reads UTF-8 CSV with a header row. Ragged rows are padded.
func ParseCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: %w", ErrEmptyContent)
	}
	return NewTable(records[0], records[1:]), nil
}

// ParseExcel reads the first worksheet of an xlsx workbook.
func ParseExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheets[0], ErrEmptyContent)
	}
	return NewTable(rows[0], rows[1:]), nil
}
