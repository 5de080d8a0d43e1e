package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook writes one sheet per spec with a bold, filtered header row.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	f := excelize.NewFile()
	if len(sheets) == 0 {
		sheets = []SheetSpec{{Title: "Sheet1"}}
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := sheetName(s.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		if len(s.Header) == 0 {
			continue
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// width heuristic: header and the first 50 rows
		for c := 1; c <= len(s.Header); c++ {
			widest := len([]rune(s.Header[c-1]))
			for r := 0; r < min(50, len(s.Rows)); r++ {
				if c-1 < len(s.Rows[r]) {
					if l := len([]rune(s.Rows[r][c-1])); l > widest {
						widest = l
					}
				}
			}
			w := max(12, min(40, float64(widest)*1.1))
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return &Workbook{File: f}, nil
}

func (w *Workbook) Write(out io.Writer) error {
	return w.File.Write(out)
}

func (w *Workbook) Close() error {
	return w.File.Close()
}

// colName: 1 -> A, 27 -> AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

var invalidSheetRe = regexp.MustCompile(`[\\/:*?\[\]]+`)

// sheetName strips characters Excel rejects and keeps the 31-rune limit.
func sheetName(s string) string {
	s = strings.TrimSpace(invalidSheetRe.ReplaceAllString(s, " "))
	if s == "" {
		s = "Sheet"
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}
