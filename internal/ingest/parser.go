package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// supportedExt lists corpus file formats the loader understands.
var supportedExt = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
	".ods":  true,
	".txt":  true,
	".md":   true,
}

// parseFile extracts the plain text content of a corpus file.
func parseFile(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".ods":
		return parseODS(filePath)
	case ".txt":
		return parseText(filePath)
	case ".md":
		return parseMarkdown(filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(filePath))
	}
}

func parsePDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return "", err
		}
		content.WriteString(pageText)
		content.WriteString("\n")
	}
	return normalize(content.String()), nil
}

func parseDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var content strings.Builder
	for _, p := range strings.Split(r.Editable().GetContent(), "\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		content.WriteString(p)
		content.WriteString("\n")
	}
	return normalize(content.String()), nil
}

func parseXLSX(filePath string) (string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return "", err
	}

	var content strings.Builder
	for _, sheet := range f.Sheets {
		content.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				content.WriteString(cell.String() + "\t")
			}
			content.WriteString("\n")
		}
	}
	return normalize(content.String()), nil
}

func parseODS(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var content strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		content.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				content.WriteString(cell + "\t")
			}
			content.WriteString("\n")
		}
	}
	return normalize(content.String()), nil
}

func parseText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return normalize(string(data)), nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// parseMarkdown strips markdown structure down to the plain text the
// indexes score against.
func parseMarkdown(filePath string) (string, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	doc := markdown.Parser().Parse(text.NewReader(source))
	var content strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			content.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				content.WriteString(" ")
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if content.Len() > 0 {
				content.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return normalize(content.String()), nil
}

// normalize collapses whitespace runs the way the original corpus was
// cleaned before indexing.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
