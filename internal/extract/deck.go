package extract

import (
	"archive/zip"
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideEntryRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

var pptxElements = zipXMLElements{
	text:  map[string]bool{"t": true},
	tab:   map[string]bool{},
	brk:   map[string]bool{"br": true},
	block: map[string]bool{"p": true},
}

// DeckText pulls the raw text of a slide deck without rendering or OCR.
// Unsupported or binary deck formats (legacy .ppt) yield an empty string,
// which callers treat as "try OCR instead".
func DeckText(data []byte, ext string) string {
	switch strings.ToLower(ext) {
	case ".pptx", ".ppt":
		return string(extractPPTXText(data))
	case ".odp":
		return string(bytes.TrimSpace(extractZipXMLText(data, "content.xml", odtElements)))
	}
	return ""
}

// extractPPTXText walks ppt/slides/slideN.xml entries in slide order and
// collects their drawing-text runs.
func extractPPTXText(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	type slideEntry struct {
		num  int
		file *zip.File
	}
	var entries []slideEntry
	for _, f := range r.File {
		m := slideEntryRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, slideEntry{num: n, file: f})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].num < entries[j].num })

	var buf bytes.Buffer
	for _, e := range entries {
		rc, err := e.file.Open()
		if err != nil {
			continue
		}
		text := walkXMLText(rc, pptxElements)
		rc.Close()
		if len(text) == 0 {
			continue
		}
		buf.Write(text)
		buf.WriteByte('\n')
	}
	return bytes.TrimSpace(buf.Bytes())
}
