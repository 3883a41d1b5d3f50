package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls the plain text layer out of a PDF. Scanned PDFs
// without a text layer fall back to a printable-byte pass, which usually
// yields nothing useful but never fails.
func extractPDFText(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	if r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		if reader, err := r.GetPlainText(); err == nil {
			if out, err := io.ReadAll(reader); err == nil && len(out) > 0 {
				return out
			}
		}
	}
	return extractPrintableText(data)
}

func extractDOCXText(data []byte) []byte {
	return extractZipXMLText(data, "word/document.xml", docxElements)
}

func extractODTText(data []byte) []byte {
	return extractZipXMLText(data, "content.xml", odtElements)
}

// zipXMLElements tells the XML walk which elements carry text and which
// element boundaries become tabs or newlines.
type zipXMLElements struct {
	text  map[string]bool
	tab   map[string]bool
	brk   map[string]bool
	block map[string]bool
}

var docxElements = zipXMLElements{
	text:  map[string]bool{"t": true, "instrText": true},
	tab:   map[string]bool{"tab": true},
	brk:   map[string]bool{"br": true, "cr": true},
	block: map[string]bool{"p": true},
}

var odtElements = zipXMLElements{
	text:  map[string]bool{},
	tab:   map[string]bool{"tab": true},
	brk:   map[string]bool{"line-break": true},
	block: map[string]bool{"p": true, "h": true},
}

func extractZipXMLText(data []byte, entry string, elems zipXMLElements) []byte {
	if len(data) == 0 {
		return nil
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}
	var target *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, entry) {
			target = f
			break
		}
	}
	if target == nil {
		return nil
	}
	rc, err := target.Open()
	if err != nil {
		return nil
	}
	defer rc.Close()
	return walkXMLText(rc, elems)
}

func walkXMLText(r io.Reader, elems zipXMLElements) []byte {
	dec := xml.NewDecoder(r)
	var buf bytes.Buffer
	inBlock := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch {
			case elems.text[name]:
				var text string
				if err := dec.DecodeElement(&text, &t); err == nil {
					buf.WriteString(text)
				}
			case elems.tab[name]:
				buf.WriteByte('\t')
			case elems.brk[name]:
				buf.WriteByte('\n')
			case elems.block[name] && len(elems.text) == 0:
				inBlock = true
			}
		case xml.CharData:
			if inBlock && len(elems.text) == 0 {
				buf.Write(t)
			}
		case xml.EndElement:
			if elems.block[t.Name.Local] {
				if len(elems.text) == 0 {
					inBlock = false
				}
				buf.WriteByte('\n')
			}
		}
	}
	return bytes.TrimSpace(buf.Bytes())
}

// extractPrintableText keeps printable runes and common whitespace, and
// drops everything else. Last-resort pass for unknown or binary input.
func extractPrintableText(in []byte) []byte {
	var out bytes.Buffer
	for len(in) > 0 {
		r, size := utf8.DecodeRune(in)
		if r == utf8.RuneError && size == 1 {
			b := in[0]
			if isPrintableASCII(b) {
				out.WriteByte(b)
			}
			in = in[1:]
			continue
		}
		in = in[size:]
		if isPrintableRune(r) {
			out.WriteRune(r)
		}
	}
	return bytes.TrimSpace(out.Bytes())
}

func isPrintableASCII(b byte) bool {
	return b == '\n' || b == '\r' || b == '\t' || (b >= 32 && b < 127)
}

func isPrintableRune(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return true
	}
	return r >= 32 && r <= 0x10FFFF && r != 127
}
