package extract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX walks body → paragraph → run → text in document order.
// Tables are skipped; headers and footers live in other parts and are never read.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return walkDocumentXML(doc.Editable().GetContent())
}

// walkDocumentXML emits one line per paragraph. A paragraph nested inside
// another (text boxes, content controls) is emitted when it closes, before the
// paragraph that contains it; the outer paragraph keeps its runs on both sides.
func walkDocumentXML(raw string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var (
		out        strings.Builder
		paras      []*strings.Builder
		inBody     bool
		inText     bool
		tableDepth int
	)
	current := func() *strings.Builder {
		if len(paras) == 0 {
			return nil
		}
		return paras[len(paras)-1]
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "body":
				inBody = true
			case "tbl":
				tableDepth++
			case "p":
				if inBody && tableDepth == 0 {
					paras = append(paras, &strings.Builder{})
				}
			case "t":
				inText = current() != nil
			case "tab":
				if para := current(); para != nil {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if para := current(); para != nil {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "body":
				inBody = false
			case "tbl":
				tableDepth--
			case "t":
				inText = false
			case "p":
				if inBody && tableDepth == 0 && len(paras) > 0 {
					out.WriteString(current().String())
					out.WriteByte('\n')
					paras = paras[:len(paras)-1]
				}
			}
		case xml.CharData:
			if para := current(); inText && para != nil {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
