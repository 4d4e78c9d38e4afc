package extract

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of résumé formats the extractor understands.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatDOCX
	FormatText

	formatCount
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatText}
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	case FormatText:
		return "txt"
	default:
		return "unknown"
	}
}

// MimeType returns the canonical content type for f.
func (f Format) MimeType() string {
	switch f {
	case FormatPDF:
		return MimePDF
	case FormatDOCX:
		return MimeDOCX
	case FormatText:
		return MimeText
	default:
		return "application/octet-stream"
	}
}

// ParseFormat maps a declared format, extension or content type to a Format.
func ParseFormat(declared string) Format {
	clean := strings.ToLower(strings.TrimSpace(declared))
	clean = strings.TrimSpace(strings.Split(clean, ";")[0])
	clean = strings.TrimPrefix(clean, ".")
	switch clean {
	case "pdf", MimePDF:
		return FormatPDF
	case "docx", MimeDOCX:
		return FormatDOCX
	case "txt", "text", MimeText:
		return FormatText
	default:
		return FormatUnknown
	}
}

// FormatFromFileName infers the format from a file extension.
func FormatFromFileName(name string) Format {
	ext := filepath.Ext(strings.TrimSpace(name))
	if ext == "" {
		return FormatUnknown
	}
	return ParseFormat(ext)
}

// ResolveFormat prefers the declared format and falls back to the file extension.
func ResolveFormat(declared, fileName string) Format {
	if f := ParseFormat(declared); f != FormatUnknown {
		return f
	}
	return FormatFromFileName(fileName)
}
