package extract

import "bytes"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// extractPlain returns the bytes as text, dropping a leading byte order mark.
func extractPlain(data []byte) (string, error) {
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}
