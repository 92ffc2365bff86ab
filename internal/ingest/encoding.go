package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// decodeBytes converts raw file bytes from the profile's declared charset
// to UTF-8. Bank portals in this region commonly export Big5 or CP950.
// Undecodable bytes are replaced rather than failing the file.
func decodeBytes(data []byte, encodingName string) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(encodingName))
	switch name {
	case "", "utf-8", "utf8":
		// BOM-strip only.
		return unicode.UTF8BOM.NewDecoder().Bytes(data)
	case "cp950":
		name = "big5"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", encodingName, err)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", encodingName, err)
	}
	return decoded, nil
}
