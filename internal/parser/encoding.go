
package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Only the head of the document is searched for a declaration.
const sniffLen = 8192

var metaCharsetRe = regexp.MustCompile(`(?i)<meta.+charset=([a-z0-9-]+)`)

// ResolveEncoding returns the charset named by a <meta> declaration in raw,
// or defaultEncoding when there is none. It must see the undecoded bytes.
func ResolveEncoding(raw []byte, defaultEncoding string) string {
	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	m := metaCharsetRe.FindSubmatch(head)
	if m == nil {
		return defaultEncoding
	}
	enc := string(m[1])
	slog.Debug("setting encoding", "encoding", enc)
	return enc
}

// Decode converts raw to UTF-8 using the encoding resolved from its meta
// declaration, falling back to defaultEncoding.
func Decode(raw []byte, defaultEncoding string) (string, error) {
	name := ResolveEncoding(raw, defaultEncoding)
	enc, err := lookupEncoding(name)
	if err != nil && name != defaultEncoding {
		slog.Warn("unknown document encoding, using default", "encoding", name, "default", defaultEncoding)
		enc, err = lookupEncoding(defaultEncoding)
	}
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	// charset.Lookup follows WHATWG and maps latin1 to windows-1252.
	case "iso-8859-1", "iso8859-1", "latin1", "l1":
		return charmap.ISO8859_1, nil
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}
