package overlay

import (
	"io"
	"path/filepath"
	"strings"
)

// Pair is one decoded key/value entry.
type Pair struct {
	Key   string
	Value string
}

// Decoder turns a source stream into an ordered sequence of pairs. Malformed
// input is an error, never silently ignored.
type Decoder interface {
	Decode(r io.Reader) ([]Pair, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(r io.Reader) ([]Pair, error)

// Decode implements Decoder.
func (f DecoderFunc) Decode(r io.Reader) ([]Pair, error) {
	return f(r)
}

// Decoders maps a lower-case file extension (including the dot) to a decoder.
// The empty key is the fallback.
type Decoders map[string]Decoder

// DefaultDecoders returns the built-in decoder set.
func DefaultDecoders() Decoders {
	return Decoders{
		"":            DecoderFunc(DecodeProperties),
		".properties": DecoderFunc(DecodeProperties),
		".hcl":        DecoderFunc(DecodeHCL),
		".toml":       DecoderFunc(DecodeTOML),
		".env":        DecoderFunc(DecodeDotenv),
	}
}

// For returns the decoder for the source identifier id.
func (d Decoders) For(id string) Decoder {
	if dec, ok := d[strings.ToLower(filepath.Ext(id))]; ok {
		return dec
	}
	return d[""]
}
