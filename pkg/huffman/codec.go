package huffman

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// ErrTruncated means the bit string ended in the middle of a code, which
// happens when an encoded payload is cut off or corrupted in transit.
var ErrTruncated = errors.New("huffman: bit string ends mid-code")

// Stats describes how much a single encoding saved. The original size is
// fixed at 8 bits per character regardless of the input's true entropy.
type Stats struct {
	OriginalBits   int
	CompressedBits int
	BitsSaved      int
	PercentSaved   float64
}

// Encode compresses text into a bit string together with the code table
// needed to reverse it. Empty text needs no compression and returns an
// empty bit string with an empty table.
func Encode(text string) (string, CodeTable) {
	if text == "" {
		return "", CodeTable{}
	}
	codes := Codes(BuildTree(Frequencies(text)))
	var bits strings.Builder
	for _, r := range text {
		bits.WriteString(codes[string(r)])
	}
	return bits.String(), codes
}

// Decode reverses Encode using the carried code table. The scan is greedy:
// bits accumulate until the prefix matches a known code, which is safe
// because the code set is prefix-free.
//
// The reverse lookup lives in a patricia trie keyed by code, so a prefix
// that has left the code space entirely is caught the moment it happens
// rather than after consuming the rest of the string.
func Decode(bits string, codes CodeTable) (string, error) {
	if bits == "" {
		return "", nil
	}
	if len(codes) == 0 {
		return "", fmt.Errorf("huffman: no codes carried for %d bits", len(bits))
	}

	trie := patricia.NewTrie()
	for sym, code := range codes {
		trie.Insert(patricia.Prefix(code), sym)
	}

	var text strings.Builder
	current := make([]byte, 0, 16)
	for i := 0; i < len(bits); i++ {
		b := bits[i]
		if b != '0' && b != '1' {
			return "", fmt.Errorf("huffman: invalid bit %q at offset %d", b, i)
		}
		current = append(current, b)
		if item := trie.Get(patricia.Prefix(current)); item != nil {
			text.WriteString(item.(string))
			current = current[:0]
			continue
		}
		if !trie.MatchSubtree(patricia.Prefix(current)) {
			return "", fmt.Errorf("huffman: bit sequence %q matches no code", current)
		}
	}
	if len(current) > 0 {
		return "", ErrTruncated
	}
	return text.String(), nil
}

// CompressionStats compares the encoded size against the fixed 8-bits-per-
// character original size. A zero-length original reports zero savings.
func CompressionStats(original, compressed string) Stats {
	s := Stats{
		OriginalBits:   len([]rune(original)) * 8,
		CompressedBits: len(compressed),
	}
	if s.OriginalBits == 0 {
		return s
	}
	s.BitsSaved = s.OriginalBits - s.CompressedBits
	s.PercentSaved = float64(s.BitsSaved) / float64(s.OriginalBits) * 100
	return s
}
