package huffman

import (
	"errors"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	texts := []string{
		"hello world",
		"aabbbcc",
		"the quick brown fox jumps over the lazy dog",
		"x",
		"aaaaaaaa",
		"héllo wörld ✓",
		"line one\nline two\n",
		"!!??..,,  spaces   and   symbols",
	}

	for _, text := range texts {
		bits, codes := Encode(text)
		decoded, err := Decode(bits, codes)
		if err != nil {
			t.Errorf("Decode(%q): unexpected error: %v", text, err)
			continue
		}
		if decoded != text {
			t.Errorf("round trip mismatch: got %q, want %q", decoded, text)
		}
	}
}

func TestPrefixFreedom(t *testing.T) {
	texts := []string{
		"hello world",
		"aabbbcc",
		"mississippi",
		"abcdefghijklmnopqrstuvwxyz",
	}

	for _, text := range texts {
		_, codes := Encode(text)
		for symA, codeA := range codes {
			if codeA == "" {
				t.Errorf("text %q: symbol %q got an empty code", text, symA)
			}
			for symB, codeB := range codes {
				if symA == symB {
					continue
				}
				if strings.HasPrefix(codeB, codeA) {
					t.Errorf("text %q: code %q (%q) is a prefix of %q (%q)",
						text, codeA, symA, codeB, symB)
				}
			}
		}
	}
}

func TestSingleSymbol(t *testing.T) {
	bits, codes := Encode("aaaa")
	if len(codes) != 1 || codes["a"] != "0" {
		t.Errorf("Encode(\"aaaa\") codes = %v, want {\"a\": \"0\"}", codes)
	}
	if bits != "0000" {
		t.Errorf("Encode(\"aaaa\") bits = %q, want \"0000\"", bits)
	}

	decoded, err := Decode(bits, codes)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded != "aaaa" {
		t.Errorf("Decode = %q, want \"aaaa\"", decoded)
	}
}

func TestEmptyInput(t *testing.T) {
	bits, codes := Encode("")
	if bits != "" || len(codes) != 0 {
		t.Errorf("Encode(\"\") = (%q, %v), want (\"\", {})", bits, codes)
	}

	decoded, err := Decode("", CodeTable{})
	if err != nil || decoded != "" {
		t.Errorf("Decode(\"\", {}) = (%q, %v), want (\"\", nil)", decoded, err)
	}

	stats := CompressionStats("", "")
	if stats.BitsSaved != 0 || stats.PercentSaved != 0 {
		t.Errorf("CompressionStats(\"\", \"\") = %+v, want zero savings", stats)
	}
}

func TestCompressedNeverLarger(t *testing.T) {
	// freqs a:2 b:3 c:2 -- exact bit length depends on merge order, but it
	// must never exceed the fixed 8-bits-per-character original size.
	text := "aabbbcc"
	bits, _ := Encode(text)
	if len(bits) > len(text)*8 {
		t.Errorf("compressed %d bits exceeds original %d bits", len(bits), len(text)*8)
	}
}

func TestCompressionStats(t *testing.T) {
	bits, _ := Encode("aaaa")
	stats := CompressionStats("aaaa", bits)
	if stats.OriginalBits != 32 {
		t.Errorf("OriginalBits = %d, want 32", stats.OriginalBits)
	}
	if stats.CompressedBits != 4 {
		t.Errorf("CompressedBits = %d, want 4", stats.CompressedBits)
	}
	if stats.BitsSaved != 28 {
		t.Errorf("BitsSaved = %d, want 28", stats.BitsSaved)
	}
	if stats.PercentSaved != 87.5 {
		t.Errorf("PercentSaved = %v, want 87.5", stats.PercentSaved)
	}
}

func TestDecodeTruncated(t *testing.T) {
	bits, codes := Encode("aabbbcc")
	// cut the last bit off so the string ends mid-code
	_, err := Decode(bits[:len(bits)-1], codes)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("Decode(truncated) error = %v, want ErrTruncated", err)
	}
}

func TestDecodeInvalidInput(t *testing.T) {
	_, codes := Encode("aabbbcc")

	if _, err := Decode("01x01", codes); err == nil {
		t.Error("Decode with a non-bit character should fail")
	}
	if _, err := Decode("0101", CodeTable{}); err == nil {
		t.Error("Decode with bits but no codes should fail")
	}
	// single-symbol table: a '1' leaves the code space immediately
	if _, err := Decode("01", CodeTable{"a": "0"}); err == nil {
		t.Error("Decode with a bit sequence outside the code space should fail")
	}
}

func TestBuildTreeShape(t *testing.T) {
	freq := Frequencies("aabbbcc")
	if len(freq) != 3 || freq["a"] != 2 || freq["b"] != 3 || freq["c"] != 2 {
		t.Fatalf("Frequencies(\"aabbbcc\") = %v", freq)
	}

	root := BuildTree(freq)
	if root == nil {
		t.Fatal("BuildTree returned nil for a non-empty table")
	}
	if root.Weight != 7 {
		t.Errorf("root weight = %d, want 7", root.Weight)
	}

	// N distinct symbols means N leaves and N-1 internal nodes
	leaves, internal := 0, 0
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.leaf() {
			leaves++
			return
		}
		internal++
		walk(n.Left)
		walk(n.Right)
	}
	walk(root)
	if leaves != 3 || internal != 2 {
		t.Errorf("tree has %d leaves and %d internal nodes, want 3 and 2", leaves, internal)
	}

	if BuildTree(FreqTable{}) != nil {
		t.Error("BuildTree of an empty table should return nil")
	}
}

func TestDeterministicBuild(t *testing.T) {
	// same text must always produce the same table
	first, _ := Encode("deterministic determinism")
	for i := 0; i < 10; i++ {
		bits, _ := Encode("deterministic determinism")
		if bits != first {
			t.Fatal("Encode produced different bit strings for the same text")
		}
	}
}
