package alphabet_test

import (
	"reflect"
	"testing"

	"github.com/susannvorberg/ccmgo/alphabet"
)

func TestAlphabet(t *testing.T) {
	symbols := []string{"A", "C", "G", "T"}
	a := alphabet.NewAlphabet(symbols)
	// Test encoding
	for i, symbol := range symbols {
		code, err := a.Encode(symbol)
		if err != nil {
			t.Errorf("Unexpected error encoding symbol %s: %v", symbol, err)
		}
		if code != uint8(i) {
			t.Errorf("Incorrect encoding of symbol %s: expected %d, got %d", symbol, i, code)
		}
	}
	_, err := a.Encode("X")
	if err == nil {
		t.Error("Expected error for encoding symbol not in alphabet, but got nil")
	}

	// Test decoding
	for i, symbol := range symbols {
		decoded, err := a.Decode(i)
		if err != nil {
			t.Errorf("Unexpected error decoding code %d: %v", i, err)
		}
		if decoded != symbol {
			t.Errorf("Incorrect decoding of code %d: expected %s, got %s", i, symbol, decoded)
		}
	}
	_, err = a.Decode(len(symbols))
	if err == nil {
		t.Error("Expected error for decoding code not in alphabet, but got nil")
	}

	// Test extension
	extendedSymbols := []string{"N", "-", "*"}
	extendedAlphabet := a.Extend(extendedSymbols)
	for i, symbol := range symbols {
		code, err := extendedAlphabet.Encode(symbol)
		if err != nil {
			t.Errorf("Unexpected error encoding symbol %s: %v", symbol, err)
		}
		if code != uint8(i) {
			t.Errorf("Incorrect encoding of symbol %s: expected %d, got %d", symbol, i, code)
		}
	}
	for i, symbol := range extendedSymbols {
		code, err := extendedAlphabet.Encode(symbol)
		if err != nil {
			t.Errorf("Unexpected error encoding symbol %s: %v", symbol, err)
		}
		if code != uint8(i+len(symbols)) {
			t.Errorf("Incorrect encoding of symbol %s: expected %d, got %d", symbol, i+len(symbols), code)
		}
	}
}

func TestAlphabet_Symbols(t *testing.T) {
	// Test Symbols
	symbols := []string{"A", "C", "G", "T"}
	a := alphabet.NewAlphabet(symbols)
	if !reflect.DeepEqual(a.Symbols(), symbols) {
		t.Errorf("Symbols() = %v, want %v", a.Symbols(), symbols)
	}
}

func TestPotts21HasGapAtTwenty(t *testing.T) {
	if len(alphabet.Potts21.Symbols()) != 21 {
		t.Fatalf("Potts21 should have 21 symbols, got %d", len(alphabet.Potts21.Symbols()))
	}
	code, err := alphabet.Potts21.Encode("-")
	if err != nil {
		t.Fatalf("unexpected error encoding gap: %v", err)
	}
	if code != alphabet.GapCode {
		t.Errorf("gap code = %d, want %d", code, alphabet.GapCode)
	}
}

func TestEncodeResidueUnknownMapsToGap(t *testing.T) {
	for _, r := range []rune{'X', 'B', 'Z', 'U', 'O', '.', '~'} {
		if got := alphabet.Potts21.EncodeResidue(r); got != alphabet.GapCode {
			t.Errorf("EncodeResidue(%q) = %d, want gap code %d", r, got, alphabet.GapCode)
		}
	}
	for i, symbol := range alphabet.Potts21.Symbols()[:20] {
		got := alphabet.Potts21.EncodeResidue(rune(symbol[0]))
		if got != uint8(i) {
			t.Errorf("EncodeResidue(%q) = %d, want %d", symbol, got, i)
		}
	}
}
