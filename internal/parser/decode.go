package parser

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"stellaris-techtree/internal/textutil"
)

// readScript reads a script file as UTF-8. Files that are not valid UTF-8
// are decoded from Windows-1252, the encoding the game itself assumes.
func readScript(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}
	return decodeScript(data)
}

func decodeScript(data []byte) ([]byte, error) {
	data = textutil.StripBOM(data)
	if utf8.Valid(data) {
		return data, nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return decoded, nil
}

// readLocalisation reads a localisation file. The byte-order mark is
// dropped and invalid UTF-8 sequences become U+FFFD.
func readLocalisation(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read localisation file: %w", err)
	}
	return decodeLocalisation(data)
}

func decodeLocalisation(data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), textutil.StripBOM(data))
	if err != nil {
		return nil, fmt.Errorf("decode utf-8: %w", err)
	}
	return decoded, nil
}
