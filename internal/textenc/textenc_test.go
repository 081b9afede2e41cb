package textenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
		encoding Encoding
	}{
		{"Plain ASCII", []byte("Date,Amount\n"), "Date,Amount\n", UTF8},
		{"UTF-8 accents", []byte("Café,12\n"), "Café,12\n", UTF8},
		{"UTF-8 BOM stripped", append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date\n")...), "Date\n", UTF8},
		{"Latin-1 accent", []byte{'C', 'a', 'f', 0xE9}, "Café", Latin1},
		{"Windows-1252 euro", []byte{0x80, '1', '2'}, "€12", Windows1252},
		{"Windows-1252 curly quote", []byte{'M', 'a', 'c', 'y', 0x92, 's', ' ', 0xE9}, "Macy’s é", Windows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, enc, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, tt.encoding, enc)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	out, enc, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, UTF8, enc)
}
