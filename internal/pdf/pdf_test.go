package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty selects all", input: "", want: nil},
		{name: "whitespace selects all", input: "  ", want: nil},
		{name: "single page", input: "3", want: []string{"3"}},
		{name: "range", input: "1-3", want: []string{"1", "2", "3"}},
		{name: "mixed", input: "1-2, 5", want: []string{"1", "2", "5"}},
		{name: "zero page", input: "0", wantErr: true},
		{name: "negative", input: "-2", wantErr: true},
		{name: "reversed range", input: "5-2", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "garbage range", input: "1-x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePageSelection(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageNumberFromName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int
		wantErr  bool
	}{
		{name: "simple", filename: "doc_1_Im0.png", want: 1},
		{name: "multi digit page", filename: "doc_12_Im3.jpg", want: 12},
		{name: "underscores in base", filename: "my_scan_2_Im0.png", want: 2},
		{name: "too few fields", filename: "doc.png", wantErr: true},
		{name: "non numeric page", filename: "doc_x_Im0.png", wantErr: true},
		{name: "zero page", filename: "doc_0_Im0.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pageNumberFromName(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractImagesErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractImages("/non/existent/file.pdf", "")
		require.Error(t, err)
	})

	t.Run("bad selection", func(t *testing.T) {
		_, err := ExtractImages("dummy.pdf", "not-pages")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "page selection")
	})
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount("/non/existent/file.pdf")
	require.Error(t, err)
}
