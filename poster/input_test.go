package poster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/postarr/tmdb"
)

func TestReadIDs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		source   tmdb.Source
		want     []string
		rejected []string
	}{
		{
			name:   "newline separated",
			input:  "tt0111161\ntt0068646\n",
			source: tmdb.SourceIMDb,
			want:   []string{"tt0111161", "tt0068646"},
		},
		{
			name:   "mixed whitespace",
			input:  "  278 \t 238\r\n\n424  ",
			source: tmdb.SourceTMDb,
			want:   []string{"278", "238", "424"},
		},
		{
			name:   "empty input",
			input:  " \n\t",
			source: tmdb.SourceIMDb,
		},
		{
			name:     "path tokens rejected",
			input:    "tt1 ../etc/passwd tt2 .. a\\b",
			source:   tmdb.SourceIMDb,
			want:     []string{"tt1", "tt2"},
			rejected: []string{"../etc/passwd", "..", "a\\b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, rejected, err := ReadIDs(strings.NewReader(tt.input), tt.source)
			require.NoError(t, err)

			var got []string
			for _, id := range ids {
				assert.Equal(t, tt.source, id.Source)
				got = append(got, id.Token)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rejected, rejected)
		})
	}
}
