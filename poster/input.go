package poster

import (
	"bufio"
	"fmt"
	"io"

	"github.com/s0up4200/postarr/tmdb"
)

// ReadIDs reads whitespace or newline separated tokens from r and tags each
// with source. Tokens that cannot name a file are returned in rejected,
// in input order, and do not stop the read.
func ReadIDs(r io.Reader, source tmdb.Source) (ids []tmdb.ExternalID, rejected []string, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		token := scanner.Text()
		id, err := tmdb.NewExternalID(token, source)
		if err != nil {
			rejected = append(rejected, token)
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read ids: %w", err)
	}

	return ids, rejected, nil
}
