package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ostafen/lmprobe/pkg/probemap"
)

// Entry is one parsed n-gram counts line.
type Entry struct {
	Tokens  probemap.TokenList
	Prob    float32
	Backoff float32
}

// ParseEntry parses one counts line of the form
//
//	<prob> <backoff> <token-id> [<token-id> ...]
//
// with whitespace-separated fields. Blank lines and lines starting with '#'
// are skipped and reported with ok == false.
func ParseEntry(line string) (e Entry, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Entry{}, false, nil
	}

	if len(fields) < 3 {
		return Entry{}, false, fmt.Errorf("expected \"<prob> <backoff> <token-id>...\", got %d fields", len(fields))
	}

	prob, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return Entry{}, false, fmt.Errorf("invalid probability %q: %w", fields[0], err)
	}

	backoff, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return Entry{}, false, fmt.Errorf("invalid backoff %q: %w", fields[1], err)
	}

	tokens := make(probemap.TokenList, 0, len(fields)-2)
	for _, f := range fields[2:] {
		id, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return Entry{}, false, fmt.Errorf("invalid token id %q: %w", f, err)
		}
		tokens = append(tokens, probemap.TokenID(id))
	}

	return Entry{
		Tokens:  tokens,
		Prob:    float32(prob),
		Backoff: float32(backoff),
	}, true, nil
}
