package cmdutil

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseKeys parses a comma or space separated list of integer keys, e.g. "20,15, 25".
func ParseKeys(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	keys := make([]int64, 0, len(fields))
	for _, f := range fields {
		k, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid key %q", f)
		}

		keys = append(keys, k)
	}

	return keys, nil
}
