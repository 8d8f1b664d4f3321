// Package cursor кодирует позицию keyset-пагинации в непрозрачную строку.
//
// Формат: base64url("<RFC3339Nano>|<id>") последнего отданного элемента.
// Сортировка лент всегда (timestamp, id), поэтому курсор остается
// стабильным при вставках между страницами.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalid = errors.New("invalid pagination cursor")

func Encode(ts time.Time, id string) string {
	raw := ts.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode разбирает курсор; пустая строка означает начало ленты.
func Decode(c string) (time.Time, string, error) {
	if c == "" {
		return time.Time{}, "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(c)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", ErrInvalid
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return ts, parts[1], nil
}
