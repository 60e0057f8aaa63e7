package layout

import (
	"strconv"
	"strings"
)

// Key is the synthetic join key shared by location and occupancy records.
type Key string

const (
	idKeyPrefix   = "id:"
	codeKeyPrefix = "code:"
)

// ResolveKey returns the preferred key for ident: the numeric id when it is
// positive, otherwise the first non-empty code. ok is false when neither is
// usable and the record cannot be joined.
func ResolveKey(ident Ident) (Key, bool) {
	if k, ok := IDKey(ident); ok {
		return k, true
	}
	return CodeKey(ident)
}

// IDKey returns the id-based key alone.
func IDKey(ident Ident) (Key, bool) {
	if ident.LocationID <= 0 {
		return "", false
	}
	return Key(idKeyPrefix + strconv.FormatInt(ident.LocationID, 10)), true
}

// CodeKey returns the code-based key alone. Codes are compared case-insensitively.
func CodeKey(ident Ident) (Key, bool) {
	code := ident.Code()
	if code == "" {
		return "", false
	}
	return Key(codeKeyPrefix + strings.ToUpper(code)), true
}

// Code returns the first non-empty code field, trimmed, in priority order.
func (ident Ident) Code() string {
	for _, c := range [...]string{ident.LocationCode, ident.LocationName} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// ParseKey validates a key received from outside, for example a URL segment.
// Code keys are uppercased so lookups stay case-insensitive.
func ParseKey(raw string) (Key, bool) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, idKeyPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(raw, idKeyPrefix), 10, 64)
		if err != nil || id <= 0 {
			return "", false
		}
		return IDKey(Ident{LocationID: id})
	case strings.HasPrefix(raw, codeKeyPrefix):
		return CodeKey(Ident{LocationCode: strings.TrimPrefix(raw, codeKeyPrefix)})
	default:
		return "", false
	}
}
