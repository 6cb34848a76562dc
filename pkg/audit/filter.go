package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// FilterAction is what a PayloadFilter does to a matched field.
type FilterAction string

const (
	FilterRemove FilterAction = "remove"
	FilterHash   FilterAction = "hash"
	FilterMask   FilterAction = "mask"
)

// Field names are compared case-insensitively with separators removed, so
// "guestName", "guest_name" and "GUEST-NAME" are the same field.
var defaultRules = map[string]FilterAction{
	"password":     FilterRemove,
	"secret":       FilterRemove,
	"token":        FilterRemove,
	"apikey":       FilterRemove,
	"accesstoken":  FilterRemove,
	"refreshtoken": FilterRemove,
	"cardnumber":   FilterMask,
	"cvv":          FilterRemove,
	"email":        FilterHash,
	"phone":        FilterMask,
	"phonenumber":  FilterMask,
	"guestname":    FilterMask,
}

// PayloadFilter removes, hashes or masks sensitive payload fields. Nested
// objects are filtered recursively.
type PayloadFilter struct {
	rules    map[string]FilterAction
	allowed  map[string]bool
	defaults bool
}

type FilterOption func(*PayloadFilter)

// WithField adds or overrides the rule for a field.
func WithField(name string, action FilterAction) FilterOption {
	return func(f *PayloadFilter) {
		f.rules[normalizeField(name)] = action
	}
}

// WithAllowedField lets a field through untouched.
func WithAllowedField(name string) FilterOption {
	return func(f *PayloadFilter) {
		f.allowed[normalizeField(name)] = true
	}
}

// WithoutDefaultRules drops the built-in sensitive field list.
func WithoutDefaultRules() FilterOption {
	return func(f *PayloadFilter) {
		f.defaults = false
	}
}

func NewPayloadFilter(opts ...FilterOption) *PayloadFilter {
	f := &PayloadFilter{
		rules:    make(map[string]FilterAction),
		allowed:  make(map[string]bool),
		defaults: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns a filtered copy of payload.
func (f *PayloadFilter) Filter(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for key, value := range payload {
		name := normalizeField(key)
		if f.allowed[name] {
			out[key] = value
			continue
		}
		action, ok := f.rule(name)
		if !ok {
			if nested, isMap := value.(map[string]any); isMap {
				value = f.Filter(nested)
			}
			out[key] = value
			continue
		}
		switch action {
		case FilterRemove:
		case FilterHash:
			out[key] = hashValue(value)
		case FilterMask:
			out[key] = maskValue(value)
		default:
			out[key] = value
		}
	}
	return out
}

func (f *PayloadFilter) rule(name string) (FilterAction, bool) {
	if a, ok := f.rules[name]; ok {
		return a, true
	}
	if f.defaults {
		a, ok := defaultRules[name]
		return a, ok
	}
	return "", false
}

func normalizeField(s string) string {
	return strings.NewReplacer("_", "", "-", "", ".", "").Replace(strings.ToLower(s))
}

func hashValue(v any) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%v", v))
	return hex.EncodeToString(sum[:])
}

// maskValue keeps the first and last characters of longer values.
func maskValue(v any) string {
	s := []rune(fmt.Sprintf("%v", v))
	n := len(s)
	switch {
	case n <= 4:
		return strings.Repeat("*", n)
	case n <= 8:
		return string(s[:1]) + strings.Repeat("*", n-2) + string(s[n-1:])
	default:
		return string(s[:2]) + strings.Repeat("*", n-4) + string(s[n-2:])
	}
}
