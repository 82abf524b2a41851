package vnpay

import (
	"net/url"
	"sort"
	"strings"
)

// Params is an immutable-by-convention mapping of gateway field name to raw value.
// Callers build a fresh map per request; nothing in this package mutates its input.
type Params map[string]string

// Clone returns a shallow copy of p
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Without returns a copy of p minus the given field names
func (p Params) Without(names ...string) Params {
	out := p.Clone()
	for _, name := range names {
		delete(out, name)
	}
	return out
}

// Canonicalize builds the exact string the signature is computed over.
//
// Algorithm:
// 1. Drop fields whose value is empty (absent and empty sign the same)
// 2. Sort names ascending, byte-wise
// 3. Form-encode every value (space becomes '+')
// 4. Join "name=value" pairs with '&'
func Canonicalize(params Params) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}
	return sb.String()
}

// ExtractParams keeps the vnp_* fields of an inbound query, first value wins
func ExtractParams(values url.Values) Params {
	params := make(Params)
	for key, vals := range values {
		if !strings.HasPrefix(key, FieldPrefix) || len(vals) == 0 {
			continue
		}
		params[key] = vals[0]
	}
	return params
}
