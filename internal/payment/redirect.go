package payment

import (
	"net/url"
	"strings"
)

// BuyerEmailField is appended to the redirect URL without percent-encoding;
// the gateway expects the address verbatim, including the @.
const BuyerEmailField = "buyerEmail"

// Field is a single gateway parameter. Order matters for the redirect URL,
// which is why this is a slice element rather than a map entry.
type Field struct {
	Name  string
	Value string
}

// ParamMap converts an ordered field list into the map form used for signing.
func ParamMap(fields []Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

// BuildRedirectURL assembles the hosted-checkout URL: the fields in their
// given order, then the checksum last. Values are percent-encoded with
// spaces as %20, except buyerEmail which is carried verbatim.
func BuildRedirectURL(endpoint string, fields []Field, checksum string) string {
	var b strings.Builder
	b.WriteString(endpoint)
	b.WriteByte('?')
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteByte('=')
		if f.Name == BuyerEmailField {
			b.WriteString(f.Value)
		} else {
			b.WriteString(escape(f.Value))
		}
		b.WriteByte('&')
	}
	b.WriteString(ChecksumField)
	b.WriteByte('=')
	b.WriteString(checksum)
	return b.String()
}

func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
