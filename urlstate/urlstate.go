// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package urlstate reads and writes a single named parameter in a page
// address while leaving every other parameter and the fragment untouched.
//
// The package works on the raw address text rather than on url.Values so
// that parameter order, empty segments and the original encoding of
// unrelated parameters survive a round trip byte for byte.
package urlstate

import (
	"net/url"
	"strings"
)

// DefaultParam is the parameter that carries the search query.
const DefaultParam = "q"

// address is a page address split into its three raw parts.
type address struct {
	base     string // everything before '?'
	query    string // raw query, without '?'
	hasQuery bool
	fragment string // raw fragment, without '#'
	hasFrag  bool
}

func parse(rawURL string) address {
	var a address
	rest := rawURL
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		a.fragment = rest[i+1:]
		a.hasFrag = true
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		a.query = rest[i+1:]
		a.hasQuery = true
		rest = rest[:i]
	}
	a.base = rest
	return a
}

func (a address) String() string {
	var b strings.Builder
	b.WriteString(a.base)
	if a.hasQuery && a.query != "" {
		b.WriteByte('?')
		b.WriteString(a.query)
	}
	if a.hasFrag {
		b.WriteByte('#')
		b.WriteString(a.fragment)
	}
	return b.String()
}

// segmentName returns the parameter name of a raw "name=value" segment.
func segmentName(segment string) string {
	if i := strings.IndexByte(segment, '='); i >= 0 {
		return segment[:i]
	}
	return segment
}

// GetParameter extracts the value of name from the query of rawURL.
// ok is false when the parameter is absent. A parameter without a value
// yields "" and true. '+' decodes to a space. A value that is not valid
// percent-encoding is reported as absent.
func GetParameter(rawURL, name string) (value string, ok bool) {
	a := parse(rawURL)
	if !a.hasQuery {
		return "", false
	}
	for _, segment := range strings.Split(a.query, "&") {
		if !strings.EqualFold(segmentName(segment), name) {
			continue
		}
		_, raw, _ := strings.Cut(segment, "=")
		decoded, err := url.PathUnescape(strings.ReplaceAll(raw, "+", " "))
		if err != nil {
			return "", false
		}
		return decoded, true
	}
	return "", false
}

// SetParameter returns rawURL with name set to value. An existing parameter
// is replaced in place; otherwise it is appended to the query.
func SetParameter(rawURL, name, value string) string {
	a := parse(rawURL)
	param := name + "=" + EncodeComponent(value)

	if a.hasQuery && a.query != "" {
		segments := strings.Split(a.query, "&")
		for i, segment := range segments {
			if strings.EqualFold(segmentName(segment), name) {
				segments[i] = param
				a.query = strings.Join(segments, "&")
				return a.String()
			}
		}
		a.query += "&" + param
		return a.String()
	}

	a.query = param
	a.hasQuery = true
	return a.String()
}

// RemoveParameter returns rawURL without any occurrence of name. The '?'
// separator is dropped when the query becomes empty.
func RemoveParameter(rawURL, name string) string {
	a := parse(rawURL)
	if !a.hasQuery {
		return rawURL
	}

	segments := strings.Split(a.query, "&")
	kept := segments[:0]
	removed := false
	for _, segment := range segments {
		if strings.EqualFold(segmentName(segment), name) {
			removed = true
			continue
		}
		kept = append(kept, segment)
	}
	if !removed {
		return rawURL
	}
	a.query = strings.Join(kept, "&")
	return a.String()
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s for use as a query value. Letters,
// digits and - _ . ! ~ * ' ( ) are left as is; every other byte of the
// UTF-8 encoding is escaped.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Codec binds the parameter functions to one parameter name.
type Codec struct {
	Name string
}

// NewCodec returns a codec for name, or for DefaultParam when name is empty.
func NewCodec(name string) Codec {
	if name == "" {
		name = DefaultParam
	}
	return Codec{Name: name}
}

func (c Codec) Get(rawURL string) (string, bool) {
	return GetParameter(rawURL, c.Name)
}

func (c Codec) Set(rawURL, value string) string {
	return SetParameter(rawURL, c.Name, value)
}

func (c Codec) Remove(rawURL string) string {
	return RemoveParameter(rawURL, c.Name)
}

// Sync writes value into rawURL, removing the parameter when value is empty.
func (c Codec) Sync(rawURL, value string) string {
	if value == "" {
		return c.Remove(rawURL)
	}
	return c.Set(rawURL, value)
}
