package client

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/zitadel/schema"
)

var encoder = func() *schema.Encoder {
	e := schema.NewEncoder()
	e.RegisterEncoder([]string{}, func(value reflect.Value) string {
		return strings.Join(value.Interface().([]string), " ")
	})
	return e
}()

// Parameters is an ordered set of form parameters.
// Keys are unique; overwriting a key keeps its original position.
// The zero value is ready to use. Parameters is not safe for concurrent use.
type Parameters struct {
	keys   []string
	values map[string]string
}

// NewParameters creates Parameters from key/value pairs.
// A trailing key without value is ignored.
func NewParameters(pairs ...string) *Parameters {
	p := new(Parameters)
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Set(pairs[i], pairs[i+1])
	}
	return p
}

// ParametersFromStruct encodes a struct with `schema` tags into Parameters.
// Keys are added in sorted order; multi-valued fields are space delimited.
func ParametersFromStruct(v any) (*Parameters, error) {
	form := make(map[string][]string)
	if err := encoder.Encode(v, form); err != nil {
		return nil, fmt.Errorf("encode parameters: %w", err)
	}
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := new(Parameters)
	for _, k := range keys {
		p.AddOptional(k, strings.Join(form[k], " "))
	}
	return p, nil
}

func isMissing(value string) bool {
	return strings.TrimSpace(value) == ""
}

// AddRequired inserts or overwrites key.
// An empty or whitespace value is rejected with ErrMissingParameter
// unless allowEmpty is set.
func (p *Parameters) AddRequired(key, value string, allowEmpty bool) error {
	if isMissing(value) && !allowEmpty {
		return fmt.Errorf("%w: %s", ErrMissingParameter, key)
	}
	p.Set(key, value)
	return nil
}

// AddOptional inserts or overwrites key, unless value is empty or whitespace.
func (p *Parameters) AddOptional(key, value string) {
	if isMissing(value) {
		return
	}
	p.Set(key, value)
}

// Set inserts or overwrites key without any value check.
func (p *Parameters) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Parameters) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

func (p *Parameters) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

func (p *Parameters) Delete(key string) {
	if !p.Has(key) {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Parameters) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

func (p *Parameters) Values() url.Values {
	values := make(url.Values, p.Len())
	for _, k := range p.Keys() {
		values.Set(k, p.values[k])
	}
	return values
}

// Encode returns the parameters as application/x-www-form-urlencoded,
// in insertion order.
func (p *Parameters) Encode() string {
	var buf strings.Builder
	for _, k := range p.Keys() {
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(k))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(p.values[k]))
	}
	return buf.String()
}

// Clone returns an independent copy. Cloning nil yields empty Parameters.
func (p *Parameters) Clone() *Parameters {
	c := new(Parameters)
	for _, k := range p.Keys() {
		c.Set(k, p.values[k])
	}
	return c
}
