package oidc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

type Audience []string

func (a *Audience) UnmarshalJSON(text []byte) error {
	var i any
	err := json.Unmarshal(text, &i)
	if err != nil {
		return err
	}
	switch aud := i.(type) {
	case []any:
		*a = make([]string, 0, len(aud))
		for _, audience := range aud {
			if s, ok := audience.(string); ok {
				*a = append(*a, s)
			}
		}
	case string:
		*a = []string{aud}
	}
	return nil
}

// SpaceDelimitedArray is a list serialized as a single space separated
// string, as used by the `scope` claim and parameter.
type SpaceDelimitedArray []string

func (s SpaceDelimitedArray) String() string {
	return strings.Join(s, " ")
}

func (s SpaceDelimitedArray) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SpaceDelimitedArray) UnmarshalText(text []byte) error {
	*s = strings.Fields(string(text))
	return nil
}

func (s SpaceDelimitedArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SpaceDelimitedArray) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = strings.Fields(str)
	return nil
}

// Locale is a BCP47 language tag claim. Invalid tags decode to the
// zero value instead of failing the surrounding document.
type Locale struct {
	tag language.Tag
}

func NewLocale(tag language.Tag) *Locale {
	return &Locale{tag: tag}
}

func (l *Locale) Tag() language.Tag {
	if l == nil {
		return language.Und
	}
	return l.tag
}

func (l *Locale) String() string {
	return l.Tag().String()
}

func (l *Locale) MarshalJSON() ([]byte, error) {
	if l == nil || l.tag.IsRoot() {
		return []byte("null"), nil
	}
	return json.Marshal(l.tag.String())
}

func (l *Locale) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil //nolint:nilerr
	}
	tag, err := language.Parse(str)
	if err != nil {
		return nil //nolint:nilerr
	}
	l.tag = tag
	return nil
}

type Locales []language.Tag

func (l *Locales) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	for _, locale := range list {
		tag, err := language.Parse(locale)
		if err == nil && !tag.IsRoot() {
			*l = append(*l, tag)
		}
	}
	return nil
}

// Time is a JSON numeric date: seconds since the epoch.
type Time int64

func FromTime(tt time.Time) Time {
	if tt.IsZero() {
		return 0
	}
	return Time(tt.Unix())
}

func (ts Time) AsTime() time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(int64(ts), 0).UTC()
}

func (ts *Time) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*ts = Time(x)
	case nil:
		*ts = 0
	default:
		return fmt.Errorf("oidc: invalid numeric date %s", data)
	}
	return nil
}
