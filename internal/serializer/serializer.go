// Package serializer renders entities to JSON through explicit per-field
// metadata: each field declares the groups it belongs to and the API version
// that introduced it, and Phone payloads carry per-principal _links.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	GroupPhones = "getPhones"
	GroupUsers  = "getUsers"
)

// Context selects what a single Marshal call emits.
type Context struct {
	Groups []string
	// Version suppresses fields introduced after it. Empty means latest.
	Version string
	// Roles of the requesting principal, used by link filters.
	Roles []string
}

func NewContext(version string, roles []string, groups ...string) Context {
	return Context{Groups: groups, Version: version, Roles: roles}
}

func (c Context) IsGranted(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Context) matches(groups []string) bool {
	for _, want := range c.Groups {
		for _, g := range groups {
			if g == want {
				return true
			}
		}
	}
	return false
}

// Field describes one serialized property of T.
type Field[T any] struct {
	Name   string
	Groups []string
	Since  string
	Value  func(v T, ctx Context) (any, error)
}

// Link is one relation rendered under "_links".
type Link[T any] struct {
	Rel    string
	Groups []string
	Href   func(v T) string
	// Allow filters the link per principal. Nil means always shown.
	Allow func(ctx Context) bool
}

type Schema[T any] struct {
	Fields []Field[T]
	Links  []Link[T]
}

type href struct {
	Href string `json:"href"`
}

// Marshal renders v as a JSON object with fields in table order.
func (s Schema[T]) Marshal(v T, ctx Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.write(&buf, v, ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalList renders vs as a JSON array. A nil or empty slice gives [].
func (s Schema[T]) MarshalList(vs []T, ctx Context) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := s.write(&buf, v, ctx); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (s Schema[T]) write(buf *bytes.Buffer, v T, ctx Context) error {
	buf.WriteByte('{')
	n := 0
	for _, f := range s.Fields {
		if !ctx.matches(f.Groups) || !sinceVisible(f.Since, ctx.Version) {
			continue
		}
		val, err := f.Value(v, ctx)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", f.Name, err)
		}
		if err := writeMember(buf, n, f.Name, val); err != nil {
			return err
		}
		n++
	}

	links := make([]string, 0, len(s.Links))
	values := make(map[string]href, len(s.Links))
	for _, l := range s.Links {
		if !ctx.matches(l.Groups) || (l.Allow != nil && !l.Allow(ctx)) {
			continue
		}
		links = append(links, l.Rel)
		values[l.Rel] = href{Href: l.Href(v)}
	}
	if len(links) > 0 {
		var lb bytes.Buffer
		lb.WriteByte('{')
		for i, rel := range links {
			if err := writeMember(&lb, i, rel, values[rel]); err != nil {
				return err
			}
		}
		lb.WriteByte('}')
		if err := writeMember(buf, n, "_links", json.RawMessage(lb.Bytes())); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeMember(buf *bytes.Buffer, idx int, name string, val any) error {
	if idx > 0 {
		buf.WriteByte(',')
	}
	key, err := json.Marshal(name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", name, err)
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(raw)
	return nil
}
