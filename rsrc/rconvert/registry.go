package rconvert

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtemplate"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
)

// Registry maps resource types to converters. A registry is built up front
// and read-only afterwards, so one registry can serve any number of
// conversions.
type Registry struct {
	converters map[rtype.Type]Converter
}

func NewRegistry() *Registry {
	return &Registry{
		converters: map[rtype.Type]Converter{},
	}
}

func (r *Registry) Register(t rtype.Type, c Converter) {
	r.converters[t] = c
}

// Lookup never fails: types without a registered converter get the hex
// fallback.
func (r *Registry) Lookup(t rtype.Type) Converter {
	if c, ok := r.converters[t]; ok {
		return c
	}
	return HexConverter{}
}

// RegisterSpec parses one "TYPE:format[:name,name,…]" struct spec line and
// registers the resulting converter. "//" starts a comment; blank lines are
// ignored.
func (r *Registry) RegisterSpec(line string) error {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	typeName, templateString, ok := strings.Cut(line, ":")
	if !ok {
		return errors.Errorf(`struct spec "%s" is missing a format`, line)
	}
	resType, err := rtype.Parse(strings.TrimSpace(typeName))
	if err != nil {
		return errors.Wrapf(err, `struct spec "%s"`, line)
	}
	template, err := rtemplate.FromTemplateString(strings.TrimRight(templateString, ", "))
	if err != nil {
		return errors.Wrapf(err, `struct spec "%s"`, line)
	}

	r.Register(resType, &StructConverter{Template: template})
	return nil
}

// RegisterSpecs parses a whole spec catalogue, one spec per line.
func (r *Registry) RegisterSpecs(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if err := r.RegisterSpec(line); err != nil {
			return err
		}
	}
	return nil
}

// DecodeResource converts one resource, downgrading any conversion error to
// the hex fallback so a single malformed resource cannot poison the rest of
// the fork. The returned diagnostic is empty on success.
func (r *Registry) DecodeResource(res *rfork.Resource) (jsonKey string, value any, diagnostic string) {
	converter := r.Lookup(res.Type)
	value, err := converter.Decode(res)
	if err == nil {
		return converter.JSONKey(), value, ""
	}

	fallback := HexConverter{}
	value, _ = fallback.Decode(res)
	return fallback.JSONKey(), value, err.Error()
}

// EncoderFor resolves the inverse converter for a decoded object. Types
// without a registered struct template cannot rebuild an "obj" payload.
func (r *Registry) EncoderFor(t rtype.Type, id int16) (Encoder, error) {
	converter, ok := r.converters[t]
	if !ok {
		return nil, ErrNoEncoder{TypeName: rtype.Sanitize(t), ID: id}
	}
	encoder, ok := converter.(Encoder)
	if !ok {
		return nil, ErrNoEncoder{TypeName: rtype.Sanitize(t), ID: id}
	}
	return encoder, nil
}
