package rtemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func fieldSize(code byte) (int, bool) {
	switch code {
	case 'B', 'b', '?', 'x':
		return 1, true
	case 'H', 'h':
		return 2, true
	case 'I', 'L', 'i', 'l', 'f':
		return 4, true
	case 'Q', 'q', 'd':
		return 8, true
	}
	return 0, false
}

// FromTemplateString compiles a "format[:name,name,…]" template string.
func FromTemplateString(template string) (*Template, error) {
	format, namePart, hasNames := strings.Cut(template, ":")
	var names []string
	if hasNames {
		names = strings.Split(namePart, ",")
	}
	return Compile(format, names)
}

// Compile builds a Template from a format string and an optional list of
// field names bound positionally to the non-padding fields.
func Compile(format string, fieldNames []string) (*Template, error) {
	t := &Template{}

	if strings.HasSuffix(format, "+") {
		t.IsList = true
		format = strings.TrimSuffix(format, "+")
	}
	if len(format) > 0 && strings.IndexByte("@!><=", format[0]) >= 0 {
		// Byte-order markers are tolerated for familiarity, but the wire
		// format is always big-endian.
		format = format[1:]
	}

	fields, err := splitFormatFields(format)
	if err != nil {
		return nil, err
	}
	t.Fields = fields
	for _, f := range fields {
		t.RecordLength += f.Size
	}

	expanded, err := expandFieldNames(fieldNames)
	if err != nil {
		return nil, err
	}
	t.Names = bindFieldNames(fields, expanded)

	return t, nil
}

func splitFormatFields(format string) ([]Field, error) {
	fields := make([]Field, 0, len(format))
	repeat := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			continue
		case c >= '0' && c <= '9':
			repeat = repeat*10 + int(c-'0')
			continue
		case c == 's':
			// A repeat count on a string is its byte length, one field.
			size := repeat
			if size == 0 {
				size = 1
			}
			fields = append(fields, Field{Code: 's', Size: size})
		default:
			size, ok := fieldSize(c)
			if !ok {
				return nil, ErrUnsupportedFieldCode{Code: c}
			}
			count := repeat
			if count == 0 {
				count = 1
			}
			for j := 0; j < count; j++ {
				fields = append(fields, Field{Code: c, Size: size})
			}
		}
		repeat = 0
	}
	return fields, nil
}

// expandFieldNames resolves array-expansion directives of the shape
// "a`b[N]", which generate interleaved synthetic names a_0,b_0,a_1,b_1,…
// covering N consecutive runs of same-kind fields.
func expandFieldNames(fieldNames []string) ([]string, error) {
	expanded := make([]string, 0, len(fieldNames))
	for _, name := range fieldNames {
		if !strings.HasSuffix(name, "]") {
			expanded = append(expanded, name)
			continue
		}
		open := strings.IndexByte(name, '[')
		if open < 0 {
			expanded = append(expanded, name)
			continue
		}
		count, err := strconv.Atoi(name[open+1 : len(name)-1])
		if err != nil {
			return nil, errors.Wrapf(err, `bad repeat count in field name "%s"`, name)
		}
		parts := strings.Split(name[:open], "`")
		for i := 0; i < count; i++ {
			for _, part := range parts {
				expanded = append(expanded, fmt.Sprintf("%s_%d", part, i))
			}
		}
	}
	return expanded, nil
}

// bindFieldNames assigns names positionally to non-padding fields. Leftover
// names are silently dropped (array expansion is allowed to over-declare),
// and unnamed positions get the ".fieldN" placeholder so every value has a
// stable key.
func bindFieldNames(fields []Field, userNames []string) []string {
	names := make([]string, len(fields))
	nameIndex := 0
	for i, f := range fields {
		if f.Code == 'x' {
			continue
		}
		name := ""
		if nameIndex < len(userNames) {
			name = userNames[nameIndex]
			nameIndex++
		}
		if name == "" {
			name = fmt.Sprintf(".field%d", i)
		}
		names[i] = name
	}
	return names
}
