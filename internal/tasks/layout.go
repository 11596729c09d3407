package tasks

import (
	"bytes"

	"github.com/go-json-experiment/json/jsontext"
)

// member is one name/value pair of a JSON object, in document order.
type member struct {
	name  string
	value jsontext.Value
}

// mergeLayout rewrites cur so that it follows the member order of orig.
// Members present in orig keep their original position and, when their
// value is unchanged, their original bytes. Members that were absent in orig
// are appended only when they carry a non-empty value, and original members
// holding an empty value survive even if cur omits them.
func mergeLayout(orig, cur jsontext.Value) (jsontext.Value, error) {
	orig = bytes.TrimSpace(orig)
	cur = bytes.TrimSpace(cur)
	if sameJSON(orig, cur) || (isEmptyJSON(orig) && isEmptyJSON(cur)) {
		return orig, nil
	}
	switch {
	case orig.Kind() == '{' && cur.Kind() == '{':
		return mergeObject(orig, cur)
	case orig.Kind() == '[' && cur.Kind() == '[':
		return mergeArray(orig, cur)
	}
	return cur, nil
}

func mergeObject(orig, cur jsontext.Value) (jsontext.Value, error) {
	origMembers, err := objectMembers(orig)
	if err != nil {
		return nil, err
	}
	curMembers, err := objectMembers(cur)
	if err != nil {
		return nil, err
	}
	current := make(map[string]jsontext.Value, len(curMembers))
	for _, m := range curMembers {
		current[m.name] = m.value
	}

	out := make([]member, 0, len(curMembers))
	seen := make(map[string]bool, len(origMembers))
	for _, m := range origMembers {
		seen[m.name] = true
		v, ok := current[m.name]
		if !ok {
			if isEmptyJSON(m.value) {
				out = append(out, m)
			}
			continue
		}
		merged, err := mergeLayout(m.value, v)
		if err != nil {
			return nil, err
		}
		out = append(out, member{m.name, merged})
	}
	for _, m := range curMembers {
		if seen[m.name] || isEmptyJSON(m.value) {
			continue
		}
		out = append(out, m)
	}
	return writeObject(out)
}

// mergeArray merges element by element. Arrays whose length changed are
// taken from cur as they are.
func mergeArray(orig, cur jsontext.Value) (jsontext.Value, error) {
	origElems, err := arrayElements(orig)
	if err != nil {
		return nil, err
	}
	curElems, err := arrayElements(cur)
	if err != nil {
		return nil, err
	}
	if len(origElems) != len(curElems) {
		return cur, nil
	}

	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return nil, err
	}
	for i := range origElems {
		v, err := mergeLayout(origElems[i], curElems[i])
		if err != nil {
			return nil, err
		}
		if err := enc.WriteValue(v); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return nil, err
	}
	return jsontext.Value(bytes.TrimSpace(buf.Bytes())), nil
}

func objectMembers(v jsontext.Value) ([]member, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(v), jsontext.AllowDuplicateNames(true))
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	var out []member
	for dec.PeekKind() != '}' {
		name, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		out = append(out, member{name: name.String(), value: val.Clone()})
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return out, nil
}

func arrayElements(v jsontext.Value) ([]jsontext.Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(v))
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	var out []jsontext.Value
	for dec.PeekKind() != ']' {
		val, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		out = append(out, val.Clone())
	}
	if _, err := dec.ReadToken(); err != nil {
		return nil, err
	}
	return out, nil
}

func writeObject(members []member) (jsontext.Value, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.AllowDuplicateNames(true))
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return nil, err
	}
	for _, m := range members {
		if err := enc.WriteToken(jsontext.String(m.name)); err != nil {
			return nil, err
		}
		if err := enc.WriteValue(m.value); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return jsontext.Value(bytes.TrimSpace(buf.Bytes())), nil
}

// sameJSON reports whether a and b encode the same value, ignoring
// whitespace, member order and number spelling.
func sameJSON(a, b jsontext.Value) bool {
	ca, cb := a.Clone(), b.Clone()
	if ca.Canonicalize() != nil || cb.Canonicalize() != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// isEmptyJSON reports whether v is null, false, zero, "", [] or {}.
func isEmptyJSON(v jsontext.Value) bool {
	c := jsontext.Value(bytes.Clone(bytes.TrimSpace(v)))
	if c.Compact() != nil {
		return false
	}
	switch string(c) {
	case "null", "false", "0", `""`, "[]", "{}":
		return true
	}
	return false
}

// documentIndent returns the indentation unit used by data, or "" when the
// document is written on a single line.
func documentIndent(data []byte) (string, bool) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return "", false
	}
	rest := data[i+1:]
	n := 0
	for n < len(rest) && (rest[n] == ' ' || rest[n] == '\t') {
		n++
	}
	if n == 0 {
		return "  ", true
	}
	return string(rest[:n]), true
}

// formatLike lays out v with the indentation and trailing newline of orig.
func formatLike(v jsontext.Value, orig []byte) ([]byte, error) {
	out := v.Clone()
	if indent, multiline := documentIndent(bytes.TrimSpace(orig)); multiline {
		if err := out.Indent(jsontext.WithIndent(indent)); err != nil {
			return nil, err
		}
	} else if err := out.Compact(); err != nil {
		return nil, err
	}
	if bytes.HasSuffix(orig, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}
