// Package menu builds the Maven menu files for the editor package: the
// context and side-bar menus, and the flat command palette list.
package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// CommandArgs are the arguments passed to the maven command.
//
// Nil and empty slices differ on the wire: a nil Goals or Props omits the
// key, while an empty Goals is written as [] and marks the catch-all entry.
// Args decoded from the user's settings are written back with the same
// keys in the same order, nulls and unknown keys included.
type CommandArgs struct {
	Paths []string
	Goals []string
	Props []string

	// Extra holds argument keys the menu does not interpret. They reach
	// the maven command untouched.
	Extra map[string]json.RawMessage

	keys []string
}

// MarshalJSON writes the decoded key order when there is one, otherwise
// paths, goals, props and then any extras by name.
func (a CommandArgs) MarshalJSON() ([]byte, error) {
	keys := a.keys
	if keys == nil {
		keys = []string{"paths"}
		if a.Goals != nil {
			keys = append(keys, "goals")
		}
		if a.Props != nil {
			keys = append(keys, "props")
		}
		keys = append(keys, sortedKeys(a.Extra)...)
	}

	var w objectWriter
	for _, k := range keys {
		if raw, ok := a.Extra[k]; ok {
			w.raw(k, raw)
			continue
		}
		var err error
		switch k {
		case "paths":
			paths := a.Paths
			if paths == nil && a.keys == nil {
				paths = []string{}
			}
			err = w.field(k, paths)
		case "goals":
			err = w.field(k, a.Goals)
		case "props":
			err = w.field(k, a.Props)
		}
		if err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// UnmarshalJSON keeps the absent/empty/null distinction for every list.
func (a *CommandArgs) UnmarshalJSON(data []byte) error {
	keys, values, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("args: %w", err)
	}

	out := CommandArgs{keys: keys}
	for _, k := range keys {
		raw := values[k]
		var err error
		switch k {
		case "paths":
			err = json.Unmarshal(raw, &out.Paths)
		case "goals":
			err = json.Unmarshal(raw, &out.Goals)
		case "props":
			err = json.Unmarshal(raw, &out.Props)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[k] = raw
		}
		if err != nil {
			return fmt.Errorf("args.%s: %w", k, err)
		}
	}
	*a = out
	return nil
}

// CommandDescriptor is one invocable build action exposed in a menu.
type CommandDescriptor struct {
	Caption string
	Command string
	Args    *CommandArgs

	// Extra holds menu item keys such as mnemonic or platform, copied to
	// both the palette and the menus.
	Extra map[string]json.RawMessage

	keys []string
}

// MarshalJSON writes caption, command, args, then extras, or the decoded
// key order when there is one.
func (d CommandDescriptor) MarshalJSON() ([]byte, error) {
	keys := d.keys
	if keys == nil {
		keys = []string{"caption"}
		if d.Command != "" {
			keys = append(keys, "command")
		}
		if d.Args != nil {
			keys = append(keys, "args")
		}
		keys = append(keys, sortedKeys(d.Extra)...)
	}

	var w objectWriter
	for _, k := range keys {
		if raw, ok := d.Extra[k]; ok {
			w.raw(k, raw)
			continue
		}
		var err error
		switch k {
		case "caption":
			err = w.field(k, d.Caption)
		case "command":
			err = w.field(k, d.Command)
		case "args":
			err = w.field(k, d.Args)
		}
		if err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// UnmarshalJSON decodes one settings entry, keeping unknown keys.
func (d *CommandDescriptor) UnmarshalJSON(data []byte) error {
	keys, values, err := decodeObject(data)
	if err != nil {
		return err
	}

	out := CommandDescriptor{keys: keys}
	for _, k := range keys {
		raw := values[k]
		var err error
		switch k {
		case "caption":
			err = json.Unmarshal(raw, &out.Caption)
		case "command":
			err = json.Unmarshal(raw, &out.Command)
		case "args":
			err = json.Unmarshal(raw, &out.Args)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[k] = raw
		}
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	*d = out
	return nil
}

// IsCatchAll reports whether d runs maven with no fixed goals.
func (d CommandDescriptor) IsCatchAll() bool {
	return d.Args != nil && d.Args.Goals != nil && len(d.Args.Goals) == 0
}

// MenuItem is a node in a .sublime-menu tree. A leaf command carries
// Command and Args; a submenu carries Children; a separator has Caption "-".
type MenuItem struct {
	Caption  string       `json:"caption"`
	ID       string       `json:"id,omitempty"`
	Command  string       `json:"command,omitempty"`
	Args     *CommandArgs `json:"args,omitempty"`
	Children []MenuItem   `json:"children,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`

	keys []string
}

// MarshalJSON writes caption, id, command, args, children, then extras.
// Leaves built from a decoded descriptor keep its key order.
func (m MenuItem) MarshalJSON() ([]byte, error) {
	keys := m.keys
	if keys == nil {
		keys = []string{"caption"}
		if m.ID != "" {
			keys = append(keys, "id")
		}
		if m.Command != "" {
			keys = append(keys, "command")
		}
		if m.Args != nil {
			keys = append(keys, "args")
		}
		if len(m.Children) > 0 {
			keys = append(keys, "children")
		}
		keys = append(keys, sortedKeys(m.Extra)...)
	}

	var w objectWriter
	for _, k := range keys {
		if raw, ok := m.Extra[k]; ok {
			w.raw(k, raw)
			continue
		}
		var err error
		switch k {
		case "caption":
			err = w.field(k, m.Caption)
		case "id":
			err = w.field(k, m.ID)
		case "command":
			err = w.field(k, m.Command)
		case "args":
			err = w.field(k, m.Args)
		case "children":
			err = w.field(k, m.Children)
		}
		if err != nil {
			return nil, err
		}
	}
	return w.bytes(), nil
}

// Item converts a descriptor into a leaf menu node.
func (d CommandDescriptor) Item() MenuItem {
	return MenuItem{
		Caption: d.Caption,
		Command: d.Command,
		Args:    d.Args,
		Extra:   d.Extra,
		keys:    d.keys,
	}
}

// Clone returns a deep copy so a run never mutates caller-owned slices.
func (d CommandDescriptor) Clone() CommandDescriptor {
	out := d
	out.keys = cloneStrings(d.keys)
	out.Extra = cloneRaw(d.Extra)
	if d.Args != nil {
		args := CommandArgs{
			Paths: cloneStrings(d.Args.Paths),
			Goals: cloneStrings(d.Args.Goals),
			Props: cloneStrings(d.Args.Props),
			Extra: cloneRaw(d.Args.Extra),
			keys:  cloneStrings(d.Args.keys),
		}
		out.Args = &args
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneRaw(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeObject reads a JSON object, returning its keys in document order.
// A repeated key keeps its first position and its last value.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected an object, got %v", tok)
	}

	keys := []string{}
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	return keys, values, nil
}

// objectWriter assembles a compact JSON object field by field.
type objectWriter struct {
	buf bytes.Buffer
}

func (w *objectWriter) field(name string, v any) error {
	b, err := marshal(v)
	if err != nil {
		return err
	}
	w.raw(name, b)
	return nil
}

func (w *objectWriter) raw(name string, value []byte) {
	if w.buf.Len() == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	key, _ := marshal(name)
	w.buf.Write(key)
	w.buf.WriteByte(':')
	w.buf.Write(value)
}

func (w *objectWriter) bytes() []byte {
	if w.buf.Len() == 0 {
		return []byte("{}")
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}

// marshal encodes v without HTML escaping so captions like "<none>" stay readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
