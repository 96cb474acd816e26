package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"
)

// Well-known metadata keys.
const (
	KeyStatus         = "status"
	KeyImportance     = "importance"
	KeyOrigin         = "origin"
	KeyScope          = "scope"
	KeyProjectID      = "projectId"
	KeyTTLSeconds     = "ttlSeconds"
	KeyExpiresAt      = "expiresAt"
	KeyFlags          = "flags"
	KeyMemoryMode     = "memoryMode"
	KeyType           = "type"
	KeySourceID       = "sourceId"
	KeyConversationID = "conversationId"
	KeyMessageID      = "messageId"
	KeyDocumentID     = "documentId"
	KeyChunkIndex     = "chunkIndex"
	KeyFilename       = "filename"
)

// FlagNoVector opts a record out of vector indexing regardless of its type.
const FlagNoVector = "no_vector"

// Memory modes. Off and ephemeral writes leave no durable trace.
const (
	ModeFull      = "full"
	ModeOff       = "off"
	ModeEphemeral = "ephemeral"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindStrings
)

// Value is a metadata value: a string, a number, a bool or a list of strings.
// The zero Value is invalid and is never stored in Metadata.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	strs    []string
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Strings returns a string-list Value. The slice is copied.
func Strings(ss ...string) Value {
	return Value{kind: KindStrings, strs: slices.Clone(ss)}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the bool held by v.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// AsStrings returns the string list held by v.
func (v Value) AsStrings() ([]string, bool) { return v.strs, v.kind == KindStrings }

// Any converts v to a plain Go value (string, float64, bool or []any).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.boolean
	case KindStrings:
		out := make([]any, len(v.strs))
		for i, s := range v.strs {
			out[i] = s
		}
		return out
	}
	return nil
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.boolean == o.boolean
	case KindStrings:
		return slices.Equal(v.strs, o.strs)
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("metadata number %v is not representable in JSON", v.num)
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler. Objects, nulls and lists that
// are not made only of strings are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty metadata value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '[':
		var ss []string
		if err := json.Unmarshal(data, &ss); err != nil {
			return fmt.Errorf("metadata list must contain only strings: %w", err)
		}
		if ss == nil {
			ss = []string{}
		}
		*v = Value{kind: KindStrings, strs: ss}
	case 'n':
		return fmt.Errorf("null metadata value")
	case '{':
		return fmt.Errorf("nested metadata objects are not supported")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// Metadata is the open key-value bag attached to records and vector rows.
type Metadata map[string]Value

// ParseMetadata decodes stored metadata JSON. Malformed input yields empty
// metadata and a single unsupported value drops only its own key, so one bad
// row never breaks a query. The second return value reports whether anything
// had to be discarded.
func ParseMetadata(raw []byte) (Metadata, bool) {
	m := Metadata{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return m, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return m, true
	}
	lossy := false
	for k, rawVal := range fields {
		var v Value
		if err := v.UnmarshalJSON(rawVal); err != nil {
			lossy = true
			continue
		}
		m[k] = v
	}
	return m, lossy
}

// FromMap converts loosely typed JSON-style metadata into Metadata.
// Integers and floats become numbers, []string and []any made of strings
// become string lists; anything else (nil, nested maps, mixed lists) is
// dropped and its key reported in the second return value.
func FromMap(in map[string]any) (Metadata, []string) {
	m := make(Metadata, len(in))
	var dropped []string
	for k, raw := range in {
		v, ok := valueFromAny(raw)
		if !ok {
			dropped = append(dropped, k)
			continue
		}
		m[k] = v
	}
	slices.Sort(dropped)
	return m, dropped
}

func valueFromAny(raw any) (Value, bool) {
	switch x := raw.(type) {
	case string:
		return String(x), true
	case bool:
		return Bool(x), true
	case float64:
		return Number(x), true
	case float32:
		return Number(float64(x)), true
	case int:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case int32:
		return Number(float64(x)), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	case []string:
		return Strings(x...), true
	case []any:
		ss := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, false
			}
			ss = append(ss, s)
		}
		return Strings(ss...), true
	case Value:
		return x, x.kind != 0
	}
	return Value{}, false
}

// Marshal encodes m as a JSON object. Nil metadata encodes as "{}".
func (m Metadata) Marshal() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Value(m))
}

// Clone returns a copy of m that shares no slices with it.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if v.kind == KindStrings {
			v.strs = slices.Clone(v.strs)
		}
		out[k] = v
	}
	return out
}

// ToMap converts m into plain Go values, e.g. for JSON responses or
// payloads of other stores.
func (m Metadata) ToMap() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Any()
	}
	return out
}

// GetString returns the string stored under key.
func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetNumber returns the number stored under key.
func (m Metadata) GetNumber(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

// Status returns the lifecycle status recorded in the metadata, or "" if none.
func (m Metadata) Status() Status {
	s, _ := m.GetString(KeyStatus)
	return Status(s)
}

// HasFlag reports whether the flags list contains flag.
func (m Metadata) HasFlag(flag string) bool {
	v, ok := m[KeyFlags]
	if !ok {
		return false
	}
	flags, ok := v.AsStrings()
	return ok && slices.Contains(flags, flag)
}

// MemoryMode returns the memoryMode value, or "" if unset.
func (m Metadata) MemoryMode() string {
	s, _ := m.GetString(KeyMemoryMode)
	return s
}

// Expired reports whether a row created at createdAt has outlived its
// expiresAt timestamp or its ttlSeconds window. Rows without either field
// never expire. Unparseable expiresAt values and non-positive TTLs are ignored.
func (m Metadata) Expired(createdAt, now time.Time) bool {
	if raw, ok := m.GetString(KeyExpiresAt); ok {
		if at, ok := parseExpiry(raw); ok && !at.After(now) {
			return true
		}
	}
	if ttl, ok := m.GetNumber(KeyTTLSeconds); ok && ttl > 0 && !math.IsInf(ttl, 0) {
		// Compared in seconds: a TTL beyond the Duration range never expires.
		if ttl <= now.Sub(createdAt).Seconds() {
			return true
		}
	}
	return false
}

// parseExpiry accepts an RFC 3339 timestamp or a bare date, read as
// midnight UTC.
func parseExpiry(raw string) (time.Time, bool) {
	if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return at, true
	}
	if at, err := time.Parse(time.DateOnly, raw); err == nil {
		return at, true
	}
	return time.Time{}, false
}
