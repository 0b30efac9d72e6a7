package bedrock

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// Service identifies one of the backend reporting endpoints.
type Service string

const (
	ServiceAnalytics     Service = "analytics"
	ServiceSearchConsole Service = "searchConsole"
	ServicePageSpeed     Service = "pageSpeed"
)

// CacheKey identifies a cacheable request scope.
type CacheKey = string

const keyFieldSeparator = "|"

// defaultKeyFields lists, per service, the request fields (by JSON name) that
// decide whether two requests share a cache entry. Fields not listed never
// influence the key.
var defaultKeyFields = map[Service][]string{
	ServiceAnalytics:     {"range"},
	ServiceSearchConsole: {"range", "siteUrl"},
	ServicePageSpeed:     {"siteUrl"},
}

// Services returns the known services in a stable order.
func Services() []Service {
	return []Service{ServiceAnalytics, ServiceSearchConsole, ServicePageSpeed}
}

// Valid reports whether s is a known service.
func (s Service) Valid() bool {
	_, ok := defaultKeyFields[s]
	return ok
}

// KeyFields returns a copy of the default allow-list for s.
func (s Service) KeyFields() []string {
	return append([]string(nil), defaultKeyFields[s]...)
}

// DeriveKey builds the cache key for a request to svc using the default
// allow-list. params may be a map[string]any or any JSON-encodable value.
func DeriveKey(svc Service, params any) CacheKey {
	return deriveKey(svc, defaultKeyFields[svc], params)
}

func deriveKey(svc Service, fields []string, params any) CacheKey {
	var b strings.Builder
	b.WriteString(string(svc))
	b.WriteByte('-')

	values := fieldMap(params)
	first := true
	for _, field := range fields {
		v, ok := values[field]
		if !ok || isFalsy(v) {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			continue
		}
		if !first {
			b.WriteString(keyFieldSeparator)
		}
		first = false
		b.WriteString(field)
		b.WriteByte(':')
		b.Write(encoded)
	}

	return b.String()
}

// fieldMap exposes params by JSON field name.
func fieldMap(params any) map[string]any {
	switch p := params.(type) {
	case nil:
		return nil
	case map[string]any:
		return p
	case map[string]string:
		m := make(map[string]any, len(p))
		for k, v := range p {
			m[k] = v
		}
		return m
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// isFalsy treats nil, false, "", numeric zero and NaN as absent. Empty but
// non-nil slices and maps still count as present.
func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Slice, reflect.Map:
		return rv.IsNil()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isFalsy(rv.Elem().Interface())
	default:
		return false
	}
}
