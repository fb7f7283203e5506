package layering

import "reflect"

// Mapping is a resolved or partial set of rendering options. Values are
// scalars, lists, or nested Mappings.
type Mapping = map[string]any

// Merge composes the three option layers with fixed precedence: metadata
// overrides callSite, which overrides defaults. None of the inputs are
// modified and the result shares no maps or slices with them.
func Merge(defaults, callSite, metadata Mapping) Mapping {
	return MergeLayers(metadata, callSite, defaults)
}

// MergeLayers composes mappings ordered from strongest to weakest, returning a
// new mapping that keeps explicit settings from stronger layers while filling
// any missing keys from weaker ones. Nested mappings present in both layers
// are merged recursively; every other value is replaced wholesale.
func MergeLayers(layers ...Mapping) Mapping {
	merged := Mapping{}
	for i := len(layers) - 1; i >= 0; i-- {
		merged = mergeMapping(layers[i], merged)
	}
	return merged
}

// mergeMapping returns weak overlaid by strong. weak is owned by the caller
// and may be reused for the result.
func mergeMapping(strong, weak Mapping) Mapping {
	if weak == nil {
		weak = Mapping{}
	}
	for key, value := range strong {
		if value == nil {
			// absent, never shadows a weaker value
			continue
		}
		strongNested, strongIsMap := asMapping(value)
		existing, ok := weak[key]
		if !strongIsMap || !ok {
			weak[key] = cloneValue(value)
			continue
		}
		weakNested, weakIsMap := asMapping(existing)
		if !weakIsMap {
			weak[key] = cloneValue(value)
			continue
		}
		weak[key] = mergeMapping(strongNested, weakNested)
	}
	return weak
}

// Clone returns a deep copy of m. Maps, slices, arrays and pointers of any
// type are copied; only immutable scalars are shared.
func Clone(m Mapping) Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	for key, value := range m {
		if value == nil {
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return Clone(typed)
	case map[any]any:
		if converted, ok := asMapping(typed); ok {
			return converted
		}
		return typed
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = cloneValue(typed[i])
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return cloneReflect(reflect.ValueOf(value)).Interface()
	}
}

// cloneReflect deep-copies containers the typed fast paths above do not
// cover, such as []int, map[string]string or []map[string]any.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneReflect(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		clone := reflect.New(v.Type()).Elem()
		clone.Set(cloneReflect(v.Elem()))
		return clone
	case reflect.Struct:
		// copy first so unexported state (time.Time) survives
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if field := clone.Field(i); field.CanSet() {
				field.Set(cloneReflect(v.Field(i)))
			}
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return clone
	default:
		return v
	}
}

// asMapping reports whether value is a nested mapping. Decoders such as YAML
// may hand back map[any]any; those are converted when every key is a string.
func asMapping(value any) (Mapping, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		out := make(Mapping, len(typed))
		for key, nested := range typed {
			name, ok := key.(string)
			if !ok {
				return nil, false
			}
			if nested == nil {
				continue
			}
			out[name] = cloneValue(nested)
		}
		return out, true
	default:
		return nil, false
	}
}
