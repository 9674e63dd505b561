package logging

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

const (
	maxDumpDepth = 8
	maxDumpElems = 16
)

// Dump logs a full-depth rendering of v at debug severity. Pointers are
// followed, cycles cut at the first revisit and depth capped, so arbitrary
// object graphs are safe to pass. Costs nothing when debug is filtered.
func (s *Service) Dump(v interface{}) {
	if !s.levelEnabled(zerolog.DebugLevel) {
		return
	}
	var b strings.Builder
	writeDumpValue(&b, reflect.ValueOf(v), 0, map[uintptr]struct{}{})
	ev := s.buildEvent(nil, zerolog.DebugLevel)
	if isNoopEvent(ev) {
		return
	}
	ev.CallerSkipFrame(1).Msg(b.String())
}

func writeDumpValue(b *strings.Builder, v reflect.Value, depth int, seen map[uintptr]struct{}) {
	if depth > maxDumpDepth {
		b.WriteString("...")
		return
	}
	if !v.IsValid() {
		b.WriteString("<nil>")
		return
	}
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		ptr := v.Pointer()
		if _, ok := seen[ptr]; ok {
			b.WriteString("<cycle>")
			return
		}
		seen[ptr] = struct{}{}
		b.WriteString("&")
		writeDumpValue(b, v.Elem(), depth, seen)
	case reflect.Interface:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		writeDumpValue(b, v.Elem(), depth, seen)
	case reflect.Struct:
		t := v.Type()
		b.WriteString(t.Name())
		b.WriteString("{")
		wrote := false
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != emptyString {
				continue
			}
			if wrote {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			writeDumpValue(b, v.Field(i), depth+1, seen)
			wrote = true
		}
		b.WriteString("}")
	case reflect.Map:
		if v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		b.WriteString("map{")
		for i, k := range keys {
			if i == maxDumpElems {
				fmt.Fprintf(b, ", ...%d more", len(keys)-maxDumpElems)
				break
			}
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%v: ", k.Interface())
			writeDumpValue(b, v.MapIndex(k), depth+1, seen)
		}
		b.WriteString("}")
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			b.WriteString("<nil>")
			return
		}
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			fmt.Fprintf(b, "0x%x", v.Bytes())
			return
		}
		b.WriteString("[")
		n := v.Len()
		for i := 0; i < n; i++ {
			if i == maxDumpElems {
				fmt.Fprintf(b, ", ...%d more", n-maxDumpElems)
				break
			}
			if i > 0 {
				b.WriteString(", ")
			}
			writeDumpValue(b, v.Index(i), depth+1, seen)
		}
		b.WriteString("]")
	case reflect.String:
		fmt.Fprintf(b, "%q", v.String())
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		b.WriteString(v.Type().String())
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
