package shared

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// MergePatch shallow-merges patch onto dst (a pointer to a struct). Only
// keys present in patch are written; every other field keeps its value.
// Keys are matched against json tags. A present key replaces the field
// wholesale, so a patched list does not keep trailing old elements. Keys
// listed in protected are dropped before merging.
func MergePatch(dst any, patch map[string]any, protected ...string) error {
	if len(patch) == 0 {
		return nil
	}
	filtered := make(map[string]any, len(patch))
	for k, v := range patch {
		filtered[k] = v
	}
	for _, k := range protected {
		delete(filtered, k)
	}

	resetFields(dst, filtered)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			valueobject.MoneyDecodeHook,
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(filtered); err != nil {
		return NewValidationError("invalid patch: %v", err)
	}
	return nil
}

// resetFields zeroes the fields of the struct behind dst whose json name
// is a key of patch. mapstructure decodes slices and maps into existing
// values element by element otherwise.
func resetFields(dst any, patch map[string]any) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		for key := range patch {
			if strings.EqualFold(key, name) {
				v.Field(i).SetZero()
				break
			}
		}
	}
}
