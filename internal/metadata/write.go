package metadata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/solidcopy/tagcore/internal/handler"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/solidcopy/tagcore/internal/picture"
)

// Write applies fields and opts to the file at path and saves it.
//
// fields maps field names to values: string, []string, integers,
// model.NumberPair or nil to remove a field. Names outside the canonical
// schema are set natively when the tag format allows it. Options override
// fields for the same canonical field. A field that cannot be written
// becomes a warning in the returned report and the rest are still written.
//
// Writes to one path must not run concurrently.
func Write(path string, fields map[string]any, opts ...Option) (*Report, error) {
	c, err := handler.Open(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	report := &Report{Path: path}
	req := newRequest(opts)
	primary := c.Primary()

	canonical, raw := resolve(fields)
	for f, value := range req.named {
		canonical[f] = value
	}

	for _, f := range model.Fields {
		value, ok := canonical[f]
		if !ok {
			continue
		}
		if err := writeField(primary, f, value); err != nil {
			report.warn(string(f), err)
		}
	}

	for _, key := range sortedKeys(raw) {
		if err := writeRaw(primary, key, raw[key]); err != nil {
			report.warn(key, err)
		}
	}

	applyCustomFields(primary, req, report)
	applyPictures(primary, req, report)

	if err := c.Save(); err != nil {
		return report, fmt.Errorf("%s: save: %w", path, err)
	}

	report.log()
	return report, nil
}

// resolve splits the bulk mapping into canonical fields and native keys.
func resolve(fields map[string]any) (map[model.Field]any, map[string]any) {
	canonical := map[model.Field]any{}
	raw := map[string]any{}
	for name, value := range fields {
		if f, ok := model.LookupField(name); ok {
			canonical[f] = value
		} else {
			raw[name] = value
		}
	}
	return canonical, raw
}

func writeField(a handler.Adapter, f model.Field, value any) error {
	values, err := toStrings(value)
	if err != nil {
		return &model.FieldError{Field: string(f), Err: err}
	}

	values, err = model.Normalize(f, values)
	if err != nil {
		return err
	}

	if f.IsCatalog() {
		return writeCatalog(a, f, values)
	}

	return a.WriteField(f, values)
}

// writeCatalog stores a catalog field as an extension record under its
// preferred key and drops records under the other aliases.
func writeCatalog(a handler.Adapter, f model.Field, values []string) error {
	store, ok := a.(handler.CustomFieldStore)
	if !ok {
		return &model.FieldError{Field: string(f), Err: model.ErrNotSupported}
	}

	for _, alias := range f.Aliases() {
		for _, cf := range store.CustomFields() {
			if strings.EqualFold(cf.Key, alias) {
				store.RemoveCustomField(cf.Key)
			}
		}
	}

	if len(values) == 0 {
		return nil
	}
	return store.SetCustomField(f.Key(), values[0])
}

func writeRaw(a handler.Adapter, key string, value any) error {
	setter, ok := a.(handler.RawSetter)
	if !ok {
		return &model.FieldError{Field: key, Err: model.ErrNotSupported}
	}

	values, err := toStrings(value)
	if err != nil {
		return &model.FieldError{Field: key, Err: err}
	}

	return setter.SetRaw(key, values)
}

func applyCustomFields(a handler.Adapter, req *request, report *Report) {
	if len(req.custom) == 0 {
		return
	}

	store, ok := a.(handler.CustomFieldStore)
	if !ok {
		report.warn("custom fields", model.ErrNotSupported)
		return
	}

	for _, key := range sortedKeys(req.custom) {
		value := req.custom[key]
		if value == nil {
			store.RemoveCustomField(key)
			continue
		}
		if err := store.SetCustomField(key, *value); err != nil {
			report.warn(key, err)
		}
	}
}

func applyPictures(a handler.Adapter, req *request, report *Report) {
	if len(req.pictures) == 0 && !req.remove && !req.allGone {
		return
	}

	store, ok := a.(handler.PictureStore)
	if !ok {
		report.warn("pictures", model.ErrNotSupported)
		return
	}

	if req.allGone || req.remove {
		removed := req.removed
		if len(removed) == 0 {
			removed = picture.DefaultTypes
		}
		store.RemovePictures(removed, req.allGone)
	}

	types := make([]model.PictureType, 0, len(req.pictures))
	for t := range req.pictures {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, t := range types {
		pics := make([]model.Picture, len(req.pictures[t]))
		for i, p := range req.pictures[t] {
			p.Type = t
			pics[i] = p
		}
		if err := store.ReplacePictures(t, pics); err != nil {
			report.warn("picture "+t.String(), err)
		}
	}
}

// toStrings converts a write value to the textual form adapters take.
func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case *string:
		if v == nil {
			return nil, nil
		}
		return []string{*v}, nil
	case int:
		return []string{strconv.Itoa(v)}, nil
	case int64:
		return []string{strconv.FormatInt(v, 10)}, nil
	case uint:
		return []string{strconv.FormatUint(uint64(v), 10)}, nil
	case uint64:
		return []string{strconv.FormatUint(v, 10)}, nil
	case model.NumberPair:
		return []string{v.String()}, nil
	case *model.NumberPair:
		if v == nil {
			return nil, nil
		}
		return []string{v.String()}, nil
	case fmt.Stringer:
		return []string{v.String()}, nil
	}
	return nil, fmt.Errorf("%w: %T", model.ErrTypeMismatch, value)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
