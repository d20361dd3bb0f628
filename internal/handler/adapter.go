package handler

import "github.com/solidcopy/tagcore/internal/model"

// Adapter is a transient view of one tag container inside an opened file.
type Adapter interface {
	// Name identifies the tag subsystem, e.g. "ID3v2.4" or "Xiph".
	Name() string
	// Present reports whether the tag existed when the file was opened.
	Present() bool
	// ReadField returns the stored values of f. Missing fields return false.
	ReadField(f model.Field) ([]string, bool)
	// WriteField replaces f. An empty list removes it. The tag is created
	// on first write if the file had none.
	WriteField(f model.Field, values []string) error
	Save() error
	Close() error
}

// FreeformLookup is implemented by adapters with an extension mechanism
// (TXXX frames, Xiph comments, freeform atoms). Keys are tried in order and
// matched case-insensitively; the first non-empty value wins.
type FreeformLookup interface {
	ReadFreeform(keys []string) (string, bool)
}

// CustomFieldStore holds user defined key/value records. Keys match exactly
// and are unique: setting a key removes the old record first.
type CustomFieldStore interface {
	CustomFields() []model.CustomField
	SetCustomField(key, value string) error
	RemoveCustomField(key string)
}

// PictureStore holds embedded pictures.
type PictureStore interface {
	Pictures() []model.Picture
	// ReplacePictures removes every picture of type t and adds pics.
	ReplacePictures(t model.PictureType, pics []model.Picture) error
	RemovePictures(types []model.PictureType, all bool)
}

// RawSetter sets a native field that is not part of the canonical schema.
type RawSetter interface {
	SetRaw(key string, values []string) error
}
