package metadata

import (
	"github.com/solidcopy/tagcore/internal/model"
)

// Option is a named write parameter. Named parameters override entries of
// the bulk field mapping that target the same field.
type Option func(*request)

type request struct {
	named    map[model.Field]any
	custom   map[string]*string
	pictures map[model.PictureType][]model.Picture
	removed  []model.PictureType
	remove   bool
	allGone  bool
}

func newRequest(opts []Option) *request {
	req := &request{
		named:    map[model.Field]any{},
		custom:   map[string]*string{},
		pictures: map[model.PictureType][]model.Picture{},
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// WithField sets any canonical field. A nil value removes it.
func WithField(f model.Field, value any) Option {
	return func(r *request) { r.named[f] = value }
}

func WithTitle(title string) Option {
	return WithField(model.FieldTitle, title)
}

func WithSubtitle(subtitle string) Option {
	return WithField(model.FieldSubtitle, subtitle)
}

func WithArtists(artists ...string) Option {
	return WithField(model.FieldArtist, artists)
}

func WithAlbumArtists(artists ...string) Option {
	return WithField(model.FieldAlbumArtist, artists)
}

func WithAlbum(album string) Option {
	return WithField(model.FieldAlbum, album)
}

func WithGenres(genres ...string) Option {
	return WithField(model.FieldGenre, genres)
}

func WithComposers(composers ...string) Option {
	return WithField(model.FieldComposer, composers)
}

func WithLyricist(lyricist string) Option {
	return WithField(model.FieldLyricist, lyricist)
}

func WithOriginalArtist(artist string) Option {
	return WithField(model.FieldOriginalArtist, artist)
}

func WithPublisher(publisher string) Option {
	return WithField(model.FieldPublisher, publisher)
}

func WithComments(comments string) Option {
	return WithField(model.FieldComments, comments)
}

func WithLyrics(lyrics string) Option {
	return WithField(model.FieldLyrics, lyrics)
}

// WithTrackNumber sets the track position. A zero total leaves it out.
func WithTrackNumber(position, total uint) Option {
	return WithField(model.FieldTrackNumber, model.NumberPair{Position: position, Total: total})
}

func WithDiscNumber(position, total uint) Option {
	return WithField(model.FieldDiscNumber, model.NumberPair{Position: position, Total: total})
}

func WithYear(year uint) Option {
	return WithField(model.FieldYear, year)
}

func WithISRC(isrc string) Option {
	return WithField(model.FieldISRC, isrc)
}

func WithCatalogNumber(catalogNumber string) Option {
	return WithField(model.FieldCatalogNumber, catalogNumber)
}

func WithBarcode(barcode string) Option {
	return WithField(model.FieldBarcode, barcode)
}

// WithCustomField creates or replaces the custom field key.
func WithCustomField(key, value string) Option {
	return func(r *request) { r.custom[key] = &value }
}

// WithoutCustomField removes the custom field key if it exists.
func WithoutCustomField(key string) Option {
	return func(r *request) { r.custom[key] = nil }
}

// WithPictures replaces every picture of type t with pics.
func WithPictures(t model.PictureType, pics ...model.Picture) Option {
	return func(r *request) { r.pictures[t] = pics }
}

// WithoutPictures removes the pictures of the given types, or the front
// covers when no type is given.
func WithoutPictures(types ...model.PictureType) Option {
	return func(r *request) {
		r.remove = true
		r.removed = append(r.removed, types...)
	}
}

func WithoutAllPictures() Option {
	return func(r *request) { r.allGone = true }
}
