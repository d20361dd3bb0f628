package model

// Track is the format independent view of one file's metadata.
// A nil pointer or nil slice means the field is not present in any tag.
type Track struct {
	FilePath string
	// diagnostic descriptors, never written back
	Container string
	TagTypes  []string

	Title          *string
	Subtitle       *string
	Artists        []string
	AlbumArtists   []string
	Album          *string
	Genres         []string
	Composers      []string
	Lyricist       *string
	OriginalArtist *string
	Publisher      *string
	Comments       *string
	Lyrics         *string
	TrackNumber    *NumberPair
	DiscNumber     *NumberPair
	Year           *uint
	ISRC           *string

	CatalogNumber     *string
	Barcode           *string
	ASIN              *string
	PurchaseDate      *string
	ReleaseCountry    *string
	ReleaseStatus     *string
	ReleaseType       *string
	DiscogsReleaseURL *string
	DiscogsArtistURL  *string

	CustomFields CustomFields
	Pictures     []Picture
}

// Artist returns the primary performer.
func (t *Track) Artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Picture returns the first picture, or nil.
func (t *Track) Picture() *Picture {
	if len(t.Pictures) == 0 {
		return nil
	}
	return &t.Pictures[0]
}

func (t *Track) text(f Field) **string {
	switch f {
	case FieldTitle:
		return &t.Title
	case FieldSubtitle:
		return &t.Subtitle
	case FieldAlbum:
		return &t.Album
	case FieldLyricist:
		return &t.Lyricist
	case FieldOriginalArtist:
		return &t.OriginalArtist
	case FieldPublisher:
		return &t.Publisher
	case FieldComments:
		return &t.Comments
	case FieldLyrics:
		return &t.Lyrics
	case FieldISRC:
		return &t.ISRC
	case FieldCatalogNumber:
		return &t.CatalogNumber
	case FieldBarcode:
		return &t.Barcode
	case FieldASIN:
		return &t.ASIN
	case FieldPurchaseDate:
		return &t.PurchaseDate
	case FieldReleaseCountry:
		return &t.ReleaseCountry
	case FieldReleaseStatus:
		return &t.ReleaseStatus
	case FieldReleaseType:
		return &t.ReleaseType
	case FieldDiscogsReleaseURL:
		return &t.DiscogsReleaseURL
	case FieldDiscogsArtistURL:
		return &t.DiscogsArtistURL
	}
	return nil
}

func (t *Track) list(f Field) *[]string {
	switch f {
	case FieldArtist:
		return &t.Artists
	case FieldAlbumArtist:
		return &t.AlbumArtists
	case FieldGenre:
		return &t.Genres
	case FieldComposer:
		return &t.Composers
	}
	return nil
}

func (t *Track) number(f Field) **NumberPair {
	switch f {
	case FieldTrackNumber:
		return &t.TrackNumber
	case FieldDiscNumber:
		return &t.DiscNumber
	}
	return nil
}

// Values returns the textual form of a field, as adapters store it.
func (t *Track) Values(f Field) ([]string, bool) {
	switch f.Kind() {
	case KindText:
		p := t.text(f)
		if p == nil || *p == nil {
			return nil, false
		}
		return []string{**p}, true
	case KindList:
		p := t.list(f)
		if p == nil || *p == nil {
			return nil, false
		}
		return *p, true
	case KindNumber:
		p := t.number(f)
		if p == nil || *p == nil {
			return nil, false
		}
		return []string{(*p).String()}, true
	case KindYear:
		if t.Year == nil {
			return nil, false
		}
		return []string{FormatYear(*t.Year)}, true
	}
	return nil, false
}

// SetValues parses values read from an adapter into the field.
// An empty list leaves the field absent.
func (t *Track) SetValues(f Field, values []string) error {
	values = compact(values)
	if len(values) == 0 {
		return nil
	}

	switch f.Kind() {
	case KindText:
		p := t.text(f)
		if p == nil {
			return &FieldError{Field: string(f), Err: ErrUnknownField}
		}
		v := values[0]
		*p = &v
	case KindList:
		p := t.list(f)
		if p == nil {
			return &FieldError{Field: string(f), Err: ErrUnknownField}
		}
		*p = append([]string(nil), values...)
	case KindNumber:
		pair, err := ParseNumberPair(values[0])
		if err != nil {
			return &FieldError{Field: string(f), Err: err}
		}
		*t.number(f) = &pair
	case KindYear:
		year, err := ParseYear(values[0])
		if err != nil {
			return &FieldError{Field: string(f), Err: err}
		}
		t.Year = &year
	default:
		return &FieldError{Field: string(f), Err: ErrUnknownField}
	}

	return nil
}

func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string {
	return &s
}
