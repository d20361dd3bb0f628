package model

import "strings"

// Field names a canonical metadata attribute.
type Field string

const (
	FieldTitle          Field = "Title"
	FieldSubtitle       Field = "Subtitle"
	FieldArtist         Field = "Artist"
	FieldAlbumArtist    Field = "AlbumArtist"
	FieldAlbum          Field = "Album"
	FieldGenre          Field = "Genre"
	FieldComposer       Field = "Composer"
	FieldLyricist       Field = "Lyricist"
	FieldOriginalArtist Field = "OriginalArtist"
	FieldPublisher      Field = "Publisher"
	FieldComments       Field = "Comments"
	FieldLyrics         Field = "Lyrics"
	FieldTrackNumber    Field = "TrackNumber"
	FieldDiscNumber     Field = "DiscNumber"
	FieldYear           Field = "Year"
	FieldISRC           Field = "ISRC"

	FieldCatalogNumber     Field = "CatalogNumber"
	FieldBarcode           Field = "Barcode"
	FieldASIN              Field = "ASIN"
	FieldPurchaseDate      Field = "PurchaseDate"
	FieldReleaseCountry    Field = "ReleaseCountry"
	FieldReleaseStatus     Field = "ReleaseStatus"
	FieldReleaseType       Field = "ReleaseType"
	FieldDiscogsReleaseURL Field = "DiscogsReleaseUrl"
	FieldDiscogsArtistURL  Field = "DiscogsArtistUrl"
)

// Kind is the value shape of a field.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindNumber
	KindYear
)

type fieldInfo struct {
	kind Kind
	// extension keys probed in order; only catalog fields have them
	aliases []string
}

var fieldInfos = map[Field]fieldInfo{
	FieldTitle:          {kind: KindText},
	FieldSubtitle:       {kind: KindText},
	FieldArtist:         {kind: KindList},
	FieldAlbumArtist:    {kind: KindList},
	FieldAlbum:          {kind: KindText},
	FieldGenre:          {kind: KindList},
	FieldComposer:       {kind: KindList},
	FieldLyricist:       {kind: KindText},
	FieldOriginalArtist: {kind: KindText},
	FieldPublisher:      {kind: KindText},
	FieldComments:       {kind: KindText},
	FieldLyrics:         {kind: KindText},
	FieldTrackNumber:    {kind: KindNumber},
	FieldDiscNumber:     {kind: KindNumber},
	FieldYear:           {kind: KindYear},
	FieldISRC:           {kind: KindText},

	FieldCatalogNumber:     {kind: KindText, aliases: []string{"CATALOGNUMBER", "CATALOG NUMBER", "CATALOG", "LABELNO"}},
	FieldBarcode:           {kind: KindText, aliases: []string{"BARCODE", "UPC", "EAN"}},
	FieldASIN:              {kind: KindText, aliases: []string{"ASIN", "AMAZON ID"}},
	FieldPurchaseDate:      {kind: KindText, aliases: []string{"PURCHASEDATE", "PURCHASE DATE", "purd"}},
	FieldReleaseCountry:    {kind: KindText, aliases: []string{"RELEASECOUNTRY", "MusicBrainz Album Release Country", "COUNTRY"}},
	FieldReleaseStatus:     {kind: KindText, aliases: []string{"RELEASESTATUS", "MusicBrainz Album Status"}},
	FieldReleaseType:       {kind: KindText, aliases: []string{"RELEASETYPE", "MusicBrainz Album Type"}},
	FieldDiscogsReleaseURL: {kind: KindText, aliases: []string{"DISCOGS_RELEASE_URL", "URL_DISCOGS_RELEASE_SITE", "WWW DISCOGS RELEASE"}},
	FieldDiscogsArtistURL:  {kind: KindText, aliases: []string{"DISCOGS_ARTIST_URL", "URL_DISCOGS_ARTIST_SITE", "WWW DISCOGS ARTIST"}},
}

// Fields lists the fixed schema in presentation order.
var Fields = []Field{
	FieldTitle, FieldSubtitle, FieldArtist, FieldAlbumArtist, FieldAlbum,
	FieldGenre, FieldComposer, FieldLyricist, FieldOriginalArtist,
	FieldPublisher, FieldComments, FieldLyrics, FieldTrackNumber,
	FieldDiscNumber, FieldYear, FieldISRC,
	FieldCatalogNumber, FieldBarcode, FieldASIN, FieldPurchaseDate,
	FieldReleaseCountry, FieldReleaseStatus, FieldReleaseType,
	FieldDiscogsReleaseURL, FieldDiscogsArtistURL,
}

// LookupField resolves a field name case-insensitively.
func LookupField(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, f := range Fields {
		if strings.EqualFold(string(f), name) {
			return f, true
		}
	}
	return "", false
}

func (f Field) Kind() Kind {
	return fieldInfos[f].kind
}

// IsCatalog reports whether the field has no standard frame and lives in
// extension records.
func (f Field) IsCatalog() bool {
	return len(fieldInfos[f].aliases) > 0
}

// Aliases returns the extension keys for a catalog field, preferred first.
func (f Field) Aliases() []string {
	return fieldInfos[f].aliases
}

// Key is the extension key used when writing a catalog field.
func (f Field) Key() string {
	aliases := fieldInfos[f].aliases
	if len(aliases) == 0 {
		return string(f)
	}
	return aliases[0]
}

// IsCatalogKey reports whether key is any alias of a catalog field.
func IsCatalogKey(key string) bool {
	for _, f := range Fields {
		for _, alias := range fieldInfos[f].aliases {
			if strings.EqualFold(alias, key) {
				return true
			}
		}
	}
	return false
}
