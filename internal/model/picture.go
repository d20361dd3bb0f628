package model

import "strings"

// PictureType follows the ID3v2 APIC / FLAC METADATA_BLOCK_PICTURE numbering.
type PictureType uint8

const (
	PictureOther PictureType = iota
	PictureFileIcon
	PictureOtherFileIcon
	PictureFrontCover
	PictureBackCover
	PictureLeafletPage
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureScreenCapture
	PictureBrightColouredFish
	PictureIllustration
	PictureBandLogo
	PicturePublisherLogo
)

var pictureTypeNames = []string{
	"Other",
	"FileIcon",
	"OtherFileIcon",
	"FrontCover",
	"BackCover",
	"LeafletPage",
	"Media",
	"LeadArtist",
	"Artist",
	"Conductor",
	"Band",
	"Composer",
	"Lyricist",
	"RecordingLocation",
	"DuringRecording",
	"DuringPerformance",
	"ScreenCapture",
	"BrightColouredFish",
	"Illustration",
	"BandLogo",
	"PublisherLogo",
}

// PictureTypes lists every defined type.
func PictureTypes() []PictureType {
	types := make([]PictureType, len(pictureTypeNames))
	for i := range pictureTypeNames {
		types[i] = PictureType(i)
	}
	return types
}

func (t PictureType) String() string {
	if int(t) < len(pictureTypeNames) {
		return pictureTypeNames[t]
	}
	return "Other"
}

func (t PictureType) Valid() bool {
	return int(t) < len(pictureTypeNames)
}

// ParsePictureType resolves a type name case-insensitively.
func ParsePictureType(name string) (PictureType, bool) {
	for i, n := range pictureTypeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return PictureType(i), true
		}
	}
	return PictureOther, false
}

// Picture is an embedded image.
type Picture struct {
	Type        PictureType
	MimeType    string
	Description string
	// advisory, used to name exported files
	Filename string
	Width    int
	Height   int
	Data     []byte
}
