package metadata

import (
	"github.com/solidcopy/tagcore/internal/handler"
	"github.com/solidcopy/tagcore/internal/model"
	log "github.com/sirupsen/logrus"
)

// ReadFile returns the merged metadata of one audio file. Field level
// problems are logged as warnings and leave the field absent.
func ReadFile(path string) (*model.Track, error) {
	track, report, err := ReadWithReport(path)
	if err != nil {
		return nil, err
	}
	report.log()
	return track, nil
}

// Read is ReadFile for batch use: failures are logged and nil is returned.
func Read(path string) *model.Track {
	track, err := ReadFile(path)
	if err != nil {
		log.WithField("path", path).Warn(err)
		return nil
	}
	return track
}

// ReadWithReport is ReadFile returning the warnings instead of logging them.
func ReadWithReport(path string) (*model.Track, *Report, error) {
	c, err := handler.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer c.Close()

	report := &Report{Path: path}
	return read(c, report), report, nil
}

func read(c *handler.Container, report *Report) *model.Track {
	track := &model.Track{
		FilePath:     c.Path,
		Container:    c.Descriptor,
		TagTypes:     c.TagTypes(),
		CustomFields: model.CustomFields{},
		Pictures:     []model.Picture{},
	}

	primary := c.Primary()

	for _, f := range model.Fields {
		if f.IsCatalog() {
			continue
		}
		values, ok := primary.ReadField(f)
		if !ok {
			continue
		}
		if err := track.SetValues(f, values); err != nil {
			report.warn(string(f), err)
		}
	}

	probes := c.ProbeOrder()
	for _, f := range model.Fields {
		if !f.IsCatalog() {
			continue
		}
		for _, a := range probes {
			lookup, ok := a.(handler.FreeformLookup)
			if !ok {
				continue
			}
			if value, ok := lookup.ReadFreeform(f.Aliases()); ok {
				if err := track.SetValues(f, []string{value}); err != nil {
					report.warn(string(f), err)
				}
				break
			}
		}
	}

	if store, ok := primary.(handler.CustomFieldStore); ok {
		for _, cf := range store.CustomFields() {
			track.CustomFields[cf.Key] = cf.Value
		}
	}

	if store, ok := primary.(handler.PictureStore); ok {
		track.Pictures = store.Pictures()
	}

	return track
}
