package metadata

import (
	"github.com/solidcopy/tagcore/internal/model"
	log "github.com/sirupsen/logrus"
)

// Report collects the non-fatal problems of one read or write.
type Report struct {
	Path     string
	Warnings []model.Warning
}

func (r *Report) warn(field string, err error) {
	r.Warnings = append(r.Warnings, model.Warning{Path: r.Path, Field: field, Err: err})
}

// OK reports whether the operation finished without warnings.
func (r *Report) OK() bool {
	return len(r.Warnings) == 0
}

func (r *Report) log() {
	for _, w := range r.Warnings {
		log.WithFields(log.Fields{
			"path":  w.Path,
			"field": w.Field,
		}).Warn(w.Err)
	}
}
