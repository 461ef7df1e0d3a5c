package entities

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	knakk "github.com/knakk/rdf"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validate.RegisterValidation("music_event_id", func(fl validator.FieldLevel) bool {
			return IsMusicEventID(fl.Field().String())
		})

		validate.RegisterValidation("iri", func(fl validator.FieldLevel) bool {
			_, err := knakk.NewIRI(fl.Field().String())
			return err == nil
		})

		validate.RegisterStructValidation(musicEventLevel, MusicEvent{})
		validate.RegisterStructValidation(artistLevel, Artist{})
		validate.RegisterStructValidation(venueLevel, Venue{})
	})

	return validate
}

// Validate checks e and everything reachable from it. The returned error wraps
// errors.ErrValidation and lists every violation found.
func Validate(e *MusicEvent) error {
	if e == nil {
		return errors.NewValidationError([]errors.Violation{{Field: "event", Reason: "is missing"}})
	}

	err := validatorInstance().Struct(e)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("failed to validate event %s: %w", e.ID, err)
	}

	violations := make([]errors.Violation, 0, len(validationErrors))
	for _, fe := range validationErrors {
		violations = append(violations, errors.Violation{
			Field:  fieldPath(fe.Namespace()),
			Reason: reason(fe),
		})
	}

	return errors.NewValidationError(violations)
}

func musicEventLevel(sl validator.StructLevel) {
	e := sl.Current().Interface().(MusicEvent)

	if e.DoorTime != nil && !e.StartDate.IsZero() && e.StartDate.Before(*e.DoorTime) {
		sl.ReportError(e.StartDate, "startDate", "StartDate", "not_before_door_time", "")
	}

	if e.EndDate != nil && !e.EndDate.After(e.StartDate) {
		sl.ReportError(e.EndDate, "endDate", "EndDate", "after_start_date", "")
	}

	if hasDuplicates(len(e.Artists), func(i int) string { return nameOf(e.Artists[i]) }) {
		sl.ReportError(e.Artists, "artists", "Artists", "unique_names", "")
	}

	if hasDuplicates(len(e.Venues), func(i int) string { return venueName(e.Venues[i]) }) {
		sl.ReportError(e.Venues, "venues", "Venues", "unique_names", "")
	}
}

func artistLevel(sl validator.StructLevel) {
	a := sl.Current().Interface().(Artist)

	if hasDuplicates(len(a.Genres), func(i int) string { return a.Genres[i] }) {
		sl.ReportError(a.Genres, "genres", "Genres", "unique", "")
	}

	for _, g := range a.Genres {
		if g != strings.ToLower(g) {
			sl.ReportError(a.Genres, "genres", "Genres", "lowercase", "")
			break
		}
	}

	if hasDuplicates(len(a.SameAs), func(i int) string { return a.SameAs[i] }) {
		sl.ReportError(a.SameAs, "sameAs", "SameAs", "unique", "")
	}
}

func venueLevel(sl validator.StructLevel) {
	v := sl.Current().Interface().(Venue)

	if (v.Latitude == nil) != (v.Longitude == nil) {
		sl.ReportError(v.Latitude, "latitude", "Latitude", "coordinates_paired", "")
	}
}

func hasDuplicates(n int, key func(int) string) bool {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

func nameOf(a *Artist) string {
	if a == nil {
		return ""
	}
	return a.Name
}

func venueName(v *Venue) string {
	if v == nil {
		return ""
	}
	return v.Name
}

// fieldPath drops the root struct name, "MusicEvent.venues[0].name" becomes
// "venues[0].name"
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("value %q is not a valid url", fe.Value())
	case "iri":
		return fmt.Sprintf("value %q is not a valid iri", fe.Value())
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "alpha":
		return "must contain letters only"
	case "oneof":
		return fmt.Sprintf("value %v is not one of [%s]", fe.Value(), fe.Param())
	case "music_event_id":
		return fmt.Sprintf("value %q is not in the valid format", fe.Value())
	case "not_before_door_time":
		return "must not precede doorTime"
	case "after_start_date":
		return "must be after startDate"
	case "unique_names":
		return "names must be unique"
	case "unique":
		return "values must be unique"
	case "lowercase":
		return "values must be lower-case"
	case "coordinates_paired":
		return "latitude and longitude must be both present or both absent"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}
