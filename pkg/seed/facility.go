package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

// maxRangeSize bounds how many spaces one range entry may expand to.
const maxRangeSize = 10000

// Facility is the content of a facility file.
//
//	spaces:
//	  - id: H1
//	    class: HANDICAP
//	    zone: A
//	  - prefix: C
//	    from: 1
//	    to: 40
//	    width: 2
//	    class: CAR
//	    zone: A
//	rates:
//	  - vehicle_class: CAR
//	    rate_kind: HOURLY
//	    amount: 20
//	    effective_from: 2026-01-01T00:00:00Z
type Facility struct {
	Spaces []SpaceEntry `yaml:"spaces"`
	Rates  []RateEntry  `yaml:"rates"`
}

// SpaceEntry is either a single space (ID set) or a numbered range of
// spaces named Prefix+number, zero-padded to Width digits.
type SpaceEntry struct {
	ID     string             `yaml:"id"`
	Prefix string             `yaml:"prefix"`
	From   int                `yaml:"from"`
	To     int                `yaml:"to"`
	Width  int                `yaml:"width"`
	Class  parking.SpaceClass `yaml:"class"`
	Zone   string             `yaml:"zone"`
}

func (s SpaceEntry) isRange() bool { return s.ID == "" }

type RateEntry struct {
	VehicleClass   parking.VehicleClass `yaml:"vehicle_class"`
	RateKind       parking.RateKind     `yaml:"rate_kind"`
	Amount         int64                `yaml:"amount"`
	EffectiveFrom  time.Time            `yaml:"effective_from"`
	EffectiveUntil *time.Time           `yaml:"effective_until"`
}

// Load reads and parses the facility file at path.
func Load(ctx context.Context, path string) (Facility, error) {
	f, err := os.Open(path)
	if err != nil {
		return Facility{}, errors.Join(ErrReadFacility, err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// Parse decodes a facility document. Unknown keys are rejected.
func Parse(ctx context.Context, r io.Reader) (Facility, error) {
	if err := ctx.Err(); err != nil {
		return Facility{}, errors.Join(ErrParseFacility, err)
	}

	var fac Facility
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fac); err != nil {
		if errors.Is(err, io.EOF) {
			return Facility{}, fmt.Errorf("%w: empty document", ErrParseFacility)
		}
		return Facility{}, errors.Join(ErrParseFacility, err)
	}

	for i := range fac.Spaces {
		canonical(&fac.Spaces[i].Class, parking.ParseSpaceClass)
		fac.Spaces[i].ID = strings.TrimSpace(fac.Spaces[i].ID)
		fac.Spaces[i].Zone = strings.TrimSpace(fac.Spaces[i].Zone)
	}
	for i := range fac.Rates {
		canonical(&fac.Rates[i].VehicleClass, parking.ParseVehicleClass)
		canonical(&fac.Rates[i].RateKind, parking.ParseRateKind)
	}
	return fac, nil
}

// canonical rewrites v in its canonical spelling. Unknown values are left
// for validation to report against their field.
func canonical[T ~string](v *T, parse func(string) (T, error)) {
	if c, err := parse(string(*v)); err == nil {
		*v = c
	}
}

// ExpandSpaces returns every space the facility declares, in file order.
// Duplicate ids and malformed entries are reported together.
func (f Facility) ExpandSpaces() ([]parking.Space, error) {
	var (
		out  []parking.Space
		errs []error
		seen = make(map[string]bool)
	)
	for i, entry := range f.Spaces {
		field := fmt.Sprintf("spaces[%d]", i)
		if err := entry.validate(field); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, id := range entry.ids() {
			if seen[id] {
				errs = append(errs, validator.Fail(field, fmt.Sprintf("duplicate space id %q", id)))
				continue
			}
			seen[id] = true
			out = append(out, parking.Space{SpaceID: id, SpaceClass: entry.Class, Zone: entry.Zone})
		}
	}
	if err := validator.Merge(errs...); err != nil {
		return nil, errors.Join(ErrInvalidFacility, err)
	}
	return out, nil
}

func (s SpaceEntry) validate(field string) error {
	rules := []validator.Rule{
		validator.OneOf(field+"."+parking.FieldSpaceClass, s.Class, parking.SpaceClasses),
		validator.Required(field+"."+parking.FieldZone, s.Zone),
	}
	if s.isRange() {
		rules = append(rules,
			validator.Required(field+".prefix", s.Prefix),
			validator.NonNegative(field+".from", s.From),
			validator.NonNegative(field+".width", s.Width),
			validator.Rule{
				Check: func() bool { return s.To >= s.From && s.To-s.From < maxRangeSize },
				Error: validator.ValidationError{
					Field:   field + ".to",
					Message: fmt.Sprintf("must be between from and from+%d", maxRangeSize-1),
				},
			},
		)
	}
	return validator.Apply(rules...)
}

func (s SpaceEntry) ids() []string {
	if !s.isRange() {
		return []string{s.ID}
	}
	ids := make([]string, 0, s.To-s.From+1)
	for n := s.From; n <= s.To; n++ {
		ids = append(ids, fmt.Sprintf("%s%0*d", s.Prefix, s.Width, n))
	}
	return ids
}
