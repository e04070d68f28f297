package point_views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tripedit/models"
)

var (
	ErrUnknownEventType   = errors.New("unknown event type")
	ErrUnknownDestination = errors.New("unknown destination")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCost        = errors.New("invalid cost")
	ErrInvalidOffer       = errors.New("invalid offer")
)

// ParsePointForm returns a copy of held with the values submitted by the edit form applied.
// Fields absent from the form keep held's values and a nil form yields held unchanged.
// Offers are the exception: unchecked boxes are not submitted, so the selection always
// comes from the form. It is kept only while the type is unchanged, and only for offers
// of pointOffers, since the form lists no others.
func ParsePointForm(
	held models.Point,
	form map[string][]string,
	pointOffers []models.Offer,
	destinations DestinationProvider,
) (p models.Point, err error) {
	p = held
	if form == nil {
		return
	}

	if val, ok := formValue(form, TypeField); ok {
		p.Type = models.EventType(val)
		if !models.IsEventType(p.Type) {
			return p, fmt.Errorf("%w: %q", ErrUnknownEventType, val)
		}
	}

	if city, ok := formValue(form, DestinationField); ok && city != held.CityInformation.CityName {
		if p.CityInformation, p.DestinationID, err = findDestination(destinations, city); err != nil {
			return
		}
	}

	if p.DateStart, err = parseFormDate(form, StartTimeField, held.DateStart); err != nil {
		return
	}
	if p.DateEnd, err = parseFormDate(form, EndTimeField, held.DateEnd); err != nil {
		return
	}

	if val, ok := formValue(form, PriceField); ok {
		if p.Cost, err = parseCost(val); err != nil {
			return
		}
	}

	if p.Offers, err = parseOffers(form, held, p.Type, pointOffers); err != nil {
		return
	}

	err = p.Validate()
	return
}

// formValue returns the first, trimmed value of the field.
func formValue(form map[string][]string, field string) (string, bool) {
	vals, ok := form[field]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

func findDestination(destinations DestinationProvider, city string) (models.CityInformation, int, error) {
	if destinations != nil {
		for _, dest := range destinations.List() {
			if dest.CityName == city {
				return dest.Snapshot(), dest.ID, nil
			}
		}
	}
	return models.CityInformation{}, 0, fmt.Errorf("%w: %q", ErrUnknownDestination, city)
}

// parseFormDate parses the field in held's location. An unedited value keeps held as is,
// seconds included, since the form shows minutes only.
func parseFormDate(form map[string][]string, field string, held time.Time) (time.Time, error) {
	val, ok := formValue(form, field)
	if !ok || val == FormatDateTimeLong(held) {
		return held, nil
	}
	t, err := ParseDateTimeLong(val, held.Location())
	if err != nil {
		return held, fmt.Errorf("%w: %s %q", ErrInvalidDate, field, val)
	}
	return t, nil
}

// parseCost reads the price input; a blank input is a zero cost.
func parseCost(val string) (int, error) {
	if val == "" {
		return 0, nil
	}
	cost, err := strconv.Atoi(val)
	if err != nil || cost < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCost, val)
	}
	return cost, nil
}

func parseOffers(
	form map[string][]string,
	held models.Point,
	t models.EventType,
	pointOffers []models.Offer,
) ([]int, error) {
	offers := []int{}
	if t != held.Type {
		return offers, nil
	}

	selected := map[int]bool{}
	for _, val := range form[OfferField(t)] {
		id, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOffer, val)
		}
		if selected[id] {
			continue
		}
		for _, offer := range pointOffers {
			if offer.ID == id {
				selected[id] = true
				offers = append(offers, id)
				break
			}
		}
	}
	return offers, nil
}
