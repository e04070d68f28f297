package models

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

// EventType is the category of a trip point: a means of transport or an activity at the destination.
type EventType string

const (
	Taxi        EventType = "Taxi"
	Bus         EventType = "Bus"
	Train       EventType = "Train"
	Ship        EventType = "Ship"
	Drive       EventType = "Drive"
	Flight      EventType = "Flight"
	CheckIn     EventType = "Check-in"
	Sightseeing EventType = "Sightseeing"
	Restaurant  EventType = "Restaurant"
)

// EventTypes is the closed set of event types, in display order.
var EventTypes = []EventType{
	Taxi,
	Bus,
	Train,
	Ship,
	Drive,
	Flight,
	CheckIn,
	Sightseeing,
	Restaurant,
}

// IsEventType reports whether t is one of EventTypes. Matching is case-sensitive.
func IsEventType(t EventType) bool {
	for _, et := range EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Photo is an image of a destination.
type Photo struct {
	Src         string `yaml:"src" json:"src"`
	Description string `yaml:"description" json:"description"`
}

// CityInformation is the snapshot of a destination embedded in a point.
type CityInformation struct {
	CityName    string  `yaml:"cityName" json:"cityName"`
	Description string  `yaml:"description" json:"description"`
	Photos      []Photo `yaml:"photos" json:"photos"`
}

// Destination is a catalog entry for a city.
type Destination struct {
	ID          int     `yaml:"id" json:"id"`
	CityName    string  `yaml:"cityName" json:"cityName"`
	Description string  `yaml:"description" json:"description"`
	Photos      []Photo `yaml:"photos" json:"photos"`
}

// Snapshot returns the destination as it is embedded into a point.
func (d Destination) Snapshot() CityInformation {
	photos := make([]Photo, len(d.Photos))
	copy(photos, d.Photos)
	return CityInformation{
		CityName:    d.CityName,
		Description: d.Description,
		Photos:      photos,
	}
}

// Offer is an optional, priced add-on available to points of a given type.
type Offer struct {
	ID    int       `yaml:"id" json:"id"`
	Type  EventType `yaml:"type" json:"type"`
	Title string    `yaml:"title" json:"title"`
	Price int       `yaml:"price" json:"price" validate:"gte=0"`
}

// Point is a single leg of a trip.
// Points are values: edits produce a new Point rather than mutating one in place.
type Point struct {
	ID        string    `yaml:"id" json:"id"`
	Type      EventType `yaml:"type" json:"type" validate:"eventtype"`
	Cost      int       `yaml:"cost" json:"cost" validate:"gte=0"`
	DateStart time.Time `yaml:"dateStart" json:"dateStart"`
	DateEnd   time.Time `yaml:"dateEnd" json:"dateEnd" validate:"gtefield=DateStart"`
	// Offers holds the ids of the selected offers.
	Offers []int `yaml:"offers" json:"offers"`
	// DestinationID is the catalog id the CityInformation snapshot was taken from, zero if none.
	DestinationID   int             `yaml:"destination" json:"destination"`
	CityInformation CityInformation `yaml:"-" json:"cityInformation"`
}

// EmptyPoint returns the point used when a new one is being created.
// Its type is the first event type so that exactly one type is always selected.
func EmptyPoint() Point {
	return Point{
		Type:   EventTypes[0],
		Offers: []int{},
		CityInformation: CityInformation{
			Photos: []Photo{},
		},
	}
}

// HasOffer reports whether the offer with the passed id is selected.
func (p *Point) HasOffer(id int) bool {
	for _, offerID := range p.Offers {
		if offerID == id {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return IsEventType(EventType(fl.Field().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("register eventtype validation: %v", err))
	}
	return v
}

// Validate checks the point's type, cost and date ordering.
func (p *Point) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid point %q: %w", p.ID, err)
	}
	return nil
}

// Validate checks the offer's price.
func (o *Offer) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid offer %d: %w", o.ID, err)
	}
	return nil
}
