// catalog loads the destinations, offers and seed points the editor works with,
// and keeps the loaded catalog current while its file is edited.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"tripedit/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrDuplicateID is returned when two destinations, or two offers, share an id.
var ErrDuplicateID = errors.New("duplicate id")

// Catalog is the content of a catalog file.
type Catalog struct {
	Destinations []models.Destination `yaml:"destinations"`
	Offers       []models.Offer       `yaml:"offers"`
	Points       []models.Point       `yaml:"points"`
}

// FromYaml reads and checks the catalog file at path.
func FromYaml(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog. Seed points without an id are given one, and their
// city information is taken from the destination they reference; a point whose
// destination is unknown gets empty city information.
func Parse(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := cat.check(); err != nil {
		return nil, err
	}

	destinations := models.NewDestinationModel(cat.Destinations)
	for i := range cat.Points {
		p := &cat.Points[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Offers == nil {
			p.Offers = []int{}
		}
		p.CityInformation = models.CityInformation{Photos: []models.Photo{}}
		if dest, ok := destinations.GetByID(p.DestinationID); ok {
			p.CityInformation = dest.Snapshot()
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func (cat *Catalog) check() error {
	destIDs := map[int]bool{}
	for _, d := range cat.Destinations {
		if destIDs[d.ID] {
			return fmt.Errorf("destination %d: %w", d.ID, ErrDuplicateID)
		}
		destIDs[d.ID] = true
	}

	offerIDs := map[int]bool{}
	for i := range cat.Offers {
		o := &cat.Offers[i]
		if offerIDs[o.ID] {
			return fmt.Errorf("offer %d: %w", o.ID, ErrDuplicateID)
		}
		offerIDs[o.ID] = true
		if !models.IsEventType(o.Type) {
			return fmt.Errorf("offer %d has unknown type %q", o.ID, o.Type)
		}
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// OffersFor returns the offers available to points of type t, in catalog order.
func (cat *Catalog) OffersFor(t models.EventType) (offers []models.Offer) {
	offers = []models.Offer{}
	for _, o := range cat.Offers {
		if o.Type == t {
			offers = append(offers, o)
		}
	}
	return
}
