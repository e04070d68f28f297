// trip_views contains the views derived from the Row view-model: the list of a trip's points.
package trip_views

import (
	"fmt"
	"strings"
	"time"

	"tripedit/catalog"
	"tripedit/models"
	"tripedit/server/point_views"
)

// Row is a trip point as shown in the point list. As with any view-model, its fields
// are immediately usable as template parameters.
type Row struct {
	ID        string
	Type      models.EventType
	TypeIcon  string
	City      string
	Day       string
	DayISO    string
	StartTime string
	StartISO  string
	EndTime   string
	EndISO    string
	Duration  string
	Cost      int
	Offers    []OfferRow
	EditHref  string
}

// OfferRow is a selected offer of a point.
type OfferRow struct {
	Title string
	Price int
}

// Convert transforms the points, in list order, into rows. Selected offers are looked up
// in the catalog; ids missing from it are skipped.
func Convert(points []models.Point, cat *catalog.Catalog) (rows []Row) {
	offers := map[int]models.Offer{}
	if cat != nil {
		for _, o := range cat.Offers {
			offers[o.ID] = o
		}
	}

	rows = make([]Row, 0, len(points))
	for _, p := range points {
		row := Row{
			ID:        p.ID,
			Type:      p.Type,
			TypeIcon:  "img/icons/" + point_views.DisplayID(p.Type) + ".png",
			City:      p.CityInformation.CityName,
			Day:       strings.ToUpper(p.DateStart.Format("Jan 02")),
			DayISO:    p.DateStart.Format("2006-01-02"),
			StartTime: p.DateStart.Format("15:04"),
			StartISO:  p.DateStart.Format("2006-01-02T15:04"),
			EndTime:   p.DateEnd.Format("15:04"),
			EndISO:    p.DateEnd.Format("2006-01-02T15:04"),
			Duration:  FormatDuration(p.DateEnd.Sub(p.DateStart)),
			Cost:      p.Cost,
			Offers:    []OfferRow{},
			EditHref:  "/points/" + p.ID + "/edit",
		}
		for _, id := range p.Offers {
			if o, ok := offers[id]; ok && o.Type == p.Type {
				row.Offers = append(row.Offers, OfferRow{Title: o.Title, Price: o.Price})
			}
		}
		rows = append(rows, row)
	}
	return
}

// FormatDuration formats d as minutes below an hour ("45M"), hours and minutes below
// a day ("02H 05M"), and days, hours and minutes otherwise ("01D 02H 05M").
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	days, hours, mins := minutes/(24*60), minutes/60%24, minutes%60
	switch {
	case days > 0:
		return fmt.Sprintf("%02dD %02dH %02dM", days, hours, mins)
	case hours > 0:
		return fmt.Sprintf("%02dH %02dM", hours, mins)
	}
	return fmt.Sprintf("%02dM", mins)
}

// TotalCost returns the trip's cost: the points' own costs plus their selected offers.
func TotalCost(rows []Row) (total int) {
	for _, row := range rows {
		total += row.Cost
		for _, o := range row.Offers {
			total += o.Price
		}
	}
	return
}
