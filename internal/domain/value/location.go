package value

import "fmt"

// Location — место проведения события. Инвариант вложенности
// зона → страна → город проверяется по справочнику географии.
type Location struct {
	Zone    string `json:"zone"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s (%s)", l.City, l.Country, l.Zone)
}

// Geography — статический справочник зона → страна → города.
// Внешний коллаборатор: движок переговоров его только читает.
type Geography map[string]map[string][]string

// ValidateLocation проверяет заполненность полей и вложенность.
func (g Geography) ValidateLocation(l Location) error {
	if l.Zone == "" || l.Country == "" || l.City == "" {
		return fmt.Errorf("location requires zone, country and city")
	}

	countries, ok := g[l.Zone]
	if !ok {
		return fmt.Errorf("unknown zone %q", l.Zone)
	}

	cities, ok := countries[l.Country]
	if !ok {
		return fmt.Errorf("country %q is not in zone %q", l.Country, l.Zone)
	}

	for _, city := range cities {
		if city == l.City {
			return nil
		}
	}

	return fmt.Errorf("city %q is not in country %q", l.City, l.Country)
}

// DefaultGeography возвращает встроенный справочник.
func DefaultGeography() Geography {
	return geography
}

//nolint:gochecknoglobals
var geography = Geography{
	"Europe": {
		"Germany":        {"Berlin", "Hamburg", "Munich", "Cologne", "Frankfurt"},
		"France":         {"Paris", "Lyon", "Marseille", "Nantes"},
		"Spain":          {"Madrid", "Barcelona", "Valencia", "Ibiza"},
		"Netherlands":    {"Amsterdam", "Rotterdam", "Utrecht"},
		"United Kingdom": {"London", "Manchester", "Bristol", "Glasgow"},
		"Italy":          {"Milan", "Rome", "Bologna", "Turin"},
	},
	"North America": {
		"United States": {"New York", "Los Angeles", "Chicago", "Miami", "Detroit"},
		"Canada":        {"Toronto", "Montreal", "Vancouver"},
		"Mexico":        {"Mexico City", "Guadalajara", "Tulum"},
	},
	"South America": {
		"Brazil":    {"Sao Paulo", "Rio de Janeiro", "Florianopolis"},
		"Argentina": {"Buenos Aires", "Cordoba"},
		"Colombia":  {"Bogota", "Medellin"},
	},
	"Asia": {
		"Japan":       {"Tokyo", "Osaka", "Kyoto"},
		"South Korea": {"Seoul", "Busan"},
		"Thailand":    {"Bangkok", "Phuket"},
	},
	"Oceania": {
		"Australia":   {"Sydney", "Melbourne", "Brisbane"},
		"New Zealand": {"Auckland", "Wellington"},
	},
}
