package value

import "fmt"

// ExtraKey — фиксированный словарь неденежных условий букинга.
type ExtraKey string

const (
	ExtraTravelIn       ExtraKey = "travelIn"
	ExtraTravelOut      ExtraKey = "travelOut"
	ExtraTransportation ExtraKey = "transportation"
	ExtraAccommodation  ExtraKey = "accommodation"
	ExtraMeals          ExtraKey = "meals"
)

// ExtraIncluded — значение по умолчанию: условие предоставляется без
// уточнений.
const ExtraIncluded = "Included"

//nolint:gochecknoglobals
var extraLabels = map[ExtraKey]string{
	ExtraTravelIn:       "Travel In",
	ExtraTravelOut:      "Travel Out",
	ExtraTransportation: "Transportation",
	ExtraAccommodation:  "Accommodation",
	ExtraMeals:          "Meals",
}

// ExtraKeys — словарь в стабильном порядке отображения.
//
//nolint:gochecknoglobals
var ExtraKeys = []ExtraKey{
	ExtraTravelIn,
	ExtraTravelOut,
	ExtraTransportation,
	ExtraAccommodation,
	ExtraMeals,
}

func ParseExtraKey(s string) (ExtraKey, error) {
	switch ExtraKey(s) {
	case ExtraTravelIn, ExtraTravelOut, ExtraTransportation,
		ExtraAccommodation, ExtraMeals:
		return ExtraKey(s), nil
	}

	return "", fmt.Errorf("unknown extra %q", s)
}

// Label — человекочитаемое название условия.
func (k ExtraKey) Label() string {
	return extraLabels[k]
}

// Extras — предлагаемые условия. Отсутствие ключа означает
// "не предлагается"; значение — ExtraIncluded либо свободный комментарий.
type Extras map[ExtraKey]string

// Validate отклоняет ключи вне словаря и пустые значения.
func (e Extras) Validate() error {
	for k, v := range e {
		if _, err := ParseExtraKey(string(k)); err != nil {
			return err
		}

		if v == "" {
			return fmt.Errorf("extra %q has empty value", k)
		}
	}

	return nil
}

// Clone — глубокая копия; nil остаётся nil.
func (e Extras) Clone() Extras {
	if e == nil {
		return nil
	}

	clone := make(Extras, len(e))
	for k, v := range e {
		clone[k] = v
	}

	return clone
}
