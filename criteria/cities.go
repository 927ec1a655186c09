package criteria

import (
	"strings"
	"unicode"
)

type City struct {
	Name  string
	Areas []string // postcode areas, e.g. "M" or "LS"
	// Districts offered by the location picker.
	Districts []string
}

var Cities = []City{
	{Name: "Manchester", Areas: []string{"M"}, Districts: []string{"M1", "M2", "M3", "M4", "M8", "M11", "M12", "M13", "M14", "M15", "M16", "M19", "M20", "M21", "M22"}},
	{Name: "London", Areas: []string{"E", "EC", "N", "NW", "SE", "SW", "W", "WC"}, Districts: []string{"E1", "E2", "E3", "E8", "E14", "EC1", "EC2", "N1", "N4", "N7", "NW1", "NW3", "NW6", "SE1", "SE5", "SE15", "SW1", "SW4", "SW9", "SW11", "W1", "W2", "W11", "WC1", "WC2"}},
	{Name: "Birmingham", Areas: []string{"B"}, Districts: []string{"B1", "B2", "B3", "B4", "B5", "B12", "B13", "B15", "B16", "B17", "B29", "B30"}},
	{Name: "Leeds", Areas: []string{"LS"}, Districts: []string{"LS1", "LS2", "LS3", "LS4", "LS6", "LS7", "LS8", "LS11", "LS12"}},
	{Name: "Liverpool", Areas: []string{"L"}, Districts: []string{"L1", "L2", "L3", "L7", "L8", "L15", "L17", "L18"}},
	{Name: "Bristol", Areas: []string{"BS"}, Districts: []string{"BS1", "BS2", "BS3", "BS5", "BS6", "BS7", "BS8", "BS16"}},
	{Name: "Glasgow", Areas: []string{"G"}, Districts: []string{"G1", "G2", "G3", "G4", "G11", "G12", "G31", "G41"}},
	{Name: "Edinburgh", Areas: []string{"EH"}, Districts: []string{"EH1", "EH2", "EH3", "EH6", "EH7", "EH8", "EH9", "EH10"}},
	{Name: "Sheffield", Areas: []string{"S"}, Districts: []string{"S1", "S2", "S3", "S7", "S10", "S11"}},
	{Name: "Nottingham", Areas: []string{"NG"}, Districts: []string{"NG1", "NG2", "NG3", "NG5", "NG7", "NG9"}},
	{Name: "Cardiff", Areas: []string{"CF"}, Districts: []string{"CF10", "CF11", "CF14", "CF24"}},
	{Name: "Newcastle", Areas: []string{"NE"}, Districts: []string{"NE1", "NE2", "NE4", "NE6"}},
}

func FindCity(name string) (City, bool) {
	for _, c := range Cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// PostcodeArea returns the leading letters of a postcode prefix: "LS6" -> "LS".
func PostcodeArea(location string) string {
	location = strings.ToUpper(strings.TrimSpace(location))
	end := strings.IndexFunc(location, func(r rune) bool { return !unicode.IsLetter(r) })
	if end == -1 {
		return location
	}
	return location[:end]
}

// CityOf returns the city whose postcode areas include the location.
func CityOf(location string) (City, bool) {
	area := PostcodeArea(location)
	if area == "" {
		return City{}, false
	}
	for _, c := range Cities {
		for _, a := range c.Areas {
			if a == area {
				return c, true
			}
		}
	}
	return City{}, false
}

// InferCity derives the city of a search from its first recognised location.
// Saved searches don't store the city, so editors rebuild it this way.
func InferCity(locations StringList) (City, bool) {
	for _, l := range locations {
		if c, ok := CityOf(l); ok {
			return c, true
		}
	}
	return City{}, false
}

func (c City) Contains(location string) bool {
	area := PostcodeArea(location)
	for _, a := range c.Areas {
		if a == area {
			return true
		}
	}
	return false
}

// HasDistrict reports whether the location is one of the districts offered for the city.
func (c City) HasDistrict(location string) bool {
	location = strings.ToUpper(strings.TrimSpace(location))
	for _, d := range c.Districts {
		if d == location {
			return true
		}
	}
	return false
}
