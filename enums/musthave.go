package enums

type MustHave string

const (
	MustHaveInvalid        MustHave = ""
	MustHaveParking        MustHave = "parking"
	MustHaveGarden         MustHave = "garden"
	MustHaveFurnished      MustHave = "furnished"
	MustHavePetsAllowed    MustHave = "pets_allowed"
	MustHaveBillsIncluded  MustHave = "bills_included"
	MustHaveBalcony        MustHave = "balcony"
	MustHaveDishwasher     MustHave = "dishwasher"
	MustHaveWashingMachine MustHave = "washing_machine"
)

var MustHaves = []MustHave{
	MustHaveParking,
	MustHaveGarden,
	MustHaveFurnished,
	MustHavePetsAllowed,
	MustHaveBillsIncluded,
	MustHaveBalcony,
	MustHaveDishwasher,
	MustHaveWashingMachine,
}

func ParseMustHave(s string) MustHave {
	for _, m := range MustHaves {
		if string(m) == s {
			return m
		}
	}
	return MustHaveInvalid
}
