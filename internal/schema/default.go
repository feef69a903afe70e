package schema

// Method sets shared by most field types
var (
	textMethods = []Method{
		{Key: "is", Label: "is", Kind: KindText, Op: OpEqual},
		{Key: "isNot", Label: "is not", Kind: KindText, Op: OpNotEqual},
		{Key: "lengthIs", Label: "length is", Kind: KindNumber, Tail: "characters long", Op: OpLengthEqual},
	}

	ownerMethods = []Method{
		{Key: "is", Label: "is", Kind: KindText, Op: OpEqual},
		{Key: "isYearsOld", Label: "is", Kind: KindText, Tail: "years old", Op: OpAgeYearsEqual, Column: "owner_birth_date"},
		{Key: "lengthIs", Label: "length is", Kind: KindNumber, Tail: "characters long", Op: OpLengthEqual},
	}
)

// DefaultIndex is the menu order of the default field types
var DefaultIndex = []string{
	"street",
	"suburb",
	"bedrooms",
	"bathrooms",
	"postcode",
	"owner",
	"tenant",
	"tags",
	"appraisal",
	"listing",
	"contract",
	"user",
}

// DefaultTypes are the property fields a segment can filter on.
// streetNumber is registered but not offered in menus.
func DefaultTypes() []FieldType {
	return []FieldType{
		{Key: "streetNumber", Label: "Street Number", Icon: "mailbox", Column: "street_number", Methods: textMethods},
		{Key: "street", Label: "Street", Icon: "map-signs", Column: "street", Methods: textMethods},
		{Key: "suburb", Label: "Suburb", Icon: "map-marked", Column: "suburb", Methods: textMethods},
		{Key: "bedrooms", Label: "Bedrooms", Icon: "bed", Column: "bedrooms", Methods: textMethods},
		{Key: "bathrooms", Label: "Bathrooms", Icon: "bath", Column: "bathrooms", Methods: textMethods},
		{Key: "postcode", Label: "Postcode", Icon: "location", Column: "postcode", Methods: textMethods},
		{Key: "owner", Label: "Owner", Icon: "user-tie", Column: "owner", Methods: ownerMethods},
		{Key: "tenant", Label: "Tenant", Icon: "user", Column: "tenant", Methods: textMethods},
		{Key: "tags", Label: "Tags", Icon: "tags", Column: "tags", Methods: textMethods},
		{Key: "appraisal", Label: "Appraisal", Icon: "clipboard-list-check", Column: "appraisal", Methods: textMethods},
		{Key: "listing", Label: "Listing", Icon: "toggle-on", Column: "listing", Methods: textMethods},
		{Key: "contract", Label: "Contract", Icon: "file-signature", Column: "contract", Methods: textMethods},
		{Key: "user", Label: "User", Icon: "user", Column: "user", Methods: textMethods},
	}
}

var defaultRegistry = mustRegistry(DefaultTypes(), DefaultIndex)

// Default returns the process-wide default registry
func Default() *Registry {
	return defaultRegistry
}

func mustRegistry(types []FieldType, index []string) *Registry {
	r, err := NewRegistry(types, index)
	if err != nil {
		panic("schema: invalid default registry: " + err.Error())
	}
	return r
}
