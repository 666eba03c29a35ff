package ingredient

// Type classifies an ingredient within the design form.
type Type string

const (
	TypeWrap    Type = "WRAP"
	TypeProtein Type = "PROTEIN"
	TypeVeggies Type = "VEGGIES"
	TypeCheese  Type = "CHEESE"
	TypeSauce   Type = "SAUCE"
)

func (t Type) String() string {
	return string(t)
}

// Types lists every ingredient type in display order.
func Types() []Type {
	return []Type{TypeWrap, TypeProtein, TypeVeggies, TypeCheese, TypeSauce}
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	switch t {
	case TypeWrap, TypeProtein, TypeVeggies, TypeCheese, TypeSauce:
		return true
	}
	return false
}

// Ingredient is an immutable catalog entry keyed by a short code.
type Ingredient struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Type Type   `json:"type" db:"type"`
}
