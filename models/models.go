package models

// All lists every model the schema migration manages.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Review{},
		&Cart{},
		&CartItem{},
	}
}
