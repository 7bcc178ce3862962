package model

// Category is the closed set of product categories the shop sells.
type Category string

const (
	CategoryTShirt Category = "T-Shirt"
	CategoryPants  Category = "Pants"
	CategoryShoes  Category = "Shoes"
)

var Categories = []Category{CategoryTShirt, CategoryPants, CategoryShoes}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type CategorySummary struct {
	Name         Category `db:"category" json:"name"`
	ProductCount int      `db:"product_count" json:"product_count"`
	TotalStock   int      `db:"total_stock" json:"total_stock"`
}
