package model

type Product struct {
	BaseModel
	ModelName    string           `db:"model_name" json:"model_name"`
	Category     Category         `db:"category" json:"category"`
	SellingPrice float64          `db:"selling_price" json:"selling_price"`
	CostPrice    float64          `db:"cost_price" json:"cost_price"`
	Image        *string          `db:"image" json:"image"`
	TotalStock   int              `db:"total_stock" json:"total_stock"` // Computed on reads
	Variants     []ProductVariant `db:"-" json:"variants"`
}

type ProductVariant struct {
	BaseModel
	ProductID string `db:"product_id" json:"product_id"`
	Color     string `db:"color" json:"color"`
	Size      string `db:"size" json:"size"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// Info is the human label snapshotted onto order lines.
func (v ProductVariant) Info() string {
	return v.Color + " / " + v.Size
}

// VariantDetail is a variant together with the product it belongs to.
type VariantDetail struct {
	ProductVariant
	ModelName string   `db:"model_name" json:"model_name"`
	Category  Category `db:"category" json:"category"`
}
