package catalog

// Brand is a product manufacturer.
type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category groups products by kind.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductAttribute is one variant characteristic, e.g. "RAM" / "16GB DDR5".
type ProductAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is a catalog entry the agent may reference in its replies.
type Product struct {
	ID            int                `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Price         float64            `json:"price"`
	SKU           string             `json:"sku"`
	StockQuantity int                `json:"stock_quantity"`
	Brand         *Brand             `json:"brand,omitempty"`
	Category      *Category          `json:"category,omitempty"`
	Attributes    []ProductAttribute `json:"attributes,omitempty"`
}

// AttributePair filters products on a single characteristic.
type AttributePair struct {
	Name  string
	Value string
}

// SearchFilter combines the supported product filters. All present filters
// apply together; Query alone matches name, description, brand or category.
type SearchFilter struct {
	Query      string
	Brand      string
	Model      string
	Category   string
	Attributes []AttributePair
	Limit      int
}
