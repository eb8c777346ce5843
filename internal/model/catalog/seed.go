package catalog

// Seed mirrors the demo inventory used before a real database is wired in.
func Seed() []Product {
	dell := &Brand{ID: 1, Name: "Dell", Slug: "dell"}
	hp := &Brand{ID: 2, Name: "HP", Slug: "hp"}
	apple := &Brand{ID: 3, Name: "Apple", Slug: "apple"}

	laptops := &Category{ID: 1, Name: "Portátiles", Slug: "portatiles"}
	monitors := &Category{ID: 2, Name: "Monitores", Slug: "monitores"}

	return []Product{
		{
			ID:            1,
			Name:          "Dell XPS 15",
			Description:   "Potente portátil para creadores de contenido.",
			Price:         2199.99,
			SKU:           "DELL-XPS15-9530",
			StockQuantity: 15,
			Brand:         dell,
			Category:      laptops,
			Attributes: []ProductAttribute{
				{Name: "Processor", Value: "Intel Core i7-13700H"},
				{Name: "RAM", Value: "16GB DDR5"},
				{Name: "Storage", Value: "1TB SSD"},
				{Name: "Screen", Value: "15.6\" OLED 3.5K"},
			},
		},
		{
			ID:            2,
			Name:          "HP Spectre x360",
			Description:   "Diseño convertible 2-en-1 con pantalla táctil.",
			Price:         1549.50,
			SKU:           "HP-SPX360-14",
			StockQuantity: 22,
			Brand:         hp,
			Category:      laptops,
			Attributes: []ProductAttribute{
				{Name: "Processor", Value: "Intel Core i7-1355U"},
				{Name: "RAM", Value: "16GB LPDDR4x"},
				{Name: "Storage", Value: "512GB SSD"},
			},
		},
		{
			ID:            3,
			Name:          "Apple MacBook Air M2",
			Description:   "Ultraligero y con una batería de larga duración.",
			Price:         1299.00,
			SKU:           "APP-MBA-M2-SLV",
			StockQuantity: 30,
			Brand:         apple,
			Category:      laptops,
			Attributes: []ProductAttribute{
				{Name: "Processor", Value: "Apple M2"},
				{Name: "RAM", Value: "8GB"},
				{Name: "Storage", Value: "256GB SSD"},
			},
		},
		{
			ID:            4,
			Name:          "Monitor Dell UltraSharp 27",
			Description:   "Monitor 4K con colores precisos para profesionales.",
			Price:         599.99,
			SKU:           "DELL-U2723QE",
			StockQuantity: 40,
			Brand:         dell,
			Category:      monitors,
			Attributes: []ProductAttribute{
				{Name: "Screen", Value: "27\" IPS 4K"},
			},
		},
	}
}
