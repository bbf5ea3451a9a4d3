package domain

// DefaultProducts returns the starter catalog used to seed an empty store
func DefaultProducts() []Product {
	return []Product{
		{
			ID:           "1",
			Name:         "Kanchipuram Pure Silk Saree",
			Price:        15999,
			Description:  "Traditional Kanchipuram pure silk saree with rich golden zari work.",
			Details:      "Handcrafted by skilled artisans, this Kanchipuram pure silk saree features intricate golden zari work throughout the border and pallu. The saree has a rich maroon body with contrasting golden border, making it perfect for weddings and special occasions. The saree comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1610189352649-6e773be3752e?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1610189352649-6e773be3752e?w=800&auto=format&fit=crop"},
			Category:     "kanchipuram",
			Material:     "Pure Silk",
			MaterialType: "silk",
			Colors:       []string{"maroon", "gold"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:           "2",
			Name:         "Mysore Silk Saree",
			Price:        8999,
			Description:  "Elegant Mysore silk saree with a subtle sheen and lightweight comfort.",
			Details:      "This Mysore silk saree is known for its lightweight nature and subtle sheen. The saree features a beautiful teal color with silver zari border and pallu. Perfect for both festive occasions and formal events. The saree is complemented by an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1594387303228-8086268c520a?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1594387303228-8086268c520a?w=800&auto=format&fit=crop"},
			Category:     "mysore",
			Material:     "Mysore Silk",
			MaterialType: "silk",
			Colors:       []string{"teal", "silver"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:           "3",
			Name:         "Banarasi Silk Saree",
			Price:        12999,
			Description:  "Opulent Banarasi silk saree with intricate gold thread work and motifs.",
			Details:      "This Banarasi silk saree is a masterpiece of craftsmanship featuring intricate gold thread work and traditional motifs. The saree has a rich purple base with golden floral patterns throughout. The heavy pallu and border add to its royal appearance, making it ideal for weddings and celebrations. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1629412708502-57277610139e?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1629412708502-57277610139e?w=800&auto=format&fit=crop"},
			Category:     "banarasi",
			Material:     "Banarasi Silk",
			MaterialType: "silk",
			Colors:       []string{"purple", "gold"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:           "4",
			Name:         "Pochampally Ikat Silk Saree",
			Price:        7499,
			Description:  "Distinctive Pochampally Ikat silk saree with geometric patterns.",
			Details:      "The Pochampally Ikat silk saree is distinguished by its unique geometric patterns created using the Ikat dyeing technique. This saree features a vibrant blue base with contrasting red and yellow patterns. Known for its durability and distinctive design, it's perfect for both casual and semi-formal occasions. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1605146769289-440113cc3d00?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1605146769289-440113cc3d00?w=800&auto=format&fit=crop"},
			Category:     "pochampally",
			Material:     "Ikat Silk",
			MaterialType: "silk",
			Colors:       []string{"blue", "red", "yellow"},
			Featured:     false,
			Active:       true,
		},
		{
			ID:           "5",
			Name:         "Dharmavaram Silk Saree",
			Price:        9999,
			Description:  "Traditional Dharmavaram silk saree with broad borders and rich pallu.",
			Details:      "The Dharmavaram silk saree is characterized by its broad borders, rich pallu, and contrasting colors. This saree features a stunning green body with a contrasting maroon border and pallu, adorned with golden zari work. Ideal for festivals and special occasions, it represents the rich heritage of Andhra Pradesh. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1617627143750-d86bc21e42bb?w=800&auto=format&fit=crop"},
			Category:     "dharmavaram",
			Material:     "Pure Silk",
			MaterialType: "silk",
			Colors:       []string{"green", "maroon", "gold"},
			Featured:     false,
			Active:       true,
		},
		{
			ID:           "6",
			Name:         "Patola Silk Saree",
			Price:        18999,
			Description:  "Rare and prestigious Patola silk saree with double ikat patterns.",
			Details:      "The Patola silk saree from Gujarat is one of the rarest and most prestigious textiles, featuring double ikat patterns. This saree has a rich red base with intricate geometric and floral patterns in multiple colors. The meticulous craftsmanship and dyeing technique make it a cherished heirloom piece. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1622398925373-3f91b1e275f5?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1622398925373-3f91b1e275f5?w=800&auto=format&fit=crop"},
			Category:     "patola",
			Material:     "Patola Silk",
			MaterialType: "silk",
			Colors:       []string{"red", "black", "yellow"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:           "7",
			Name:         "Gadwal Silk Saree",
			Price:        6999,
			Description:  "Lightweight Gadwal silk saree with cotton body and silk borders.",
			Details:      "The Gadwal silk saree is known for its lightweight nature, featuring a cotton body with pure silk borders and pallu. This saree showcases a mustard yellow body with a contrast red border and pallu, adorned with traditional temple designs. Perfect for regular wear and small functions. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1584273143981-41c073dfe8f8?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1584273143981-41c073dfe8f8?w=800&auto=format&fit=crop"},
			Category:     "gadwal",
			Material:     "Cotton-Silk",
			MaterialType: "blended",
			Colors:       []string{"yellow", "red"},
			Featured:     false,
			Active:       true,
		},
		{
			ID:           "8",
			Name:         "Tussar Silk Saree",
			Price:        5999,
			Description:  "Natural Tussar silk saree with earthy tones and hand-painted motifs.",
			Details:      "This Tussar silk saree is made from natural wild silk with a distinctive texture and earthy tones. The saree features hand-painted floral motifs in vibrant colors against a beige background. Known for its natural sheen and comfort, it's perfect for office wear and casual gatherings. Comes with an unstitched matching blouse piece.",
			Image:        "https://images.unsplash.com/photo-1610366398516-46da9dec5931?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1610366398516-46da9dec5931?w=800&auto=format&fit=crop"},
			Category:     "tussar",
			Material:     "Tussar Silk",
			MaterialType: "silk",
			Colors:       []string{"beige", "multicolor"},
			Featured:     false,
			Active:       true,
		},
		{
			ID:           "9",
			Name:         "Handloom Cotton Saree",
			Price:        3999,
			Description:  "Breathable handloom cotton saree with simple and elegant design.",
			Details:      "This handwoven cotton saree is perfect for everyday wear with its breathable fabric and comfortable design. Features traditional motifs woven into the fabric with a contrasting border. Ideal for summer and casual occasions.",
			Image:        "https://images.unsplash.com/photo-1595341595379-cf1cd0fb7fb1?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1595341595379-cf1cd0fb7fb1?w=800&auto=format&fit=crop"},
			Category:     "handloom",
			Material:     "Pure Cotton",
			MaterialType: "cotton",
			Colors:       []string{"cream", "blue"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:           "10",
			Name:         "Kerala Cotton Saree",
			Price:        2999,
			Description:  "Simple and elegant Kerala cotton saree with gold border.",
			Details:      "This Kerala cotton saree features the classic cream base with a simple gold zari border that gives it an elegant look. Known for its comfort and breathability, it's perfect for daily wear and small functions.",
			Image:        "https://images.unsplash.com/photo-1583931704162-1b4fa37a6871?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1583931704162-1b4fa37a6871?w=800&auto=format&fit=crop"},
			Category:     "kerala",
			Material:     "Cotton",
			MaterialType: "cotton",
			Colors:       []string{"cream", "gold"},
			Featured:     false,
			Active:       true,
		},
		{
			ID:           "11",
			Name:         "Linen Saree",
			Price:        4599,
			Description:  "Modern linen saree with contemporary design and comfort.",
			Details:      "This lightweight linen saree combines traditional elegance with modern comfort. The natural linen fabric is breathable and has a unique texture that drapes beautifully. Perfect for office wear and semi-formal occasions.",
			Image:        "https://images.unsplash.com/photo-1615886753866-79219d989638?w=800&auto=format&fit=crop",
			Images:       []string{"https://images.unsplash.com/photo-1615886753866-79219d989638?w=800&auto=format&fit=crop"},
			Category:     "linen",
			Material:     "Pure Linen",
			MaterialType: "linen",
			Colors:       []string{"grey", "silver"},
			Featured:     true,
			Active:       true,
		},
		{
			ID:            "12",
			Name:          "Synthetic Party Saree",
			Price:         1999,
			DiscountPrice: floatPtr(1599),
			Description:   "Affordable synthetic saree with shimmer finish for parties.",
			Details:       "This budget-friendly synthetic saree features a glamorous shimmer finish that's perfect for parties and celebrations. Easy to maintain and drape, it's a practical choice for occasional wear.",
			Image:         "https://images.unsplash.com/photo-1626375555932-29c0876614ed?w=800&auto=format&fit=crop",
			Images:        []string{"https://images.unsplash.com/photo-1626375555932-29c0876614ed?w=800&auto=format&fit=crop"},
			Category:      "party",
			Material:      "Synthetic",
			MaterialType:  "synthetic",
			Colors:        []string{"pink", "silver"},
			Featured:      false,
			Active:        true,
		},
	}
}

// DefaultBanners returns the homepage slides used to seed an empty store
func DefaultBanners() []Banner {
	return []Banner{
		{ID: "banner1", ImageUrl: "https://images.unsplash.com/photo-1583931704162-1b4fa37a6871", Title: "EXCLUSIVE FESTIVAL COLLECTION", Link: "/catalog", IsActive: true, Sort: 1},
		{ID: "banner2", ImageUrl: "https://images.unsplash.com/photo-1610189352649-6e773be3752e", Title: "50% OFF WEDDING SAREES", Link: "/discounts", IsActive: true, Sort: 2},
		{ID: "banner3", ImageUrl: "https://images.unsplash.com/photo-1594387303228-8086268c520a", Title: "NEW ARRIVALS COLLECTION", Link: "/catalog?new=true", IsActive: true, Sort: 3},
		{ID: "banner4", ImageUrl: "https://images.unsplash.com/photo-1618160702438-9b02ab6515c9", Title: "HANDLOOM SILK SAREES", Link: "/catalog", IsActive: true, Sort: 4},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
