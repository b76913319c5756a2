package catalog

import (
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixtureCategories() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "Electronics", Icon: "Monitor", Image: "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=400"},
		{ID: 2, Name: "Books", Icon: "Book", Image: "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=400"},
		{ID: 3, Name: "Clothing", Icon: "Shirt", Image: "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=400"},
		{ID: 4, Name: "Home & Garden", Icon: "Home", Image: "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=400"},
		{ID: 5, Name: "Sports & Outdoors", Icon: "Dumbbell", Image: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=400"},
		{ID: 6, Name: "Beauty", Icon: "Heart", Image: "https://images.unsplash.com/photo-1596462502278-27bfdc403348?w=400"},
		{ID: 7, Name: "Toys & Games", Icon: "Gamepad2", Image: "https://images.unsplash.com/photo-1566873481799-9d86d6d77d4b?w=400"},
		{ID: 8, Name: "Automotive", Icon: "Car", Image: "https://images.unsplash.com/photo-1494905998402-395d579af36f?w=400"},
	}
}

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            1,
			Title:         "MacBook Air M2 Chip 13-inch",
			Price:         price("1199.99"),
			OriginalPrice: price("1399.99"),
			Rating:        4.8,
			ReviewCount:   2847,
			Image:         "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=500",
				"https://images.unsplash.com/photo-1541807084-5c52b6b3adef?w=500",
				"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=500",
			},
			Category:    "Electronics",
			CategoryID:  1,
			Description: "Experience the power of the M2 chip in the super-portable MacBook Air. With up to 20 hours of battery life, stunning Retina display, and all-day performance.",
			Features: []string{
				"Apple M2 chip for incredible performance",
				"13.6-inch Liquid Retina display",
				"Up to 20 hours of battery life",
				"8GB unified memory",
				"256GB SSD storage",
				"Two Thunderbolt ports",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         true,
		},
		{
			ID:            2,
			Title:         `Samsung 65" 4K Smart TV`,
			Price:         price("799.99"),
			OriginalPrice: price("999.99"),
			Rating:        4.5,
			ReviewCount:   1523,
			Image:         "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500",
				"https://images.unsplash.com/photo-1567690187548-f07b1d7bf5a9?w=500",
			},
			Category:    "Electronics",
			CategoryID:  1,
			Description: "Immerse yourself in stunning 4K picture quality with this Samsung Smart TV. Features HDR support, built-in streaming apps, and voice control.",
			Features: []string{
				"65-inch 4K UHD display",
				"HDR10+ support",
				"Built-in Tizen OS",
				"Voice control with Alexa",
				"Multiple HDMI ports",
				"WiFi connectivity",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         true,
		},
		{
			ID:            3,
			Title:         "The Psychology of Money",
			Price:         price("14.99"),
			OriginalPrice: price("18.99"),
			Rating:        4.7,
			ReviewCount:   3245,
			Image:         "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=500",
			},
			Category:    "Books",
			CategoryID:  2,
			Description: "Timeless lessons on wealth, greed, and happiness doing well with money isn't necessarily about what you know. It's about how you behave.",
			Features: []string{
				"Paperback edition",
				"256 pages",
				"Business & Money category",
				"Best seller",
				"Author: Morgan Housel",
				"Publisher: Harriman House",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         false,
		},
		{
			ID:            4,
			Title:         "Nike Air Max 270 Running Shoes",
			Price:         price("89.99"),
			OriginalPrice: price("120.99"),
			Rating:        4.4,
			ReviewCount:   892,
			Image:         "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500",
				"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=500",
			},
			Category:    "Clothing",
			CategoryID:  3,
			Description: "Experience ultimate comfort and style with Nike Air Max 270. Features the largest heel Air unit in Nike history for maximum cushioning.",
			Features: []string{
				"Air Max heel cushioning",
				"Breathable mesh upper",
				"Durable rubber outsole",
				"Available in multiple colors",
				"Lightweight design",
				"Iconic Nike styling",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         true,
		},
		{
			ID:            5,
			Title:         "Instant Pot Duo 7-in-1 Electric Pressure Cooker",
			Price:         price("79.99"),
			OriginalPrice: price("99.99"),
			Rating:        4.6,
			ReviewCount:   5647,
			Image:         "https://images.unsplash.com/photo-1574781330855-d0db6cc7e5c1?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1574781330855-d0db6cc7e5c1?w=500",
			},
			Category:    "Home & Garden",
			CategoryID:  4,
			Description: "7 kitchen appliances in 1: pressure cooker, slow cooker, rice cooker, steamer, sauté pan, yogurt maker, and warmer.",
			Features: []string{
				"6-quart capacity",
				"7-in-1 functionality",
				"14 smart programs",
				"Stainless steel inner pot",
				"Safety features",
				"Easy cleanup",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         true,
		},
		{
			ID:            6,
			Title:         "Sony WH-1000XM4 Wireless Headphones",
			Price:         price("279.99"),
			OriginalPrice: price("349.99"),
			Rating:        4.9,
			ReviewCount:   4235,
			Image:         "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
				"https://images.unsplash.com/photo-1484704849700-f032a568e944?w=500",
			},
			Category:    "Electronics",
			CategoryID:  1,
			Description: "Industry-leading noise cancellation with Dual Noise Sensor technology. Up to 30-hour battery life with quick charging.",
			Features: []string{
				"Industry-leading noise cancellation",
				"30-hour battery life",
				"Quick charge (10 min = 5 hours)",
				"Touch sensor controls",
				"Speak-to-chat technology",
				"Premium comfort",
			},
			InStock:      true,
			FreeShipping: true,
			Prime:        true,
			Deal:         true,
		},
	}
}

func fixtureDeals(now time.Time) []domain.Deal {
	return []domain.Deal{
		{
			ID:          "deal1",
			Title:       "Electronics Flash Sale",
			Description: "Up to 40% off on electronics",
			Image:       "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=600",
			Discount:    "40%",
			EndTime:     now.Add(24 * time.Hour),
		},
		{
			ID:          "deal2",
			Title:       "Fashion Week Special",
			Description: "Designer clothes at unbeatable prices",
			Image:       "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=600",
			Discount:    "30%",
			EndTime:     now.Add(48 * time.Hour),
		},
	}
}

func fixtureReviews() map[int64][]domain.Review {
	return map[int64][]domain.Review{
		1: {
			{
				ID:       1,
				User:     "John D.",
				Rating:   5,
				Date:     "2024-12-15",
				Title:    "Amazing performance!",
				Content:  "This MacBook Air is incredible. The M2 chip handles everything I throw at it with ease. Battery life is exactly as advertised.",
				Helpful:  23,
				Verified: true,
			},
			{
				ID:       2,
				User:     "Sarah M.",
				Rating:   4,
				Date:     "2024-12-10",
				Title:    "Great laptop but...",
				Content:  "Love the performance and design. Only wish it had more ports. Overall very satisfied with the purchase.",
				Helpful:  15,
				Verified: true,
			},
		},
		2: {
			{
				ID:       3,
				User:     "Mike R.",
				Rating:   5,
				Date:     "2024-12-12",
				Title:    "Perfect TV for the price",
				Content:  "Picture quality is outstanding. Setup was easy and the smart features work flawlessly.",
				Helpful:  18,
				Verified: true,
			},
		},
	}
}
