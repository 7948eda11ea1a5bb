// Seeds the catalog with sample products.
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/glossifi/storefront/internal/catalog"
	"github.com/glossifi/storefront/internal/config"
	"github.com/glossifi/storefront/internal/postgres"
)

var products = []catalog.ProductInput{
	{
		Name:        "Classic White Ceramic Mug",
		Description: "A timeless white ceramic mug perfect for your morning coffee. Features a comfortable handle and holds 12oz of your favorite beverage.",
		Price:       "14.99",
		ImageURL:    "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=500&h=500&fit=crop",
		Stock:       50,
		Category:    "Classic",
		Featured:    true,
	},
	{
		Name:        "Premium Black Matte Mug",
		Description: "Sleek black matte finish with a modern design. This premium mug is perfect for coffee enthusiasts who appreciate minimalist style.",
		Price:       "19.99",
		ImageURL:    "https://images.unsplash.com/photo-1577962917302-cd874c4e31d2?w=500&h=500&fit=crop",
		Stock:       35,
		Category:    "Premium",
		Featured:    true,
	},
	{
		Name:        "Colorful Gradient Mug",
		Description: "Bright and cheerful gradient design that brings color to your day. Made from high-quality ceramic with a smooth finish.",
		Price:       "16.99",
		ImageURL:    "https://images.unsplash.com/photo-1600298881974-6be191ceeda1?w=500&h=500&fit=crop",
		Stock:       42,
		Category:    "Design",
	},
	{
		Name:        "Double-Walled Glass Mug",
		Description: "Elegant double-walled glass mug that keeps your drinks at the perfect temperature. See-through design showcases your beverage beautifully.",
		Price:       "24.99",
		ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500&h=500&fit=crop",
		Stock:       28,
		Category:    "Premium",
		Featured:    true,
	},
	{
		Name:        "Rustic Stoneware Mug",
		Description: "Handcrafted stoneware mug with a rustic, earthy feel. Perfect for those who love artisanal, handcrafted items.",
		Price:       "18.99",
		ImageURL:    "https://images.unsplash.com/photo-1609005859976-5c8f0a0a0a0a?w=500&h=500&fit=crop",
		Stock:       30,
		Category:    "Artisan",
	},
	{
		Name:        "Minimalist White & Gold Mug",
		Description: "Sophisticated white ceramic mug with elegant gold accents. A perfect blend of simplicity and luxury for your daily routine.",
		Price:       "22.99",
		ImageURL:    "https://images.unsplash.com/photo-1609005859976-5c8f0a0a0a0a?w=500&h=500&fit=crop",
		Stock:       25,
		Category:    "Luxury",
		Featured:    true,
	},
	{
		Name:        "Travel-Ready Insulated Mug",
		Description: "Keep your drinks hot or cold for hours with this insulated travel mug. Features a leak-proof lid and ergonomic design.",
		Price:       "29.99",
		ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=500&h=500&fit=crop",
		Stock:       40,
		Category:    "Travel",
	},
	{
		Name:        "Vintage Floral Pattern Mug",
		Description: "Charming vintage-inspired floral pattern on a classic ceramic mug. Adds a touch of nostalgia to your coffee break.",
		Price:       "17.99",
		ImageURL:    "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=500&h=500&fit=crop",
		Stock:       38,
		Category:    "Vintage",
	},
	{
		Name:        "Bamboo Fiber Eco-Friendly Mug",
		Description: "Sustainable bamboo fiber mug that's both eco-friendly and stylish. Lightweight yet durable, perfect for the environmentally conscious.",
		Price:       "21.99",
		ImageURL:    "https://images.unsplash.com/photo-1600298881974-6be191ceeda1?w=500&h=500&fit=crop",
		Stock:       33,
		Category:    "Eco-Friendly",
	},
	{
		Name:        "Oversized Comfort Mug",
		Description: "Extra-large 16oz mug for those who like big servings. Comfortable handle and wide base make it perfect for long reading sessions.",
		Price:       "19.99",
		ImageURL:    "https://images.unsplash.com/photo-1577962917302-cd874c4e31d2?w=500&h=500&fit=crop",
		Stock:       45,
		Category:    "Comfort",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	svc := catalog.NewService(&catalog.PostgresRepo{DB: db}, nil)
	for _, in := range products {
		p, err := svc.Create(ctx, in)
		if err != nil {
			log.Fatalf("seed %q: %v", in.Name, err)
		}
		log.Printf("created: %s - $%s", p.Name, p.Price)
	}
	log.Printf("seeded %d products", len(products))
}
