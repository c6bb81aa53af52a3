package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/strathmore/lostfound/internal/db"
	"github.com/strathmore/lostfound/internal/model"
	"github.com/strathmore/lostfound/internal/store"
)

// sampleItems is demo data for a fresh installation.
var sampleItems = []model.Item{
	{
		Title:         "iPhone 13 Pro",
		Description:   "Black iPhone 13 Pro with cracked screen protector. Has a blue case.",
		Category:      "Electronics",
		Status:        model.StatusLost,
		Location:      "Library - 2nd Floor",
		DateLostFound: "2024-01-15",
		ContactName:   "John Doe",
		ContactEmail:  "john.doe@strathmore.edu",
		ContactPhone:  "+254712345678",
	},
	{
		Title:         "Red Backpack",
		Description:   "Red Jansport backpack with laptop compartment. Contains notebooks and pens.",
		Category:      "Accessories",
		Status:        model.StatusFound,
		Location:      "Student Center",
		DateLostFound: "2024-01-14",
		ContactName:   "Jane Smith",
		ContactEmail:  "jane.smith@strathmore.edu",
		ContactPhone:  "+254723456789",
	},
	{
		Title:         "Calculus Textbook",
		Description:   `Stewart Calculus 8th Edition. Name "Mike Johnson" written inside cover.`,
		Category:      "Books",
		Status:        model.StatusFound,
		Location:      "Mathematics Department",
		DateLostFound: "2024-01-13",
		ContactName:   "Sarah Wilson",
		ContactEmail:  "sarah.wilson@strathmore.edu",
		ContactPhone:  "+254734567890",
	},
	{
		Title:         "Car Keys",
		Description:   "Toyota car keys with black leather keychain. Has house keys attached.",
		Category:      "Keys",
		Status:        model.StatusLost,
		Location:      "Parking Lot B",
		DateLostFound: "2024-01-12",
		ContactName:   "David Brown",
		ContactEmail:  "david.brown@strathmore.edu",
		ContactPhone:  "+254745678901",
	},
	{
		Title:         "Student ID Card",
		Description:   "Student ID card for Mary Wanjiku, admission number 098765.",
		Category:      "Documents",
		Status:        model.StatusFound,
		Location:      "Cafeteria",
		DateLostFound: "2024-01-11",
		ContactName:   "Peter Kamau",
		ContactEmail:  "peter.kamau@strathmore.edu",
		ContactPhone:  "+254756789012",
	},
}

func main() {
	dbPath := flag.String("db", "lostfound.sqlite3", "SQLite database path")
	flag.Parse()

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for _, item := range sampleItems {
		created, err := store.CreateItem(ctx, database, item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error seeding %q: %v\n", item.Title, err)
			os.Exit(1)
		}
		fmt.Printf("seeded item %d: %s (%s)\n", created.ID, created.Title, created.Status)
	}

	fmt.Printf("Database seeded with %d sample items: %s\n", len(sampleItems), *dbPath)
}
