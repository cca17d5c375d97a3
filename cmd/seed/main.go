// Command seed fills a development database with demo accounts and content.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/1willcobb/myfilmfriends-server/internal/config"
	"github.com/1willcobb/myfilmfriends-server/internal/database"
	"github.com/1willcobb/myfilmfriends-server/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of random users to create besides the demo accounts")
	postsPerUser := flag.Int("posts", 2, "Posts to create per user")
	shouldClean := flag.Bool("clean", true, "Drop and recreate tables before seeding")
	fakeSeed := flag.Int64("seed", 0, "Random seed for generated data (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, *fakeSeed)
	if err := s.Run(context.Background(), seed.Options{
		ExtraUsers:   *numUsers,
		PostsPerUser: *postsPerUser,
		Clean:        *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed. Demo logins:")
	for _, a := range seed.DemoAccounts {
		log.Printf("  %s / %s (%s)", a.Email, a.Password, a.Role)
	}
}
