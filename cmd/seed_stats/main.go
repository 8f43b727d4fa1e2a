package main

import (
	"context"
	"flag"
	"log"
	"os"

	"duel_arena/internal/db"
	"duel_arena/internal/domain"
	"duel_arena/internal/repository"
	"duel_arena/internal/service"
)

// Seeds a combat_stats row for a user and prints a token for smoke testing.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	userID := flag.Int64("user", 1, "user id to seed")
	hitChance := flag.Float64("hit", 0.65, "base hit chance")
	critRate := flag.Float64("crit", 0.10, "base crit rate")
	rollCap := flag.Int("cap", 3, "base roll cap")
	flag.Parse()

	service.InitJWT(secret)

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewCombatStatsRepository(pool)
	ctx := context.Background()

	cs := &domain.CombatStats{
		UserID:    *userID,
		HitChance: *hitChance,
		CritRate:  *critRate,
		RollCap:   *rollCap,
	}
	if err := repo.Upsert(ctx, cs); err != nil {
		log.Fatalf("upsert stats failed: %v", err)
	}
	log.Printf("stats seeded user=%d hit=%.2f crit=%.2f cap=%d\n",
		cs.UserID, cs.HitChance, cs.CritRate, cs.RollCap)

	token, err := service.GenerateJWT(*userID)
	if err != nil {
		log.Fatalf("generate token failed: %v", err)
	}
	log.Printf("token: %s\n", token)
}
