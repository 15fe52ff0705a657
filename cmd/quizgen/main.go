package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"quizgen/internal/aigen"
	"quizgen/internal/cli"
	"quizgen/internal/quiz/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	dbPath := flag.String("db", "", "path to the quiz database (default $QUIZGEN_DB or quizgen.db)")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = os.Getenv("QUIZGEN_DB")
	}

	store, err := sqlite.New(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer store.Close()

	cfg := cli.Config{
		Store: store,
		Rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.Maker = aigen.NewMaker(apiKey)
	}

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
