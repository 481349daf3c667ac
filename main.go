package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"dompetku/pkg/notify"
	"dompetku/process/importer"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

var hub = notify.NewHub()

func main() {
	// Auto-load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Money values serialize as JSON numbers, matching the clients.
	decimal.MarshalJSONWithoutQuotes = true

	// Support a lightweight migrate command: `./dompetku migrate`
	// Runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()
	connectRedis()

	if dir := os.Getenv("IMPORT_DIR"); dir != "" {
		owner := os.Getenv("IMPORT_USER")
		go func() {
			if err := importer.Run(db, hub, dir, owner); err != nil {
				slog.Error("csv importer stopped", "error", err)
			}
		}()
	}

	r := gin.Default()

	setupRoutes(r)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	r.Run(addr)
}
