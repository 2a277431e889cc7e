// roomtool is an ops helper: list rooms, inspect a room's shape history,
// and spot corrupt records without going through the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"drawboard-backend/internal/shape"
)

func main() {
	roomID := flag.Int64("room", 0, "room id to dump; 0 lists all rooms")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	// Database connection
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_SSLMODE"),
		os.Getenv("DB_TIMEZONE"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("✅ Connected to database")
	fmt.Println()

	if *roomID == 0 {
		listRooms(db)
		return
	}
	dumpRoom(db, *roomID)
}

func listRooms(db *gorm.DB) {
	type RoomInfo struct {
		ID        int64
		Name      string
		OwnerID   int64
		Members   int64
		Shapes    int64
		CreatedAt string
	}
	var rooms []RoomInfo
	query := `
		SELECT r.id, r.name, r.owner_id,
			(SELECT COUNT(*) FROM room_members m WHERE m.room_id = r.id) AS members,
			(SELECT COUNT(*) FROM shape_records s WHERE s.room_id = r.id) AS shapes,
			r.created_at
		FROM rooms r
		ORDER BY r.id
	`
	if err := db.Raw(query).Scan(&rooms).Error; err != nil {
		log.Fatal("Failed to list rooms:", err)
	}

	fmt.Printf("🏠 Rooms (%d):\n", len(rooms))
	for _, r := range rooms {
		fmt.Printf("  - ID: %d, Name: %q, Owner: %d, Members: %d, Shapes: %d\n",
			r.ID, r.Name, r.OwnerID, r.Members, r.Shapes)
	}
}

func dumpRoom(db *gorm.DB, roomID int64) {
	type RecordInfo struct {
		ID        int64
		CreatedBy *int64
		Data      string
		CreatedAt string
	}
	var records []RecordInfo
	query := `
		SELECT id, created_by, data, created_at
		FROM shape_records
		WHERE room_id = ?
		ORDER BY id
	`
	if err := db.Raw(query, roomID).Scan(&records).Error; err != nil {
		log.Fatal("Failed to load shape records:", err)
	}

	fmt.Printf("🖊️ Room %d shape history (%d records):\n", roomID, len(records))
	corrupt := 0
	for _, rec := range records {
		sh, err := shape.Decode([]byte(rec.Data))
		if err != nil {
			corrupt++
			fmt.Printf("  - ID: %d ❌ corrupt: %v\n", rec.ID, err)
			continue
		}
		by := "?"
		if rec.CreatedBy != nil {
			by = fmt.Sprintf("%d", *rec.CreatedBy)
		}
		b := sh.Bounds()
		fmt.Printf("  - ID: %d, Type: %s, By: %s, Bounds: (%.1f,%.1f %.1fx%.1f)\n",
			rec.ID, sh.Kind(), by, b.X, b.Y, b.Width, b.Height)
	}
	if corrupt > 0 {
		fmt.Printf("\n⚠️ %d corrupt record(s), skipped by the API as well\n", corrupt)
	}
}
