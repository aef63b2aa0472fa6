package registry

import (
	"log"

	"github.com/residently/registry-backend/internal/db"
)

var store *Store

func Init() {
	if err := db.DB.AutoMigrate(&House{}, &Apartment{}, &Resident{}); err != nil {
		log.Fatal("Failed to auto-migrate registry tables: ", err)
	}
	store = NewStore(db.DB)
}
