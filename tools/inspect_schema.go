package main

import (
	"fmt"
	"log"

	"github.com/localnerve/novelsdb/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

// Prints the tables and indexes GORM derives from the models, as a reference
// when editing the DDL under data/initdb.
func main() {
	db, err := database.Open(sqlite.Open(":memory:?_foreign_keys=on"), logger.Silent)
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	var objects []struct {
		Type string
		Name string
		SQL  string `gorm:"column:sql"`
	}
	db.Raw("SELECT type, name, sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY tbl_name, type DESC").Scan(&objects)

	for _, obj := range objects {
		fmt.Printf("\n=== %s: %s ===\n", obj.Type, obj.Name)
		fmt.Println(obj.SQL)
	}
}
