package models

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// LongText is chapter body text, mapped to the widest text type each driver offers
type LongText string

// Value implements driver.Valuer
func (t LongText) Value() (driver.Value, error) {
	return string(t), nil
}

// Scan implements sql.Scanner
func (t *LongText) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ""
	case string:
		*t = LongText(v)
	case []byte:
		*t = LongText(v)
	default:
		return fmt.Errorf("LongText: unsupported scan type %T", value)
	}
	return nil
}

// GormDBDataType ensures the correct data type is used for each database driver.
// MySQL TEXT tops out at 64KB and SQL Server deprecates TEXT.
func (LongText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGTEXT"
	case "postgres":
		return "TEXT"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "TEXT"
	}
	return "TEXT"
}
