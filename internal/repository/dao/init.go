package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Product{},
		&Offer{},
		&AcceptedOffer{},
		&BlockedUser{},
		&BlockedProduct{},
	)
}

// SeedCategories inserts the default category set once.
func SeedCategories(db *gorm.DB, names []string) error {
	for _, name := range names {
		var count int64
		if err := db.Model(&Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&Category{Name: name}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
