// Package database opens the dictionary store and runs its migrations.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── dictionary/      # Entry and definition writes, lookups, counts
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./dictionary.db")
//	repo := dictionary.NewRepository(db.DB)
//
//	// Inside a gorm transaction
//	err = db.DB.Transaction(func(tx *gorm.DB) error {
//		id, created, err := repo.WithTx(tx).InsertEntry(ctx, &entry)
//		...
//	})
//
// Migrate is safe to call inside a transaction, which the importer
// relies on so that schema creation rolls back with a failed import.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register its entities in Migrate
package database
