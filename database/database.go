package database

import (
	"gorm.io/gorm"
)

type Database struct {
	projectRepo      *ProjectRepo
	linkRepo         *LinkRepo
	adminSessionRepo *AdminSessionRepo
	adminLogRepo     *AdminLogRepo
	userRepo         *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:      NewProjectRepo(db),
		linkRepo:         NewLinkRepo(db),
		adminSessionRepo: NewAdminSessionRepo(db),
		adminLogRepo:     NewAdminLogRepo(db),
		userRepo:         NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) LinkRepo() *LinkRepo {
	return d.linkRepo
}

func (d Database) AdminSessionRepo() *AdminSessionRepo {
	return d.adminSessionRepo
}

func (d Database) AdminLogRepo() *AdminLogRepo {
	return d.adminLogRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Ping verifies that the underlying store is reachable.
func (d Database) Ping() error {
	sqlDB, err := d.projectRepo.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
