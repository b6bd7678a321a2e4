package db

import "embed"

// Migrations holds the golang-migrate schema files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
