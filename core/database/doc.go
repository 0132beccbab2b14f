// Package database provides the GORM connection used by the local database
// destination driver.
//
// The primary driver is MySQL; sqlite is supported for tests and small local
// setups. The connection is optional: when the configured destination is the
// Notion workspace, no database connection is made at all.
package database
