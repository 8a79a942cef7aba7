// Package repository provides the cache store repositories over the GORM
// entities. Both SQLite and MySQL are supported; upserts use
// ON CONFLICT / ON DUPLICATE KEY clauses generated by GORM.
package repository
