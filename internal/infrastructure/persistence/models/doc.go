// Package models contains GORM persistence models for aggregates whose domain
// types stay free of ORM tags. Each model converts with ToDomain / FromDomain.
//
// The quotation aggregate lives here: the request row, its commodity items,
// article lines and attachments, plus the yearly request number sequence.
// Simpler aggregates (ports, tariffs, articles, pricing rules, users,
// schedules) map their domain structs directly.
package models
