// Package models holds persistence-only tables that have no domain entity,
// such as the per-tenant letter numbering counter.
package models
