// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// Peek returns a page one row larger so callers can detect a following page.
func (p Page) Peek() Page {
	return Page{Limit: p.Limit + 1, Offset: p.Offset}
}

// Trim cuts rows fetched with Peek back to the page size and reports whether more exist.
func Trim[T any](rows []T, p Page) ([]T, bool) {
	if len(rows) > p.Limit {
		return rows[:p.Limit], true
	}
	return rows, false
}

// translate maps gorm errors onto AppErrors for the named resource.
func translate(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

const pgUniqueViolation = "23505"

// isUniqueConstraintError reports a unique violation from postgres (SQLSTATE
// 23505) or from sqlite, whose driver only exposes it as text.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// adjustCounter atomically adds delta to column on the row id of table.
func adjustCounter(tx *gorm.DB, table, column string, id uint, delta int) error {
	res := tx.Table(table).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(resourceName(table), id)
	}
	return nil
}

// decrementFromRelation subtracts one from column on every row of table referenced
// by ownerID's rows in relationTable. Relation rows are unique per owner and target.
func decrementFromRelation(tx *gorm.DB, table, column, relationTable, relationColumn, ownerColumn string, ownerID uint) error {
	return tx.Exec(
		"UPDATE "+table+" SET "+column+" = "+column+" - 1 WHERE id IN (SELECT "+relationColumn+" FROM "+relationTable+" WHERE "+ownerColumn+" = ? AND "+relationColumn+" IS NOT NULL)",
		ownerID,
	).Error
}

func resourceName(table string) string {
	switch table {
	case "users":
		return "User"
	case "posts":
		return "Post"
	case "blogs":
		return "Blog"
	case "comments":
		return "Comment"
	default:
		return strings.TrimSuffix(table, "s")
	}
}
