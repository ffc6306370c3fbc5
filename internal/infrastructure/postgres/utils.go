package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation vérifie si une erreur est une violation de contrainte
// unique (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isConcurrencyFailure vérifie si une erreur est un échec de sérialisation
// (40001) ou un deadlock (40P01) — la séquence valider-puis-écrire de la
// conversion est alors rejouée par l'appelant.
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// nullIfEmpty renvoie nil pour une chaîne vide (colonne NULLable).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
