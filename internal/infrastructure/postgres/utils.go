package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de clase 23 de PostgreSQL que interesa a los adaptadores: los inserts
// de productos (SKU), órdenes (número) e inventario (llave) lo traducen a un
// error de dominio en vez de filtrar el *pgconn.PgError crudo.
const uniqueViolationCode = "23505"

// isUniqueViolation reporta si err proviene de un constraint UNIQUE.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
