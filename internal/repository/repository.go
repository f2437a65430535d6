package repository

import "errors"

// ErrNotFound se devuelve cuando una consulta puntual no encuentra filas.
// Los repos lo mapean desde pgx.ErrNoRows para no filtrar el driver hacia los services.
var ErrNotFound = errors.New("record not found")
