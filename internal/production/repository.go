package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosaude/distrito/internal/util"
)

// ErrStoreForbidden indica rejeição por política de linha no banco: o
// gate da aplicação e a política do banco checam a mesma regra, e a
// recusa de qualquer um dos dois é um desfecho legítimo.
var ErrStoreForbidden = errors.New("permissão negada pelo banco")

// Registro é uma produção semanal de um agente comunitário.
type Registro struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	WeekStartDate       util.Date `json:"week_start_date"`
	HousesVisited       int       `json:"houses_visited"`
	NewPeopleRegistered int       `json:"new_people_registered"`
	Observations        *string   `json:"observations"`
	CreatedAt           time.Time `json:"created_at"`
}

// InsertInput são os campos já validados e coercidos de um novo registro.
type InsertInput struct {
	WeekStartDate       util.Date
	HousesVisited       int
	NewPeopleRegistered int
	Observations        *string
}

// Repository encapsula consultas de production_records.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByUser devolve os registros do próprio usuário, semana mais
// recente primeiro. Nenhum registro é lista vazia, não erro.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Registro, error) {
	const query = `
		SELECT id, user_id, week_start_date, houses_visited, new_people_registered,
		       observations, created_at
		FROM production_records
		WHERE user_id = $1
		ORDER BY week_start_date DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registros := make([]Registro, 0)
	for rows.Next() {
		var reg Registro
		var semana time.Time
		if err := rows.Scan(&reg.ID, &reg.UserID, &semana, &reg.HousesVisited,
			&reg.NewPeopleRegistered, &reg.Observations, &reg.CreatedAt); err != nil {
			return nil, err
		}
		reg.WeekStartDate = util.NewDate(semana)
		registros = append(registros, reg)
	}

	return registros, rows.Err()
}

// Insert grava registro com dono estampado pelo servidor e devolve a
// linha criada. Rejeição por política de linha vira ErrStoreForbidden
// com a mensagem do banco anexada.
func (r *Repository) Insert(ctx context.Context, userID uuid.UUID, input InsertInput) (Registro, error) {
	const query = `
		INSERT INTO production_records
			(id, user_id, week_start_date, houses_visited, new_people_registered, observations)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, week_start_date, houses_visited, new_people_registered,
		          observations, created_at`

	var reg Registro
	var semana time.Time
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, input.WeekStartDate.Time,
		input.HousesVisited, input.NewPeopleRegistered, input.Observations).
		Scan(&reg.ID, &reg.UserID, &semana, &reg.HousesVisited,
			&reg.NewPeopleRegistered, &reg.Observations, &reg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InsufficientPrivilege {
			return Registro{}, fmt.Errorf("%w: %s", ErrStoreForbidden, pgErr.Message)
		}
		return Registro{}, err
	}

	reg.WeekStartDate = util.NewDate(semana)
	return reg, nil
}
