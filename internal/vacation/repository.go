package vacation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosaude/distrito/internal/util"
)

// Solicitacao é um pedido de férias de um servidor.
type Solicitacao struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	StartDate      util.Date `json:"start_date"`
	EndDate        util.Date `json:"end_date"`
	Modality       string    `json:"modality"`
	RequestDetails *string   `json:"request_details"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// InsertInput são os campos já validados de uma nova solicitação.
type InsertInput struct {
	StartDate      util.Date
	EndDate        util.Date
	Modality       string
	RequestDetails *string
	Status         string
}

// Repository encapsula consultas da tabela vacations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByUser devolve o histórico do próprio usuário, mais recente
// primeiro. Nenhuma solicitação é lista vazia, não erro.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Solicitacao, error) {
	const query = `
		SELECT id, user_id, start_date, end_date, modality, request_details, status, created_at
		FROM vacations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	solicitacoes := make([]Solicitacao, 0)
	for rows.Next() {
		var s Solicitacao
		var inicio, fim time.Time
		if err := rows.Scan(&s.ID, &s.UserID, &inicio, &fim, &s.Modality,
			&s.RequestDetails, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.StartDate = util.NewDate(inicio)
		s.EndDate = util.NewDate(fim)
		solicitacoes = append(solicitacoes, s)
	}

	return solicitacoes, rows.Err()
}

// Insert grava a solicitação com dono estampado pelo servidor e
// devolve a linha criada.
func (r *Repository) Insert(ctx context.Context, userID uuid.UUID, input InsertInput) (Solicitacao, error) {
	const query = `
		INSERT INTO vacations (id, user_id, start_date, end_date, modality, request_details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, start_date, end_date, modality, request_details, status, created_at`

	var s Solicitacao
	var inicio, fim time.Time
	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, input.StartDate.Time,
		input.EndDate.Time, input.Modality, input.RequestDetails, input.Status).
		Scan(&s.ID, &s.UserID, &inicio, &fim, &s.Modality, &s.RequestDetails,
			&s.Status, &s.CreatedAt)
	if err != nil {
		return Solicitacao{}, err
	}

	s.StartDate = util.NewDate(inicio)
	s.EndDate = util.NewDate(fim)
	return s, nil
}
