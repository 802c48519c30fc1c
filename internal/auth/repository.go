package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosaude/distrito/internal/db"
)

var (
	// ErrUsuarioNotFound indica que nenhum usuário corresponde à busca.
	ErrUsuarioNotFound = errors.New("usuário não encontrado")
	// ErrEmailEmUso indica tentativa de cadastro com e-mail já existente.
	ErrEmailEmUso = errors.New("e-mail já cadastrado")
)

// Usuario é a conta de autenticação, separada do perfil funcional.
type Usuario struct {
	ID        uuid.UUID
	Email     string
	SenhaHash string
	CriadoEm  time.Time
}

// Repository encapsula o acesso à tabela de usuários.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUsuarioByEmail busca conta pelo e-mail (case-insensitive).
func (r *Repository) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	const query = `
		SELECT id, email, senha_hash, criado_em
		FROM usuarios
		WHERE lower(email) = lower($1)`

	var u Usuario
	err := r.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.SenhaHash, &u.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Usuario{}, ErrUsuarioNotFound
	}
	if err != nil {
		return Usuario{}, err
	}
	return u, nil
}

// CreateUsuarioComPerfil cria a conta e a linha de perfil vazia na
// mesma transação, garantindo o invariante de um perfil por usuário.
func (r *Repository) CreateUsuarioComPerfil(ctx context.Context, email, senhaHash string) (uuid.UUID, error) {
	userID := uuid.New()

	err := db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO usuarios (id, email, senha_hash) VALUES ($1, $2, $3)`,
			userID, email, senhaHash,
		); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO profile (id, email) VALUES ($1, $2)`,
			userID, email,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, ErrEmailEmUso
		}
		return uuid.Nil, err
	}

	return userID, nil
}
