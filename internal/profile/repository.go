package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gestaosaude/distrito/internal/util"
)

var (
	// ErrNotFound indica usuário sem linha de perfil.
	ErrNotFound = errors.New("perfil não encontrado")
	// ErrForbidden indica cargo incompatível com a operação.
	ErrForbidden = errors.New("acesso não autorizado")
)

// Perfil é a ficha funcional do servidor, uma linha por usuário.
type Perfil struct {
	ID              uuid.UUID  `json:"id"`
	NomeCompleto    *string    `json:"nome_completo"`
	CPF             *string    `json:"cpf"`
	Cargo           *string    `json:"cargo"`
	UnidadeSaude    *string    `json:"unidade_saude"`
	Equipe          *string    `json:"equipe"`
	Microarea       *string    `json:"microarea"`
	ContatoTelefone *string    `json:"contato_telefone"`
	Email           *string    `json:"email"`
	DataAdmissao    *util.Date `json:"data_admissao"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// UpdateInput carrega somente os campos que o próprio servidor pode
// alterar. Cargo, e-mail, id e timestamps ficam de fora por construção.
type UpdateInput struct {
	NomeCompleto    *string
	CPF             *string
	UnidadeSaude    *string
	Equipe          *string
	Microarea       *string
	ContatoTelefone *string
	DataAdmissao    *util.Date
}

// Repository encapsula consultas da tabela profile.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const perfilColumns = `id, nome_completo, cpf, cargo, unidade_saude, equipe,
	microarea, contato_telefone, email, data_admissao, created_at, updated_at`

func scanPerfil(row pgx.Row) (Perfil, error) {
	var p Perfil
	var admissao *time.Time
	err := row.Scan(&p.ID, &p.NomeCompleto, &p.CPF, &p.Cargo, &p.UnidadeSaude,
		&p.Equipe, &p.Microarea, &p.ContatoTelefone, &p.Email, &admissao,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Perfil{}, err
	}
	if admissao != nil {
		d := util.NewDate(*admissao)
		p.DataAdmissao = &d
	}
	return p, nil
}

// GetByID devolve o perfil do usuário. Ausência é ErrNotFound,
// distinta de falha de consulta.
func (r *Repository) GetByID(ctx context.Context, userID uuid.UUID) (Perfil, error) {
	query := fmt.Sprintf(`SELECT %s FROM profile WHERE id = $1`, perfilColumns)

	p, err := scanPerfil(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Perfil{}, ErrNotFound
	}
	if err != nil {
		return Perfil{}, err
	}
	return p, nil
}

// Update aplica somente os campos presentes no input, sempre sobre a
// linha do próprio usuário, e devolve o perfil atualizado.
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if input.NomeCompleto != nil {
		add("nome_completo", *input.NomeCompleto)
	}
	if input.CPF != nil {
		add("cpf", *input.CPF)
	}
	if input.UnidadeSaude != nil {
		add("unidade_saude", *input.UnidadeSaude)
	}
	if input.Equipe != nil {
		add("equipe", *input.Equipe)
	}
	if input.Microarea != nil {
		add("microarea", *input.Microarea)
	}
	if input.ContatoTelefone != nil {
		add("contato_telefone", *input.ContatoTelefone)
	}
	if input.DataAdmissao != nil {
		add("data_admissao", input.DataAdmissao.Time)
	}

	if len(sets) == 0 {
		// Payload sem campo atualizável: responde o estado atual.
		return r.GetByID(ctx, userID)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE profile SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), perfilColumns)

	p, err := scanPerfil(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Perfil{}, ErrNotFound
	}
	if err != nil {
		return Perfil{}, err
	}
	return p, nil
}
