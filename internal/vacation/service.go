package vacation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaosaude/distrito/internal/util"
)

// StatusSolicitado é o estado inicial de toda solicitação.
const StatusSolicitado = "Solicitado"

// Modalidades aceitas no formulário de férias.
var modalidades = map[string]struct{}{
	"30 dias":       {},
	"15 dias (1/2)": {},
	"15 dias (2/2)": {},
	"10 dias (1/3)": {},
	"10 dias (2/3)": {},
	"10 dias (3/3)": {},
}

var (
	// ErrCamposObrigatorios indica ausência de início, fim ou modalidade.
	ErrCamposObrigatorios = errors.New("Campos obrigatórios (data de início, data de fim, modalidade) não fornecidos.")
	// ErrDatasInvalidas indica datas ilegíveis.
	ErrDatasInvalidas = errors.New("Datas inválidas.")
	// ErrPeriodoInvalido indica fim não posterior ao início.
	ErrPeriodoInvalido = errors.New("A data de fim deve ser posterior à data de início.")
	// ErrModalidadeInvalida indica modalidade fora do conjunto fixo.
	ErrModalidadeInvalida = errors.New("Modalidade de férias inválida.")
)

type solicitacaoRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Solicitacao, error)
	Insert(ctx context.Context, userID uuid.UUID, input InsertInput) (Solicitacao, error)
}

// Service aplica as regras de solicitação de férias.
type Service struct {
	repo solicitacaoRepository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceWith permite injetar repositório alternativo (testes).
func NewServiceWith(repo solicitacaoRepository) *Service {
	return &Service{repo: repo}
}

// List devolve o histórico do próprio usuário.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Solicitacao, error) {
	return s.repo.ListByUser(ctx, userID)
}

// CreateInput é o corpo cru do POST.
type CreateInput struct {
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Modality       string  `json:"modality"`
	RequestDetails *string `json:"request_details"`
}

// Create valida e insere a solicitação com status inicial fixo.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (Solicitacao, error) {
	if strings.TrimSpace(input.StartDate) == "" ||
		strings.TrimSpace(input.EndDate) == "" ||
		strings.TrimSpace(input.Modality) == "" {
		return Solicitacao{}, ErrCamposObrigatorios
	}

	inicio, err := util.ParseDate(input.StartDate)
	if err != nil {
		return Solicitacao{}, ErrDatasInvalidas
	}
	fim, err := util.ParseDate(input.EndDate)
	if err != nil {
		return Solicitacao{}, ErrDatasInvalidas
	}

	if !fim.After(inicio) {
		return Solicitacao{}, ErrPeriodoInvalido
	}

	if _, ok := modalidades[input.Modality]; !ok {
		return Solicitacao{}, ErrModalidadeInvalida
	}

	var detalhes *string
	if input.RequestDetails != nil && *input.RequestDetails != "" {
		detalhes = input.RequestDetails
	}

	return s.repo.Insert(ctx, userID, InsertInput{
		StartDate:      inicio,
		EndDate:        fim,
		Modality:       input.Modality,
		RequestDetails: detalhes,
		Status:         StatusSolicitado,
	})
}
