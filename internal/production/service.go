package production

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gestaosaude/distrito/internal/profile"
	"github.com/gestaosaude/distrito/internal/util"
)

// CargoAgente é o único cargo autorizado a registrar produção.
const CargoAgente = "Agente Comunitário de Saúde"

var (
	// ErrSemanaObrigatoria indica ausência da data de início da semana.
	ErrSemanaObrigatoria = errors.New("Campo obrigatório (Data de início da semana) não fornecido.")
	// ErrSemanaInvalida indica data de início ilegível.
	ErrSemanaInvalida = errors.New("Data de início da semana inválida.")
	// ErrPerfilGate indica que o gate de cargo não conseguiu carregar o
	// perfil. Não é 401 nem 403: é falha interna.
	ErrPerfilGate = errors.New("Erro ao buscar perfil ou perfil não encontrado.")
)

type registroRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Registro, error)
	Insert(ctx context.Context, userID uuid.UUID, input InsertInput) (Registro, error)
}

// CargoGate é a checagem de cargo fornecida pelo módulo de perfil.
type CargoGate interface {
	RequireCargo(ctx context.Context, userID uuid.UUID, cargo string) (profile.Perfil, error)
}

// Service aplica gate de cargo e validação antes do repositório.
type Service struct {
	repo registroRepository
	gate CargoGate
}

func NewService(repo *Repository, gate CargoGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// NewServiceWith permite injetar dependências alternativas (testes).
func NewServiceWith(repo registroRepository, gate CargoGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// List devolve a produção do próprio agente, após o gate de cargo.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Registro, error) {
	if err := s.requireAgente(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) requireAgente(ctx context.Context, userID uuid.UUID) error {
	_, err := s.gate.RequireCargo(ctx, userID, CargoAgente)
	if err == nil || errors.Is(err, profile.ErrForbidden) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPerfilGate, err)
}

// CreateInput é o corpo cru do POST. Os campos numéricos chegam sem
// tipo fixo e são coercidos: ausente ou não numérico vira 0.
type CreateInput struct {
	WeekStartDate       string  `json:"week_start_date"`
	HousesVisited       any     `json:"houses_visited"`
	NewPeopleRegistered any     `json:"new_people_registered"`
	Observations        *string `json:"observations"`
}

// Create valida, coage números e insere o registro do próprio agente.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (Registro, error) {
	if err := s.requireAgente(ctx, userID); err != nil {
		return Registro{}, err
	}

	if strings.TrimSpace(input.WeekStartDate) == "" {
		return Registro{}, ErrSemanaObrigatoria
	}

	semana, err := util.ParseDate(input.WeekStartDate)
	if err != nil {
		return Registro{}, ErrSemanaInvalida
	}

	var observations *string
	if input.Observations != nil && *input.Observations != "" {
		observations = input.Observations
	}

	return s.repo.Insert(ctx, userID, InsertInput{
		WeekStartDate:       semana,
		HousesVisited:       util.CoerceInt(input.HousesVisited),
		NewPeopleRegistered: util.CoerceInt(input.NewPeopleRegistered),
		Observations:        observations,
	})
}
