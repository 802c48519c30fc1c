package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/gestaosaude/distrito/internal/http/middleware"
)

type stubService struct {
	perfil    Perfil
	getErr    error
	updateErr error
	gotUpdate *UpdateInput
}

func (s *stubService) Get(ctx context.Context, userID uuid.UUID) (Perfil, error) {
	if s.getErr != nil {
		return Perfil{}, s.getErr
	}
	return s.perfil, nil
}

func (s *stubService) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error) {
	s.gotUpdate = &input
	if s.updateErr != nil {
		return Perfil{}, s.updateErr
	}
	return s.perfil, nil
}

func newTestRouter(svc ServiceProvider, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := httpmiddleware.WithSession(req.Context(), userID, "sessao-teste")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func TestGetProfile(t *testing.T) {
	userID := uuid.New()
	cargo := "Agente Comunitário de Saúde"
	svc := &stubService{perfil: Perfil{ID: userID, Cargo: &cargo, CreatedAt: time.Now()}}
	router := newTestRouter(svc, userID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", rec.Code, rec.Body)
	}

	var got Perfil
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("resposta ilegível: %v", err)
	}
	if got.ID != userID || got.Cargo == nil || *got.Cargo != cargo {
		t.Fatalf("perfil inesperado: %+v", got)
	}
}

func TestGetProfileNaoEncontrado(t *testing.T) {
	svc := &stubService{getErr: ErrNotFound}
	router := newTestRouter(svc, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("esperava 404, veio %d", rec.Code)
	}
}

func TestPatchProfileIgnoraCamposProtegidos(t *testing.T) {
	userID := uuid.New()
	svc := &stubService{perfil: Perfil{ID: userID}}
	router := newTestRouter(svc, userID)

	body := map[string]any{
		"id":            uuid.NewString(),
		"updated_at":    "2020-01-01T00:00:00Z",
		"email":         "outro@distrito.gov.br",
		"cargo":         "",
		"nome_completo": "Maria da Silva",
		"equipe":        "ESF 03",
	}
	raw, _ := json.Marshal(body)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewReader(raw)))

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", rec.Code, rec.Body)
	}
	if svc.gotUpdate == nil {
		t.Fatal("serviço não recebeu update")
	}
	got := *svc.gotUpdate
	if got.NomeCompleto == nil || *got.NomeCompleto != "Maria da Silva" {
		t.Fatalf("nome_completo não aplicado: %+v", got)
	}
	if got.Equipe == nil || *got.Equipe != "ESF 03" {
		t.Fatalf("equipe não aplicada: %+v", got)
	}
	// id, updated_at, email e cargo não têm caminho até o banco: o
	// input simplesmente não os carrega.
	if got.CPF != nil || got.UnidadeSaude != nil || got.Microarea != nil ||
		got.ContatoTelefone != nil || got.DataAdmissao != nil {
		t.Fatalf("campos não enviados deveriam ficar nil: %+v", got)
	}
}

func TestPatchProfileCargoNaoEAtualizavel(t *testing.T) {
	userID := uuid.New()
	svc := &stubService{perfil: Perfil{ID: userID}}
	router := newTestRouter(svc, userID)

	// Mesmo um cargo não vazio é descartado: a alteração de cargo é
	// operação administrativa, não autosserviço.
	raw := []byte(`{"cargo":"Enfermeiro","cpf":"111.222.333-44"}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewReader(raw)))

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d", rec.Code)
	}
	if svc.gotUpdate == nil || svc.gotUpdate.CPF == nil || *svc.gotUpdate.CPF != "111.222.333-44" {
		t.Fatalf("cpf deveria ser aplicado: %+v", svc.gotUpdate)
	}
}

func TestPatchProfileJSONInvalido(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/profile", bytes.NewReader([]byte(`{invalido`))))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", rec.Code)
	}
	if svc.gotUpdate != nil {
		t.Fatal("payload ilegível não deveria chegar ao serviço")
	}
}

func TestRequireCargo(t *testing.T) {
	userID := uuid.New()
	cargo := "Agente Comunitário de Saúde"
	repo := &stubRepo{perfil: Perfil{ID: userID, Cargo: &cargo}}
	svc := NewServiceWith(repo)

	if _, err := svc.RequireCargo(context.Background(), userID, cargo); err != nil {
		t.Fatalf("cargo correto deveria passar: %v", err)
	}

	outro := "Enfermeiro"
	repo.perfil.Cargo = &outro
	if _, err := svc.RequireCargo(context.Background(), userID, cargo); err != ErrForbidden {
		t.Fatalf("esperava ErrForbidden, veio %v", err)
	}

	repo.err = ErrNotFound
	_, err := svc.RequireCargo(context.Background(), userID, cargo)
	if err == nil || err == ErrForbidden {
		t.Fatalf("perfil ausente é falha do gate, não forbidden: %v", err)
	}
}

type stubRepo struct {
	perfil Perfil
	err    error
}

func (s *stubRepo) GetByID(ctx context.Context, userID uuid.UUID) (Perfil, error) {
	if s.err != nil {
		return Perfil{}, s.err
	}
	return s.perfil, nil
}

func (s *stubRepo) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error) {
	return s.perfil, nil
}
