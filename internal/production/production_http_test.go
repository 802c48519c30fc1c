package production

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
	"github.com/gestaosaude/distrito/internal/profile"
	"github.com/gestaosaude/distrito/internal/util"
)

type stubRepo struct {
	registros []Registro
	insertErr error
	gotInsert *InsertInput
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Registro, error) {
	return s.registros, nil
}

func (s *stubRepo) Insert(ctx context.Context, userID uuid.UUID, input InsertInput) (Registro, error) {
	s.gotInsert = &input
	if s.insertErr != nil {
		return Registro{}, s.insertErr
	}
	return Registro{
		ID:                  uuid.New(),
		UserID:              userID,
		WeekStartDate:       input.WeekStartDate,
		HousesVisited:       input.HousesVisited,
		NewPeopleRegistered: input.NewPeopleRegistered,
		Observations:        input.Observations,
		CreatedAt:           time.Now(),
	}, nil
}

type stubGate struct {
	err error
}

func (s *stubGate) RequireCargo(ctx context.Context, userID uuid.UUID, cargo string) (profile.Perfil, error) {
	if s.err != nil {
		return profile.Perfil{}, s.err
	}
	return profile.Perfil{ID: userID, Cargo: &cargo}, nil
}

func newTestRouter(repo *stubRepo, gate *stubGate, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := httpmiddleware.WithSession(req.Context(), userID, "sessao-teste")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewHandler(NewServiceWith(repo, gate)).RegisterRoutes(r)
	return r
}

func TestListProduction(t *testing.T) {
	userID := uuid.New()
	semana, _ := util.ParseDate("2024-03-04")
	repo := &stubRepo{registros: []Registro{{ID: uuid.New(), UserID: userID, WeekStartDate: semana}}}
	router := newTestRouter(repo, &stubGate{}, userID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/production", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("esperava 200, veio %d: %s", rec.Code, rec.Body)
	}

	var got []Registro
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("resposta ilegível: %v", err)
	}
	if len(got) != 1 || got[0].WeekStartDate.String() != "2024-03-04" {
		t.Fatalf("lista inesperada: %+v", got)
	}
}

func TestListProductionVaziaSerializaComoLista(t *testing.T) {
	repo := &stubRepo{registros: make([]Registro, 0)}
	router := newTestRouter(repo, &stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/production", nil))

	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Fatalf("esperava [], veio %s", body)
	}
}

func TestProductionCargoErrado(t *testing.T) {
	repo := &stubRepo{}
	gate := &stubGate{err: profile.ErrForbidden}
	router := newTestRouter(repo, gate, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/production", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("GET: esperava 403, veio %d", rec.Code)
	}

	raw := []byte(`{"week_start_date":"2024-03-04"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/production", bytes.NewReader(raw)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("POST: esperava 403, veio %d", rec.Code)
	}
	if repo.gotInsert != nil {
		t.Fatal("cargo errado não pode inserir")
	}
}

func TestProductionGateFalhaE500(t *testing.T) {
	gate := &stubGate{err: ErrPerfilGate}
	router := newTestRouter(&stubRepo{}, gate, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/production", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("esperava 500, veio %d", rec.Code)
	}
}

func TestCreateProductionCoercaoNumerica(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, &stubGate{}, uuid.New())

	// houses_visited ausente e new_people_registered como texto: ambos
	// viram 0, nunca erro nem null.
	raw := []byte(`{"week_start_date":"2024-03-04","new_people_registered":"nao sei"}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/production", bytes.NewReader(raw)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("esperava 201, veio %d: %s", rec.Code, rec.Body)
	}
	if repo.gotInsert == nil {
		t.Fatal("insert não chamado")
	}
	if repo.gotInsert.HousesVisited != 0 || repo.gotInsert.NewPeopleRegistered != 0 {
		t.Fatalf("coerção esperava 0/0, veio %d/%d",
			repo.gotInsert.HousesVisited, repo.gotInsert.NewPeopleRegistered)
	}

	var got Registro
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("resposta ilegível: %v", err)
	}
	if got.HousesVisited != 0 {
		t.Fatalf("linha criada deveria ter 0, veio %d", got.HousesVisited)
	}
}

func TestCreateProductionSemSemana(t *testing.T) {
	repo := &stubRepo{}
	router := newTestRouter(repo, &stubGate{}, uuid.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/production", bytes.NewReader([]byte(`{"houses_visited":5}`))))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("esperava 400, veio %d", rec.Code)
	}
	if repo.gotInsert != nil {
		t.Fatal("sem data de semana não pode inserir")
	}
}

func TestCreateProductionRejeicaoDoBanco(t *testing.T) {
	repo := &stubRepo{insertErr: ErrStoreForbidden}
	router := newTestRouter(repo, &stubGate{}, uuid.New())

	raw := []byte(`{"week_start_date":"2024-03-04","houses_visited":12}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/production", bytes.NewReader(raw)))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("rejeição por política de linha deveria virar 403, veio %d", rec.Code)
	}
}
