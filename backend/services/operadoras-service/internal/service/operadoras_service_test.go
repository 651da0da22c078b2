package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"painelans/backend/services/operadoras-service/internal/models"
	"painelans/backend/services/operadoras-service/internal/repository"
)

type fakeOperadoraRepo struct {
	mu         sync.Mutex
	rows       []models.Operadora
	lastLimit  int
	lastOffset int
	createErr  error
	updated    map[string][2]*string
	lookups    []string
}

func (f *fakeOperadoraRepo) List(ctx context.Context, limit, offset int) ([]models.Operadora, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit, f.lastOffset = limit, offset
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return append([]models.Operadora(nil), f.rows[offset:end]...), nil
}

func (f *fakeOperadoraRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeOperadoraRepo) GetByIdentifier(ctx context.Context, id string) (*models.Operadora, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, id)
	for _, o := range f.rows {
		if o.CNPJ == id {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrOperadoraNotFound
}

func (f *fakeOperadoraRepo) Create(ctx context.Context, o *models.Operadora) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *o)
	return nil
}

func (f *fakeOperadoraRepo) Update(ctx context.Context, cnpj string, razaoSocial, uf *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.rows {
		if o.CNPJ == cnpj {
			if f.updated == nil {
				f.updated = map[string][2]*string{}
			}
			f.updated[cnpj] = [2]*string{razaoSocial, uf}
			return nil
		}
	}
	return repository.ErrOperadoraNotFound
}

func (f *fakeOperadoraRepo) Delete(ctx context.Context, cnpj string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.rows {
		if o.CNPJ == cnpj {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrOperadoraNotFound
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return f.err
}

type fakeDespesas struct {
	cnpj string
}

func (f *fakeDespesas) ListByCNPJ(ctx context.Context, cnpj string) ([]models.Despesa, error) {
	f.cnpj = cnpj
	return []models.Despesa{{CNPJ: cnpj, Ano: 2024, Trimestre: 3, ValorDespesas: 10}}, nil
}

func newTestService(repo *fakeOperadoraRepo, inv *fakeInvalidator) *OperadorasService {
	return NewOperadorasService(repo, &fakeDespesas{}, inv, zap.NewNop())
}

func TestListPagination(t *testing.T) {
	repo := &fakeOperadoraRepo{}
	for i := 0; i < 25; i++ {
		repo.rows = append(repo.rows, models.Operadora{RegistroANS: int64(i + 1)})
	}
	svc := newTestService(repo, nil)

	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
		wantLen    int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10, wantOffset: 0, wantLen: 10},
		{name: "third page", page: 3, limit: 10, wantPage: 3, wantLimit: 10, wantOffset: 20, wantLen: 5},
		{name: "capped limit", page: 1, limit: 1000, wantPage: 1, wantLimit: 100, wantOffset: 0, wantLen: 25},
		{name: "past the end", page: 9, limit: 5, wantPage: 9, wantLimit: 5, wantOffset: 40, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(context.Background(), tt.page, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if page.Page != tt.wantPage || page.Limit != tt.wantLimit {
				t.Errorf("page/limit = %d/%d, want %d/%d", page.Page, page.Limit, tt.wantPage, tt.wantLimit)
			}
			if repo.lastOffset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", repo.lastOffset, tt.wantOffset)
			}
			if len(page.Data) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(page.Data), tt.wantLen)
			}
			if page.Data == nil {
				t.Error("data must never be nil")
			}
			if page.Total != 25 {
				t.Errorf("total = %d, want 25", page.Total)
			}
		})
	}
}

func TestGetNormalizesCNPJ(t *testing.T) {
	repo := &fakeOperadoraRepo{rows: []models.Operadora{{CNPJ: "11222333000181", RazaoSocial: "Saúde Boa"}}}
	svc := newTestService(repo, nil)

	o, err := svc.Get(context.Background(), "11.222.333/0001-81")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if o.RazaoSocial != "Saúde Boa" {
		t.Errorf("razao social = %q", o.RazaoSocial)
	}

	if _, err := svc.Get(context.Background(), "00000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("blank id err = %v, want ErrNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(&fakeOperadoraRepo{}, nil)

	tests := []struct {
		name  string
		input CreateInput
		field string
	}{
		{name: "missing registro", input: CreateInput{RazaoSocial: "X", CNPJ: "11222333000181", UF: "SP"}, field: "registro_ans"},
		{name: "missing razao social", input: CreateInput{RegistroANS: 12345, CNPJ: "12345678000199", UF: "SP"}, field: "razao_social"},
		{name: "bad cnpj", input: CreateInput{RegistroANS: 1, RazaoSocial: "X", CNPJ: "11222333000182", UF: "SP"}, field: "cnpj"},
		{name: "bad uf", input: CreateInput{RegistroANS: 1, RazaoSocial: "X", CNPJ: "11222333000181", UF: "São"}, field: "uf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestCreateNormalizesAndMapsDuplicate(t *testing.T) {
	repo := &fakeOperadoraRepo{}
	svc := newTestService(repo, nil)

	o, err := svc.Create(context.Background(), CreateInput{
		RegistroANS: 419761,
		RazaoSocial: "  Operadora Exemplo  ",
		CNPJ:        "11.222.333/0001-81",
		UF:          "sp",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.CNPJ != "11222333000181" || o.UF != "SP" || o.RazaoSocial != "Operadora Exemplo" {
		t.Errorf("created = %+v", o)
	}

	repo.createErr = repository.ErrOperadoraExists
	if _, err := svc.Create(context.Background(), CreateInput{RegistroANS: 419761, RazaoSocial: "Y", CNPJ: "11222333000181", UF: "SP"}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestCreateInvalidatesCache(t *testing.T) {
	repo := &fakeOperadoraRepo{}
	inv := &fakeInvalidator{}
	svc := newTestService(repo, inv)

	if _, err := svc.Create(context.Background(), CreateInput{RegistroANS: 419761, RazaoSocial: "X", CNPJ: "11222333000181", UF: "SP"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if inv.calls != 1 {
		t.Errorf("invalidations after create = %d, want 1", inv.calls)
	}

	repo.createErr = repository.ErrOperadoraExists
	if _, err := svc.Create(context.Background(), CreateInput{RegistroANS: 419761, RazaoSocial: "X", CNPJ: "11222333000181", UF: "SP"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if inv.calls != 1 {
		t.Errorf("failed create must not invalidate, calls = %d", inv.calls)
	}
}

func TestUpdateAndDeleteInvalidateCache(t *testing.T) {
	repo := &fakeOperadoraRepo{rows: []models.Operadora{{CNPJ: "11222333000181", RazaoSocial: "A", UF: "SP"}}}
	inv := &fakeInvalidator{err: errors.New("redis down")}
	svc := newTestService(repo, inv)

	uf := "rj"
	if err := svc.Update(context.Background(), "11.222.333/0001-81", UpdateInput{UF: &uf}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := repo.updated["11222333000181"]
	if got[0] != nil || got[1] == nil || *got[1] != "RJ" {
		t.Errorf("update args = %v", got)
	}

	if err := svc.Update(context.Background(), "11222333000181", UpdateInput{}); err == nil {
		t.Error("empty update should fail validation")
	}
	if err := svc.Update(context.Background(), "19131243000197", UpdateInput{UF: &uf}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(context.Background(), "11222333000181"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "11222333000181"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
	if inv.calls != 2 {
		t.Errorf("invalidations = %d, want 2", inv.calls)
	}
}

func TestDespesasNormalizesCNPJ(t *testing.T) {
	despesas := &fakeDespesas{}
	svc := NewOperadorasService(&fakeOperadoraRepo{}, despesas, nil, zap.NewNop())

	list, err := svc.Despesas(context.Background(), "11.222.333/0001-81")
	if err != nil {
		t.Fatalf("Despesas: %v", err)
	}
	if despesas.cnpj != "11222333000181" || len(list) != 1 {
		t.Errorf("cnpj = %q, len = %d", despesas.cnpj, len(list))
	}
}
