package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"painelans/backend/libs/cnpj"
	"painelans/backend/services/operadoras-service/internal/models"
	"painelans/backend/services/operadoras-service/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

var (
	// ErrNotFound is returned when the operator does not exist.
	ErrNotFound = errors.New("operadoras: not found")
	// ErrDuplicate is returned when registro ANS or CNPJ is already registered.
	ErrDuplicate = errors.New("operadoras: already registered")
)

// ValidationError describes an invalid field in a write request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OperadoraRepository defines storage used by the service.
type OperadoraRepository interface {
	List(ctx context.Context, limit, offset int) ([]models.Operadora, error)
	Count(ctx context.Context) (int64, error)
	GetByIdentifier(ctx context.Context, id string) (*models.Operadora, error)
	Create(ctx context.Context, o *models.Operadora) error
	Update(ctx context.Context, cnpj string, razaoSocial, uf *string) error
	Delete(ctx context.Context, cnpj string) error
}

// DespesaLister returns the expense history of an operator.
type DespesaLister interface {
	ListByCNPJ(ctx context.Context, cnpj string) ([]models.Despesa, error)
}

// CacheInvalidator drops cached aggregates after writes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CreateInput is the payload of POST /api/operadoras.
type CreateInput struct {
	RegistroANS int64
	RazaoSocial string
	CNPJ        string
	UF          string
	Modalidade  string
}

// UpdateInput is the payload of PUT /api/operadoras/{cnpj}. Nil fields are left unchanged.
type UpdateInput struct {
	RazaoSocial *string
	UF          *string
}

// OperadorasService implements operator CRUD.
type OperadorasService struct {
	repo     OperadoraRepository
	despesas DespesaLister
	cache    CacheInvalidator
	logger   *zap.Logger
}

// NewOperadorasService builds service. cache may be nil.
func NewOperadorasService(repo OperadoraRepository, despesas DespesaLister, cache CacheInvalidator, logger *zap.Logger) *OperadorasService {
	return &OperadorasService{
		repo:     repo,
		despesas: despesas,
		cache:    cache,
		logger:   logger,
	}
}

// List returns one page. page < 1 is treated as 1; limit defaults to 10 and is capped at 100.
func (s *OperadorasService) List(ctx context.Context, page, limit int) (*models.OperadoraPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	data, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list operadoras: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count operadoras: %w", err)
	}
	if data == nil {
		data = []models.Operadora{}
	}
	return &models.OperadoraPage{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// Get finds an operator by CNPJ (any punctuation) or registro ANS.
func (s *OperadorasService) Get(ctx context.Context, id string) (*models.Operadora, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	o, err := s.repo.GetByIdentifier(ctx, normalizeIdentifier(id))
	if err != nil {
		if errors.Is(err, repository.ErrOperadoraNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// Create validates and stores a new operator.
func (s *OperadorasService) Create(ctx context.Context, input CreateInput) (*models.Operadora, error) {
	input.RazaoSocial = strings.TrimSpace(input.RazaoSocial)
	input.UF = strings.ToUpper(strings.TrimSpace(input.UF))

	switch {
	case input.RegistroANS <= 0:
		return nil, &ValidationError{Field: "registro_ans", Message: "obrigatório"}
	case input.RazaoSocial == "":
		return nil, &ValidationError{Field: "razao_social", Message: "obrigatório"}
	case !cnpj.Valid(input.CNPJ):
		return nil, &ValidationError{Field: "cnpj", Message: "CNPJ inválido"}
	case !validUF(input.UF):
		return nil, &ValidationError{Field: "uf", Message: "UF deve ter duas letras"}
	}

	o := &models.Operadora{
		RegistroANS: input.RegistroANS,
		CNPJ:        cnpj.Normalize(input.CNPJ),
		RazaoSocial: input.RazaoSocial,
		UF:          input.UF,
		Modalidade:  strings.TrimSpace(input.Modalidade),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrOperadoraExists) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("operadora created", zap.Int64("registro_ans", o.RegistroANS), zap.String("cnpj", o.CNPJ))
	return o, nil
}

// Update applies a partial update and invalidates cached statistics.
func (s *OperadorasService) Update(ctx context.Context, cnpjValue string, input UpdateInput) error {
	if input.RazaoSocial != nil {
		v := strings.TrimSpace(*input.RazaoSocial)
		if v == "" {
			return &ValidationError{Field: "razao_social", Message: "não pode ser vazio"}
		}
		input.RazaoSocial = &v
	}
	if input.UF != nil {
		v := strings.ToUpper(strings.TrimSpace(*input.UF))
		if !validUF(v) {
			return &ValidationError{Field: "uf", Message: "UF deve ter duas letras"}
		}
		input.UF = &v
	}
	if input.RazaoSocial == nil && input.UF == nil {
		return &ValidationError{Field: "body", Message: "nenhum campo para atualizar"}
	}

	if err := s.repo.Update(ctx, cnpj.Normalize(cnpjValue), input.RazaoSocial, input.UF); err != nil {
		if errors.Is(err, repository.ErrOperadoraNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes an operator and invalidates cached statistics.
func (s *OperadorasService) Delete(ctx context.Context, cnpjValue string) error {
	if err := s.repo.Delete(ctx, cnpj.Normalize(cnpjValue)); err != nil {
		if errors.Is(err, repository.ErrOperadoraNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("operadora deleted", zap.String("cnpj", cnpj.Normalize(cnpjValue)))
	return nil
}

// Despesas returns the quarterly expenses of an operator.
func (s *OperadorasService) Despesas(ctx context.Context, cnpjValue string) ([]models.Despesa, error) {
	return s.despesas.ListByCNPJ(ctx, cnpj.Normalize(cnpjValue))
}

func (s *OperadorasService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate estatisticas cache", zap.Error(err))
	}
}

// normalizeIdentifier strips CNPJ punctuation but leaves short registro ANS values untouched.
func normalizeIdentifier(id string) string {
	if strings.ContainsAny(id, "./-") || len(id) == 14 {
		return cnpj.Normalize(id)
	}
	return id
}

func validUF(uf string) bool {
	if len(uf) != 2 {
		return false
	}
	for _, r := range uf {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
