package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"painelans/backend/services/operadoras-service/internal/models"
)

const uniqueViolation = "23505"

var (
	// ErrOperadoraNotFound represents a missing operator row.
	ErrOperadoraNotFound = errors.New("operadora not found")
	// ErrOperadoraExists is returned when registro ANS or CNPJ is already taken.
	ErrOperadoraExists = errors.New("operadora already exists")
)

// OperadoraRepository handles the operadoras table.
type OperadoraRepository struct {
	db *sql.DB
}

// NewOperadoraRepository returns repository.
func NewOperadoraRepository(db *sql.DB) *OperadoraRepository {
	return &OperadoraRepository{db: db}
}

// List returns one page ordered by razão social.
func (r *OperadoraRepository) List(ctx context.Context, limit, offset int) ([]models.Operadora, error) {
	const query = `
		SELECT registro_ans, cnpj, razao_social, uf, COALESCE(modalidade, '')
		FROM operadoras
		ORDER BY razao_social, registro_ans
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operadoras := make([]models.Operadora, 0, limit)
	for rows.Next() {
		var o models.Operadora
		if err := rows.Scan(&o.RegistroANS, &o.CNPJ, &o.RazaoSocial, &o.UF, &o.Modalidade); err != nil {
			return nil, err
		}
		operadoras = append(operadoras, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return operadoras, nil
}

// Count returns the number of operators.
func (r *OperadoraRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operadoras`).Scan(&total)
	return total, err
}

// GetByIdentifier finds an operator by CNPJ or by registro ANS.
func (r *OperadoraRepository) GetByIdentifier(ctx context.Context, id string) (*models.Operadora, error) {
	const query = `
		SELECT registro_ans, cnpj, razao_social, uf, COALESCE(modalidade, '')
		FROM operadoras
		WHERE cnpj = $1 OR registro_ans::text = $1
		LIMIT 1
	`
	var o models.Operadora
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.RegistroANS, &o.CNPJ, &o.RazaoSocial, &o.UF, &o.Modalidade)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOperadoraNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Create inserts a new operator.
func (r *OperadoraRepository) Create(ctx context.Context, o *models.Operadora) error {
	const query = `
		INSERT INTO operadoras (registro_ans, cnpj, razao_social, uf, modalidade)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	`
	_, err := r.db.ExecContext(ctx, query, o.RegistroANS, o.CNPJ, o.RazaoSocial, o.UF, o.Modalidade)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrOperadoraExists
		}
		return err
	}
	return nil
}

// Update changes razão social and/or UF; nil fields keep their value.
func (r *OperadoraRepository) Update(ctx context.Context, cnpj string, razaoSocial, uf *string) error {
	const query = `
		UPDATE operadoras
		SET razao_social = COALESCE($2, razao_social),
		    uf = COALESCE($3, uf)
		WHERE cnpj = $1
	`
	result, err := r.db.ExecContext(ctx, query, cnpj, razaoSocial, uf)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// Delete removes an operator by CNPJ.
func (r *OperadoraRepository) Delete(ctx context.Context, cnpj string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operadoras WHERE cnpj = $1`, cnpj)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOperadoraNotFound
	}
	return nil
}
