package repository

import (
	"context"
	"database/sql"

	"painelans/backend/services/operadoras-service/internal/models"
)

// DespesaRepository runs read queries over despesas_consolidadas.
type DespesaRepository struct {
	db *sql.DB
}

// NewDespesaRepository returns repository.
func NewDespesaRepository(db *sql.DB) *DespesaRepository {
	return &DespesaRepository{db: db}
}

// ListByCNPJ returns the expense history of one operator, newest quarter first.
func (r *DespesaRepository) ListByCNPJ(ctx context.Context, cnpj string) ([]models.Despesa, error) {
	const query = `
		SELECT cnpj, ano, trimestre, valordespesas::float8
		FROM despesas_consolidadas
		WHERE cnpj = $1
		ORDER BY ano DESC, trimestre DESC
	`
	rows, err := r.db.QueryContext(ctx, query, cnpj)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	despesas := []models.Despesa{}
	for rows.Next() {
		var d models.Despesa
		if err := rows.Scan(&d.CNPJ, &d.Ano, &d.Trimestre, &d.ValorDespesas); err != nil {
			return nil, err
		}
		despesas = append(despesas, d)
	}
	return despesas, rows.Err()
}

// Estatisticas computes total, mean and the five operators with highest expenses.
func (r *DespesaRepository) Estatisticas(ctx context.Context) (*models.Estatisticas, error) {
	stats := &models.Estatisticas{Top5: []models.TopOperadora{}}

	var total, media sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(valordespesas)::float8, AVG(valordespesas)::float8
		FROM despesas_consolidadas
	`).Scan(&total, &media)
	if err != nil {
		return nil, err
	}
	if total.Valid {
		stats.TotalGeral = &total.Float64
	}
	if media.Valid {
		stats.MediaGeral = &media.Float64
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.razao_social, SUM(d.valordespesas)::float8 AS total_despesa
		FROM despesas_consolidadas d
		JOIN operadoras o ON o.cnpj = d.cnpj
		GROUP BY o.razao_social
		ORDER BY total_despesa DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var top models.TopOperadora
		if err := rows.Scan(&top.RazaoSocial, &top.TotalDespesa); err != nil {
			return nil, err
		}
		stats.Top5 = append(stats.Top5, top)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Crescimento ranks the five operators whose expenses grew the most between anoInicial
// and the later years up to anoFinal.
func (r *DespesaRepository) Crescimento(ctx context.Context, anoInicial, anoFinal int) ([]models.CrescimentoOperadora, error) {
	const query = `
		WITH despesas_inicio AS (
			SELECT cnpj, SUM(valordespesas) AS total
			FROM despesas_consolidadas
			WHERE ano = $1
			GROUP BY cnpj
		),
		despesas_fim AS (
			SELECT cnpj, SUM(valordespesas) AS total
			FROM despesas_consolidadas
			WHERE ano > $1 AND ano <= $2
			GROUP BY cnpj
		)
		SELECT o.razao_social,
		       (((f.total - i.total) / NULLIF(i.total, 0)) * 100)::float8 AS crescimento
		FROM despesas_inicio i
		JOIN despesas_fim f ON f.cnpj = i.cnpj
		JOIN operadoras o ON o.cnpj = i.cnpj
		WHERE i.total > 0
		ORDER BY crescimento DESC
		LIMIT 5
	`
	rows, err := r.db.QueryContext(ctx, query, anoInicial, anoFinal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.CrescimentoOperadora{}
	for rows.Next() {
		var c models.CrescimentoOperadora
		var crescimento sql.NullFloat64
		if err := rows.Scan(&c.RazaoSocial, &crescimento); err != nil {
			return nil, err
		}
		if crescimento.Valid {
			v := crescimento.Float64
			c.Crescimento = &v
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// PorUF aggregates expenses per UF with the mean per operator.
func (r *DespesaRepository) PorUF(ctx context.Context) ([]models.DespesaUF, error) {
	const query = `
		SELECT o.uf,
		       SUM(d.valordespesas)::float8 AS total_despesa,
		       (SUM(d.valordespesas) / COUNT(DISTINCT o.cnpj))::float8 AS media_por_operadora
		FROM despesas_consolidadas d
		JOIN operadoras o ON o.cnpj = d.cnpj
		GROUP BY o.uf
		ORDER BY total_despesa DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.DespesaUF{}
	for rows.Next() {
		var d models.DespesaUF
		if err := rows.Scan(&d.UF, &d.TotalDespesa, &d.MediaPorOperadora); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// Agregados returns total, mean and sample standard deviation of the quarterly expenses
// per razão social and UF, highest total first.
func (r *DespesaRepository) Agregados(ctx context.Context, limit int) ([]models.AgregadoOperadora, error) {
	const query = `
		SELECT o.razao_social,
		       o.uf,
		       SUM(d.valordespesas)::float8 AS total_despesas,
		       AVG(d.valordespesas)::float8 AS media_trimestral,
		       COALESCE(STDDEV_SAMP(d.valordespesas), 0)::float8 AS desvio_padrao
		FROM despesas_consolidadas d
		JOIN operadoras o ON o.cnpj = d.cnpj
		GROUP BY o.razao_social, o.uf
		ORDER BY total_despesas DESC, o.razao_social
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.AgregadoOperadora{}
	for rows.Next() {
		var a models.AgregadoOperadora
		if err := rows.Scan(&a.RazaoSocial, &a.UF, &a.TotalDespesas, &a.MediaTrimestral, &a.DesvioPadrao); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
