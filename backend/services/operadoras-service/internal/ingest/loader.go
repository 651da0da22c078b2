package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// LoadResult counts what a load wrote.
type LoadResult struct {
	Operadoras int
	Periodos   int
	Despesas   int
}

// Loader writes consolidated expenses into Postgres.
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader returns loader.
func NewLoader(db *sql.DB, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{db: db, logger: logger}
}

// Load upserts the operators and replaces every quarter present in despesas, in one
// transaction. Quarters absent from despesas are left untouched.
func (l *Loader) Load(ctx context.Context, despesas []Despesa) (LoadResult, error) {
	var res LoadResult
	if len(despesas) == 0 {
		return res, nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("ingest: begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO operadoras (registro_ans, cnpj, razao_social, uf, modalidade)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (registro_ans) DO UPDATE
		SET cnpj = EXCLUDED.cnpj,
		    razao_social = EXCLUDED.razao_social,
		    uf = EXCLUDED.uf,
		    modalidade = EXCLUDED.modalidade
	`
	seen := make(map[int64]struct{})
	for _, d := range despesas {
		o := d.Operadora
		if _, ok := seen[o.RegistroANS]; ok {
			continue
		}
		seen[o.RegistroANS] = struct{}{}
		if _, err := tx.ExecContext(ctx, upsert, o.RegistroANS, o.CNPJ, o.RazaoSocial, o.UF, o.Modalidade); err != nil {
			return res, fmt.Errorf("ingest: upsert operadora %d: %w", o.RegistroANS, err)
		}
	}
	res.Operadoras = len(seen)

	periodos := make(map[Periodo]struct{})
	for _, d := range despesas {
		if _, ok := periodos[d.Periodo]; ok {
			continue
		}
		periodos[d.Periodo] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM despesas_consolidadas WHERE ano = $1 AND trimestre = $2`,
			d.Periodo.Ano, d.Periodo.Trimestre,
		); err != nil {
			return res, fmt.Errorf("ingest: clear %s: %w", d.Periodo, err)
		}
	}
	res.Periodos = len(periodos)

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO despesas_consolidadas (cnpj, ano, trimestre, valordespesas)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return res, fmt.Errorf("ingest: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range despesas {
		if _, err := stmt.ExecContext(ctx, d.Operadora.CNPJ, d.Periodo.Ano, d.Periodo.Trimestre, d.Valor); err != nil {
			return res, fmt.Errorf("ingest: insert despesa %s %s: %w", d.Operadora.CNPJ, d.Periodo, err)
		}
		res.Despesas++
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("ingest: commit: %w", err)
	}
	l.logger.Info("despesas loaded",
		zap.Int("operadoras", res.Operadoras),
		zap.Int("periodos", res.Periodos),
		zap.Int("despesas", res.Despesas),
	)
	return res, nil
}
