package ingest

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"painelans/backend/services/operadoras-service/internal/models"
)

const downloadConcurrency = 3

// ErrNoData is returned when no accounting line could be read from the listed quarters.
var ErrNoData = errors.New("ingest: no expense data found")

// Source lists and downloads ANS files.
type Source interface {
	LatestQuarters(ctx context.Context, baseURL string, limit int) ([]string, error)
	ZipLinks(ctx context.Context, dirURL string) ([]string, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Store persists consolidated expenses.
type Store interface {
	Load(ctx context.Context, despesas []Despesa) (LoadResult, error)
}

// Options locates the ANS sources.
type Options struct {
	BaseURL     string
	CadastroURL string
	Quarters    int
}

// Result summarizes one pipeline run.
type Result struct {
	Arquivos    int
	Lancamentos int
	Ignoradas   int
	SemCadastro int
	Load        LoadResult
	Agregados   []models.AgregadoOperadora
}

// Pipeline downloads the latest quarterly accounting files, enriches them with the
// operator registry and loads the consolidated quarters.
type Pipeline struct {
	source Source
	store  Store
	opts   Options
	logger *zap.Logger
}

// NewPipeline returns pipeline.
func NewPipeline(source Source, store Store, opts Options, logger *zap.Logger) *Pipeline {
	if opts.Quarters <= 0 {
		opts.Quarters = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{source: source, store: store, opts: opts, logger: logger}
}

// Run executes the whole pipeline. A broken archive or file is logged and skipped; the
// registry and the load are required.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	raw, err := p.source.Download(ctx, p.opts.CadastroURL)
	if err != nil {
		return nil, fmt.Errorf("ingest: cadastro: %w", err)
	}
	cad, skipped, err := ParseCadastro(raw)
	if err != nil {
		return nil, fmt.Errorf("ingest: cadastro: %w", err)
	}
	p.logger.Info("cadastro parsed", zap.Int("operadoras", cad.Len()), zap.Int("skipped", skipped))

	quarters, err := p.source.LatestQuarters(ctx, p.opts.BaseURL, p.opts.Quarters)
	if err != nil {
		return nil, err
	}
	p.logger.Info("quarters found", zap.Strings("quarters", quarters))

	res := &Result{}
	var lancamentos []Lancamento
	for _, q := range quarters {
		parsed, err := p.quarter(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, pr := range parsed {
			res.Arquivos++
			res.Ignoradas += pr.Ignoradas
			lancamentos = append(lancamentos, pr.Lancamentos...)
		}
	}
	res.Lancamentos = len(lancamentos)
	if len(lancamentos) == 0 {
		return res, ErrNoData
	}

	despesas, semCadastro := Consolidar(lancamentos, cad)
	res.SemCadastro = semCadastro
	if semCadastro > 0 {
		p.logger.Warn("lines without cadastro dropped", zap.Int("lines", semCadastro))
	}

	res.Load, err = p.store.Load(ctx, despesas)
	if err != nil {
		return res, err
	}
	res.Agregados = Agregar(despesas)
	return res, nil
}

// quarter downloads and parses every archive of one quarter directory.
func (p *Pipeline) quarter(ctx context.Context, dirURL string) ([]ParseResult, error) {
	zips, err := p.source.ZipLinks(ctx, dirURL)
	if err != nil {
		p.logger.Warn("quarter listing failed", zap.String("quarter", dirURL), zap.Error(err))
		return nil, nil
	}

	perZip := make([][]ParseResult, len(zips))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for i, link := range zips {
		i, link := i, link
		g.Go(func() error {
			perZip[i] = p.archive(gctx, link)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []ParseResult
	for _, results := range perZip {
		out = append(out, results...)
	}
	return out, nil
}

func (p *Pipeline) archive(ctx context.Context, link string) []ParseResult {
	log := p.logger.With(zap.String("archive", link))

	data, err := p.source.Download(ctx, link)
	if err != nil {
		log.Warn("download failed", zap.Error(err))
		return nil
	}
	files, err := ExtractCSV(data)
	if err != nil {
		log.Warn("extract failed", zap.Error(err))
		return nil
	}

	var out []ParseResult
	for _, f := range files {
		periodo, ok := PeriodoFrom(path.Base(link), f.Name)
		if !ok {
			log.Warn("quarter not found in file name, skipping", zap.String("file", f.Name))
			continue
		}
		pr, err := ParseDespesas(f.Data, periodo)
		if err != nil {
			log.Warn("parse failed", zap.String("file", f.Name), zap.Error(err))
			continue
		}
		log.Debug("file parsed",
			zap.String("file", f.Name),
			zap.Stringer("periodo", periodo),
			zap.Int("lancamentos", len(pr.Lancamentos)),
			zap.Int("ignoradas", pr.Ignoradas),
		)
		out = append(out, pr)
	}
	return out
}
