package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCrescimentoComparesLaterYearsWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ano = $1")+"(?s).*"+regexp.QuoteMeta("WHERE ano > $1 AND ano <= $2")).
		WithArgs(2023, 2025).
		WillReturnRows(sqlmock.NewRows([]string{"razao_social", "crescimento"}).
			AddRow("Amil", 42.5).
			AddRow("Sem Base", nil))

	got, err := repo.Crescimento(context.Background(), 2023, 2025)
	if err != nil {
		t.Fatalf("Crescimento: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].RazaoSocial != "Amil" || got[0].Crescimento == nil || *got[0].Crescimento != 42.5 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Crescimento != nil {
		t.Errorf("null growth should stay nil, got %v", *got[1].Crescimento)
	}
	expectationsMet(t, mock)
}

func TestCrescimentoEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	mock.ExpectQuery("WITH despesas_inicio").
		WithArgs(2024, 2025).
		WillReturnRows(sqlmock.NewRows([]string{"razao_social", "crescimento"}))

	got, err := repo.Crescimento(context.Background(), 2024, 2025)
	if err != nil {
		t.Fatalf("Crescimento: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty non-nil", got)
	}
	expectationsMet(t, mock)
}

func TestEstatisticas(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT SUM(valordespesas)::float8, AVG(valordespesas)::float8")).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "avg"}).AddRow(1000.0, 250.0))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN operadoras o ON o.cnpj = d.cnpj") + "(?s).*" + regexp.QuoteMeta("LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"razao_social", "total_despesa"}).
			AddRow("Amil", 600.0).
			AddRow("Unimed", 400.0))

	stats, err := repo.Estatisticas(context.Background())
	if err != nil {
		t.Fatalf("Estatisticas: %v", err)
	}
	if stats.TotalGeral == nil || *stats.TotalGeral != 1000 || stats.MediaGeral == nil || *stats.MediaGeral != 250 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Top5) != 2 || stats.Top5[0].RazaoSocial != "Amil" {
		t.Errorf("top5 = %+v", stats.Top5)
	}
	expectationsMet(t, mock)
}

func TestEstatisticasEmptyTable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	mock.ExpectQuery("SELECT SUM").
		WillReturnRows(sqlmock.NewRows([]string{"sum", "avg"}).AddRow(nil, nil))
	mock.ExpectQuery("LIMIT 5").
		WillReturnRows(sqlmock.NewRows([]string{"razao_social", "total_despesa"}))

	stats, err := repo.Estatisticas(context.Background())
	if err != nil {
		t.Fatalf("Estatisticas: %v", err)
	}
	if stats.TotalGeral != nil || stats.MediaGeral != nil || stats.Top5 == nil || len(stats.Top5) != 0 {
		t.Errorf("stats = %+v", stats)
	}
	expectationsMet(t, mock)
}

func TestAgregados(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(STDDEV_SAMP(d.valordespesas), 0)") + "(?s).*" + regexp.QuoteMeta("GROUP BY o.razao_social, o.uf")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"razao_social", "uf", "total_despesas", "media_trimestral", "desvio_padrao"}).
			AddRow("Amil", "RJ", 300.0, 100.0, 10.0).
			AddRow("Unimed", "SP", 50.0, 50.0, 0.0))

	got, err := repo.Agregados(context.Background(), 10)
	if err != nil {
		t.Fatalf("Agregados: %v", err)
	}
	if len(got) != 2 || got[0].UF != "RJ" || got[0].DesvioPadrao != 10 || got[1].DesvioPadrao != 0 {
		t.Errorf("got %+v", got)
	}
	expectationsMet(t, mock)
}

func TestListByCNPJPropagatesErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDespesaRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM despesas_consolidadas").WithArgs("19131243000197").WillReturnError(boom)

	if _, err := repo.ListByCNPJ(context.Background(), "19131243000197"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	expectationsMet(t, mock)
}
