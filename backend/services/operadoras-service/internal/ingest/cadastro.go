package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"painelans/backend/libs/cnpj"
	"painelans/backend/services/operadoras-service/internal/models"
)

// Cadastro indexes the registry of active operators by registro ANS and by CNPJ.
type Cadastro struct {
	porRegistro map[string]models.Operadora
	porCNPJ     map[string]models.Operadora
}

// ParseCadastro reads the ANS operator registry (Relatorio_cadop). Entries without a
// numeric registro, a 14-digit CNPJ, a razão social or a two-letter UF are skipped and
// counted; the first entry of a repeated registro wins.
func ParseCadastro(data []byte) (*Cadastro, int, error) {
	r := newCSVReader(data)
	cols, err := readHeader(r)
	if err != nil {
		return nil, 0, err
	}

	colRegistro := exactColumn(cols, "REGISTRO_OPERADORA", "REGISTRO_ANS", "REG_ANS")
	colCNPJ := exactColumn(cols, "CNPJ")
	colRazao := exactColumn(cols, "RAZAO_SOCIAL")
	colModalidade := exactColumn(cols, "MODALIDADE")
	colUF := exactColumn(cols, "UF")
	if colRegistro < 0 || colCNPJ < 0 || colRazao < 0 || colUF < 0 {
		return nil, 0, fmt.Errorf("%w: %v", ErrMissingColumns, cols)
	}

	c := &Cadastro{
		porRegistro: make(map[string]models.Operadora),
		porCNPJ:     make(map[string]models.Operadora),
	}
	skipped := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		registro := strings.TrimLeft(digits(field(rec, colRegistro)), "0")
		id, convErr := strconv.ParseInt(registro, 10, 64)
		doc := cnpj.Normalize(field(rec, colCNPJ))
		uf := strings.ToUpper(field(rec, colUF))
		razao := field(rec, colRazao)
		if registro == "" || convErr != nil || len(doc) != 14 || doc == strings.Repeat("0", 14) || len(uf) != 2 || razao == "" {
			skipped++
			continue
		}
		if _, dup := c.porRegistro[registro]; dup {
			continue
		}

		o := models.Operadora{
			RegistroANS: id,
			CNPJ:        doc,
			RazaoSocial: razao,
			UF:          uf,
			Modalidade:  field(rec, colModalidade),
		}
		c.porRegistro[registro] = o
		if _, taken := c.porCNPJ[doc]; !taken {
			c.porCNPJ[doc] = o
		}
	}
	return c, skipped, nil
}

// Len returns the number of distinct registros.
func (c *Cadastro) Len() int { return len(c.porRegistro) }

// Lookup resolves an identifier read from an accounting file, trying registro ANS first
// and CNPJ second.
func (c *Cadastro) Lookup(id string) (models.Operadora, bool) {
	if o, ok := c.porRegistro[strings.TrimLeft(id, "0")]; ok {
		return o, true
	}
	o, ok := c.porCNPJ[cnpj.Normalize(id)]
	return o, ok
}
