package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Operadora is the view-side reading of an operator record. The store keeps records as
// raw JSON; only views decode them, and decoding tolerates unknown fields and numbers
// sent as strings or strings sent as numbers.
type Operadora struct {
	RegistroANS string `json:"registro_ans"`
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	UF          string `json:"uf"`
	Modalidade  string `json:"modalidade,omitempty"`
}

// UnmarshalJSON reads the known fields of a record as text.
func (o *Operadora) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("models: operadora record is null")
	}
	*o = Operadora{
		RegistroANS: text(fields["registro_ans"]),
		CNPJ:        text(fields["cnpj"]),
		RazaoSocial: text(fields["razao_social"]),
		UF:          text(fields["uf"]),
		Modalidade:  text(fields["modalidade"]),
	}
	return nil
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// DecodeOperadoras reads raw records, skipping the ones that are not JSON objects.
// It returns the decoded records and the number skipped.
func DecodeOperadoras(raw []json.RawMessage) ([]Operadora, int) {
	out := make([]Operadora, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		var o Operadora
		if err := json.Unmarshal(r, &o); err != nil {
			skipped++
			continue
		}
		out = append(out, o)
	}
	return out, skipped
}

// Despesa is one quarter of consolidated expenses.
type Despesa struct {
	CNPJ          string  `json:"cnpj"`
	Ano           int     `json:"ano"`
	Trimestre     int     `json:"trimestre"`
	ValorDespesas float64 `json:"valordespesas"`
}
