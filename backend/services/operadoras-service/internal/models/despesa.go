package models

// Despesa is the consolidated expense of one operator in one quarter.
type Despesa struct {
	CNPJ          string  `json:"cnpj"`
	Ano           int     `json:"ano"`
	Trimestre     int     `json:"trimestre"`
	ValorDespesas float64 `json:"valordespesas"`
}
