package models

// Operadora is a health-plan operator registered with the ANS.
type Operadora struct {
	RegistroANS int64  `json:"registro_ans"`
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	UF          string `json:"uf"`
	Modalidade  string `json:"modalidade,omitempty"`
}

// OperadoraPage is one page of the operator listing.
type OperadoraPage struct {
	Data  []Operadora `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
