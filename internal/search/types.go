package search

import "fmt"

// Record is the region record returned by the lookup service for a found UF.
// Dates are opaque display strings and are passed through unmodified.
type Record struct {
	Estado        string  `json:"estado" yaml:"estado"`
	Regiao        string  `json:"regiao" yaml:"regiao"`
	VlUF          float64 `json:"vl_uf" yaml:"vl_uf"`
	VlRegiao      float64 `json:"vl_regiao" yaml:"vl_regiao"`
	VlBrasil      float64 `json:"vl_brasil" yaml:"vl_brasil"`
	DtCompetencia string  `json:"dt_competencia" yaml:"dt_competencia"`
	DtAtualizacao string  `json:"dt_atualizacao" yaml:"dt_atualizacao"`
}

// FormatMoney renders a value the way the result panel shows it.
func FormatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// OutcomeKind tags a successful lookup.
type OutcomeKind int

const (
	// Found carries a Record.
	Found OutcomeKind = iota
	// NotFound carries only the code echoed back by the service.
	NotFound
)

// String returns the wire status tag for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case Found:
		return StatusSuccess
	case NotFound:
		return StatusNotFound
	default:
		return "unknown"
	}
}

// Outcome is a classified, successful lookup response.
type Outcome struct {
	Kind   OutcomeKind `json:"-" yaml:"-"`
	Status string      `json:"status" yaml:"status"`
	Record *Record     `json:"data,omitempty" yaml:"data,omitempty"`
	Code   string      `json:"uf,omitempty" yaml:"uf,omitempty"`
}

// NewFound builds a Found outcome.
func NewFound(rec Record) *Outcome {
	return &Outcome{Kind: Found, Status: StatusSuccess, Record: &rec}
}

// NewNotFound builds a NotFound outcome echoing code.
func NewNotFound(code string) *Outcome {
	return &Outcome{Kind: NotFound, Status: StatusNotFound, Code: code}
}

// Wire status tags
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
)

// wireResponse mirrors the JSON body of a 2xx answer. Pointers let the
// decoder tell an absent payload from a zero one.
type wireResponse struct {
	Status *string `json:"status"`
	Data   *Record `json:"data"`
	UF     *string `json:"uf"`
}
