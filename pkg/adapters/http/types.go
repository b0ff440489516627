package http

import "github.com/aretw0/funchain/pkg/domain"

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	App        string `json:"app"`
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Name       string `json:"name"`
	Entry      string `json:"entry"`
	Nodes      int    `json:"nodes"`
}

// ChainResponse is the body of GET /chain.
type ChainResponse struct {
	Entry   string                `json:"entry"`
	Initial domain.Value          `json:"initial"`
	Nodes   []domain.FunctionNode `json:"nodes"`
}

// SetEquationRequest is the body of PUT /chain/{id}/equation.
type SetEquationRequest struct {
	Equation *string `json:"equation"`
}

// EvaluateRequest is the body of POST /evaluate. A missing initial uses the chain default.
type EvaluateRequest struct {
	Initial *float64 `json:"initial"`
}

// ErrorResponse is returned with every 4xx/5xx status.
type ErrorResponse struct {
	Error  string `json:"error"`
	Column int    `json:"column,omitempty"`
}
