package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
)

type nullableInt = nullable.Nullable[int]

type serviceResult struct {
	Name       string      `json:"name"`
	FileName   string      `json:"fileName,omitempty"`
	YAML       string      `json:"yaml,omitempty"`
	TargetPort nullableInt `json:"targetPort"`
	External   bool        `json:"external"`
	Error      string      `json:"error,omitempty"`
}

type convertResponse struct {
	RunID    string          `json:"runId"`
	Services []serviceResult `json:"services"`
}

type conversion struct {
	ID            uuid.UUID   `json:"id"`
	RunID         string      `json:"runId"`
	Service       string      `json:"service"`
	ResourceGroup string      `json:"resourceGroup,omitempty"`
	Location      string      `json:"location,omitempty"`
	External      bool        `json:"external"`
	TargetPort    nullableInt `json:"targetPort"`
	YAML          string      `json:"yaml,omitempty"`
	Error         string      `json:"error,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type conversionsResponse struct {
	Conversions []conversion `json:"conversions"`
}

func targetPort(port *int) nullableInt {
	if port == nil {
		return nullable.NewNullNullable[int]()
	}
	return nullable.NewNullableWithValue(*port)
}
