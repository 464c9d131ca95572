package models

import (
	"time"

	"compose2containerapps/internal/containerapps"

	"github.com/google/uuid"
)

// ServiceOutcome is what a run produced for one compose service.
type ServiceOutcome struct {
	Name   string
	Path   string
	Config *containerapps.Config
	// Document is the rendered YAML of Config.
	Document []byte
	// FQDN is only set when the service was deployed.
	FQDN string
	Err  error
}

func (o ServiceOutcome) Succeeded() bool {
	return o.Err == nil
}

// ConversionRecord is a stored conversion of one service.
type ConversionRecord struct {
	ID            uuid.UUID
	RunID         string
	Service       string
	ResourceGroup string
	Location      string
	External      bool
	TargetPort    *int
	Document      string
	Error         string
	CreatedAt     time.Time
}

// NewConversionRecord builds the record for an outcome. document is the
// rendered YAML, empty when conversion failed.
func NewConversionRecord(runID string, outcome ServiceOutcome, resourceGroup, location string, document []byte) ConversionRecord {
	rec := ConversionRecord{
		ID:            uuid.New(),
		RunID:         runID,
		Service:       outcome.Name,
		ResourceGroup: resourceGroup,
		Location:      location,
		Document:      string(document),
	}
	if outcome.Err != nil {
		rec.Error = outcome.Err.Error()
	}
	if outcome.Config != nil {
		ingress := outcome.Config.Properties.Configuration.Ingress
		rec.External = ingress.External
		if ingress.TargetPort != 0 {
			port := ingress.TargetPort
			rec.TargetPort = &port
		}
	}
	return rec
}
