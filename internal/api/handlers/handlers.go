// Package handlers contains the http handlers of the conversion service.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"compose2containerapps/docs"
	apiError "compose2containerapps/internal/api/error"
	"compose2containerapps/internal/api/requestid"
	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/convert"
	"compose2containerapps/internal/database"
	"compose2containerapps/internal/env"
	"compose2containerapps/internal/pipeline"
	"compose2containerapps/internal/utils"

	"github.com/oapi-codegen/runtime"
)

// outputName is the base file name reported for rendered documents.
const outputName = "containerapps.yml"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errchkjson
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func OpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := docs.Docs.ReadFile("api.yaml")
	if err != nil {
		env.FromContext(r.Context()).Logger.ErrorContext(r.Context(), "failed to read api docs", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestid.FromContext(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Convert renders every service of the uploaded compose file. Variables are
// only read from the env form values and unset ones fail the service.
func Convert(w http.ResponseWriter, r *http.Request) {
	e := env.FromContext(r.Context())

	req, ctx, apiErr := buildConvertRequest(r, e)
	if apiErr != nil {
		_ = apiError.Encode(w, apiErr)
		return
	}
	requestID := requestid.FromContext(ctx)

	converter, err := convert.New(req.Options,
		convert.WithLookup(convert.MapLookup(req.Values)),
		convert.WithResolver(convert.StrictResolver{}),
		convert.WithLogger(e.Logger),
	)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	report, err := pipeline.New(converter, "",
		pipeline.WithStore(e.Store),
		pipeline.WithLogger(e.Logger),
	).Run(ctx, req.File, req.Services...)
	if errors.Is(err, convert.ErrUnknownService) && len(report.Outcomes) == 0 {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	res := convertResponse{
		RunID:    report.RunID,
		Services: make([]serviceResult, 0, len(report.Outcomes)),
	}
	for _, outcome := range report.Outcomes {
		result := serviceResult{
			Name:       outcome.Name,
			TargetPort: targetPort(nil),
		}
		if outcome.Err != nil {
			result.Error = outcome.Err.Error()
		}
		if outcome.Config != nil {
			ingress := outcome.Config.Properties.Configuration.Ingress
			result.FileName = utils.OutputPath(outputName, outcome.Name)
			result.YAML = string(outcome.Document)
			result.External = ingress.External
			result.TargetPort = ingressPort(ingress)
		}
		res.Services = append(res.Services, result)
	}

	status := http.StatusOK
	if len(report.Failed()) > 0 {
		e.Logger.WarnContext(ctx, "conversion finished with failures", slog.Int("failed", len(report.Failed())))
		status = apiError.ConversionFailed.Status()
	}
	writeJSON(w, status, res)
}

func ingressPort(ingress containerapps.Ingress) nullableInt {
	if ingress.TargetPort == 0 {
		return targetPort(nil)
	}
	port := ingress.TargetPort
	return targetPort(&port)
}

// Conversions lists stored conversions, newest first. Without a database
// the list is always empty.
func Conversions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.FromContext(ctx)
	requestID := requestid.FromContext(ctx)

	params := database.ListConversionsParams{Limit: database.DefaultListLimit}
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "service", query, &params.Service); err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	res := conversionsResponse{Conversions: []conversion{}}
	if e.Store == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}

	records, err := e.Store.ListConversions(ctx, params)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to list conversions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	for _, rec := range records {
		res.Conversions = append(res.Conversions, conversion{
			ID:            rec.ID,
			RunID:         rec.RunID,
			Service:       rec.Service,
			ResourceGroup: rec.ResourceGroup,
			Location:      rec.Location,
			External:      rec.External,
			TargetPort:    targetPort(rec.TargetPort),
			YAML:          rec.Document,
			Error:         rec.Error,
			CreatedAt:     rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
