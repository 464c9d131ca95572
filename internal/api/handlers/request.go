package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apiError "compose2containerapps/internal/api/error"
	"compose2containerapps/internal/api/requestid"
	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/config"
	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/env"
	"compose2containerapps/internal/logging"
)

const (
	formFile          = "file"
	formResourceGroup = "resourceGroup"
	formLocation      = "location"
	formEnvironmentID = "environmentId"
	formTransport     = "transport"
	formRevisionsMode = "revisionsMode"
	formService       = "service"
	formEnv           = "env"

	maxUploadSize = 10 << 20
)

type convertRequest struct {
	FileName string
	File     *compose.File
	Options  config.Options
	Services []string
	Values   map[string]string
}

// buildConvertRequest reads the multipart form. Returned errors are
// *apiError.Error values ready to be encoded.
func buildConvertRequest(r *http.Request, e *env.Env) (*convertRequest, context.Context, *apiError.Error) {
	ctx := r.Context()
	requestID := requestid.FromContext(ctx)

	e.Logger.DebugContext(ctx, "Parsing form")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		e.Logger.ErrorContext(ctx, "Failed to parse multipart form", slog.Any("error", err))
		return nil, ctx, apiError.New(apiError.BadRequest, "failed to parse multipart form", requestID)
	}

	e.Logger.DebugContext(ctx, "Retrieving file from form")
	file, handler, err := r.FormFile(formFile)
	if err != nil {
		e.Logger.ErrorContext(ctx, "Error retrieving file", slog.Any("error", err))
		return nil, ctx, apiError.New(apiError.BadRequest, "missing compose file in form field \"file\"", requestID)
	}
	defer file.Close()
	ctx = logging.AppendCtx(ctx, slog.String("filename", handler.Filename))

	content, err := io.ReadAll(file)
	if err != nil {
		e.Logger.ErrorContext(ctx, "Error reading file", slog.Any("error", err))
		return nil, ctx, apiError.New(apiError.BadRequest, "error reading compose file", requestID)
	}

	composeFile, err := compose.Parse(ctx, content)
	if err != nil {
		e.Logger.ErrorContext(ctx, "Error parsing compose file", slog.Any("error", err))
		return nil, ctx, apiError.New(apiError.BadRequest, err.Error(), requestID)
	}

	values, err := parseValues(r.MultipartForm.Value[formEnv])
	if err != nil {
		return nil, ctx, apiError.New(apiError.BadRequest, err.Error(), requestID)
	}

	transport, err := containerapps.ParseTransport(r.FormValue(formTransport))
	if err != nil {
		return nil, ctx, apiError.New(apiError.BadRequest, err.Error(), requestID)
	}
	mode, err := containerapps.ParseRevisionMode(r.FormValue(formRevisionsMode))
	if err != nil {
		return nil, ctx, apiError.New(apiError.BadRequest, err.Error(), requestID)
	}

	opts := config.Options{
		ResourceGroup: r.FormValue(formResourceGroup),
		Location:      r.FormValue(formLocation),
		EnvironmentID: r.FormValue(formEnvironmentID),
		Transport:     transport,
		RevisionMode:  mode,
	}
	if err := opts.Validate(); err != nil {
		e.Logger.ErrorContext(ctx, "Invalid options", slog.Any("error", err))
		return nil, ctx, apiError.New(apiError.BadRequest, err.Error(), requestID)
	}

	return &convertRequest{
		FileName: handler.Filename,
		File:     composeFile,
		Options:  opts,
		Services: r.MultipartForm.Value[formService],
		Values:   values,
	}, ctx, nil
}

// parseValues reads KEY=VALUE pairs.
func parseValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env value %q, expected KEY=VALUE", pair)
		}
		values[key] = value
	}
	return values, nil
}
