package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/auth"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/types"
	"github.com/DaoSolary/Desaparecidos/pkg/usecase"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/errutil"
)

type caseSummary struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"fullName"`
	Age         *int       `json:"age,omitempty"`
	MissingDate *time.Time `json:"missingDate,omitempty"`
	Province    string     `json:"province,omitempty"`
	Status      string     `json:"status"`
}

type pairResponse struct {
	ID              string     `json:"id"`
	FirstCaseID     int64      `json:"firstCaseId"`
	SecondCaseID    int64      `json:"secondCaseId"`
	SimilarityScore float64    `json:"similarityScore"`
	Status          string     `json:"status"`
	DetectedBy      string     `json:"detectedBy,omitempty"`
	DetectedAt      time.Time  `json:"detectedAt"`
	ResolvedBy      string     `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	ResolutionNotes string     `json:"resolutionNotes,omitempty"`
}

type pairDetailResponse struct {
	pairResponse
	FirstCase  *caseSummary `json:"firstCase"`
	SecondCase *caseSummary `json:"secondCase"`
}

func toCaseSummary(c *model.Case) *caseSummary {
	if c == nil {
		return nil
	}
	return &caseSummary{
		ID:          c.ID,
		FullName:    c.FullName,
		Age:         c.Age,
		MissingDate: c.MissingDate,
		Province:    c.Province,
		Status:      c.Status.String(),
	}
}

func toPairResponse(p *model.DuplicatePair) pairResponse {
	return pairResponse{
		ID:              p.ID.String(),
		FirstCaseID:     p.FirstCaseID,
		SecondCaseID:    p.SecondCaseID,
		SimilarityScore: p.SimilarityScore,
		Status:          p.Status.String(),
		DetectedBy:      p.DetectedBy,
		DetectedAt:      p.DetectedAt,
		ResolvedBy:      p.ResolvedBy,
		ResolvedAt:      p.ResolvedAt,
		ResolutionNotes: p.ResolutionNotes,
	}
}

func toPairDetailResponse(d *usecase.PairDetail) pairDetailResponse {
	return pairDetailResponse{
		pairResponse: toPairResponse(d.Pair),
		FirstCase:    toCaseSummary(d.FirstCase),
		SecondCase:   toCaseSummary(d.SecondCase),
	}
}

// errorStatus maps use case failures to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidThreshold),
		errors.Is(err, usecase.ErrInvalidResolution):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrPairNotFound),
		errors.Is(err, usecase.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPairNotPending),
		errors.Is(err, model.ErrPairAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// detectHandler runs a detection pass over the approved case records
func detectHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	type request struct {
		Threshold *float64 `json:"threshold"`
	}
	type response struct {
		CreatedPairs []pairResponse `json:"createdPairs"`
		Count        int            `json:"count"`
		CasesScanned int            `json:"casesScanned"`
		Comparisons  int            `json:"comparisons"`
		SkippedKnown int            `json:"skippedKnown"`
		Failed       int            `json:"failed"`
		Threshold    float64        `json:"threshold"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		// The body is optional: a bare POST runs with the configured threshold
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		result, err := uc.RunDetection(r.Context(), req.Threshold, token.Sub)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		resp := response{
			CreatedPairs: make([]pairResponse, len(result.Pairs)),
			Count:        len(result.Pairs),
			CasesScanned: result.CasesScanned,
			Comparisons:  result.Comparisons,
			SkippedKnown: result.SkippedKnown,
			Failed:       result.Failed,
			Threshold:    result.Threshold,
		}
		for i, pair := range result.Pairs {
			resp.CreatedPairs[i] = toPairResponse(pair)
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

// listPairsHandler lists detected pairs, optionally filtered by status
func listPairsHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	type response struct {
		Pairs []pairDetailResponse `json:"pairs"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var status *types.PairStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := types.ParsePairStatus(raw)
			if err != nil {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			status = &parsed
		}

		details, err := uc.ListPairs(r.Context(), status)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		resp := response{Pairs: make([]pairDetailResponse, len(details))}
		for i, detail := range details {
			resp.Pairs[i] = toPairDetailResponse(detail)
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

// getPairHandler returns one pair with its case summaries
func getPairHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairID := model.PairID(chi.URLParam(r, "pairID"))

		detail, err := uc.GetPair(r.Context(), pairID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toPairDetailResponse(detail))
	}
}

// resolvePairHandler applies a moderator decision to a pending pair
func resolvePairHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	type request struct {
		Status             string `json:"status"`
		ResolutionNotes    string `json:"resolutionNotes"`
		DeleteSecondRecord bool   `json:"deleteSecondRecord"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		status, err := types.ParsePairStatus(req.Status)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(usecase.ErrInvalidResolution, err.Error()), http.StatusBadRequest)
			return
		}

		pair, err := uc.ResolvePair(r.Context(), usecase.ResolveInput{
			PairID:           model.PairID(chi.URLParam(r, "pairID")),
			Status:           status,
			ResolvedBy:       token.Sub,
			Notes:            req.ResolutionNotes,
			DeleteSecondCase: req.DeleteSecondRecord,
		})
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toPairResponse(pair))
	}
}

// pairAuditHandler returns the audit trail recorded for one pair
func pairAuditHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	type entryResponse struct {
		ID        string         `json:"id"`
		ActorID   string         `json:"actorId"`
		Action    string         `json:"action"`
		Metadata  map[string]any `json:"metadata,omitempty"`
		CreatedAt time.Time      `json:"createdAt"`
	}
	type response struct {
		Entries []entryResponse `json:"entries"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		pairID := model.PairID(chi.URLParam(r, "pairID"))

		entries, err := uc.PairAuditTrail(r.Context(), pairID)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		resp := response{Entries: make([]entryResponse, len(entries))}
		for i, entry := range entries {
			resp.Entries[i] = entryResponse{
				ID:        string(entry.ID),
				ActorID:   entry.ActorID,
				Action:    entry.Action,
				Metadata:  entry.Metadata,
				CreatedAt: entry.CreatedAt,
			}
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

// statsHandler returns pair counts grouped by status
func statsHandler(uc *usecase.DuplicateUseCase) http.HandlerFunc {
	type response struct {
		Counts map[string]int64 `json:"counts"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := uc.Stats(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, errorStatus(err))
			return
		}

		resp := response{Counts: make(map[string]int64, len(counts))}
		for status, n := range counts {
			resp.Counts[status.String()] = n
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}
