package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/response"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type ContributionHandler interface {
	ListTables(w http.ResponseWriter, r *http.Request)
	GetActiveTable(w http.ResponseWriter, r *http.Request)
}

type contributionHandlerImpl struct {
	contributionService contribution.Service
}

func NewContributionHandler(contributionService contribution.Service) ContributionHandler {
	return &contributionHandlerImpl{contributionService: contributionService}
}

var knownSchemes = []string{
	string(contribution.SchemeSSS),
	string(contribution.SchemePhilHealth),
	string(contribution.SchemePagIBIG),
	string(contribution.SchemeWithholdingTax),
}

// ListTables implements ContributionHandler.
func (h *contributionHandlerImpl) ListTables(w http.ResponseWriter, r *http.Request) {
	scheme := chi.URLParam(r, "scheme")
	if !validator.IsInSlice(scheme, knownSchemes) {
		response.BadRequest(w, "Unknown contribution scheme", nil)
		return
	}

	result, err := h.contributionService.ListTables(r.Context(), contribution.Scheme(scheme))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetActiveTable implements ContributionHandler.
func (h *contributionHandlerImpl) GetActiveTable(w http.ResponseWriter, r *http.Request) {
	scheme := chi.URLParam(r, "scheme")
	if !validator.IsInSlice(scheme, knownSchemes) {
		response.BadRequest(w, "Unknown contribution scheme", nil)
		return
	}

	asOf := civiltime.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "as_of must be YYYY-MM-DD", nil)
			return
		}
		asOf = civiltime.In(t)
	}

	result, err := h.contributionService.GetActiveTable(r.Context(), contribution.Scheme(scheme), asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
