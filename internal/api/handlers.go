package api

import (
	"encoding/json"
	"net/http"

	"github.com/eagraf/porch/internal/constants"
	"github.com/eagraf/porch/internal/reverse_proxy"
	"github.com/eagraf/porch/internal/utils"
)

type VersionHandler struct {
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) Pattern() string {
	return "/porch/version"
}

func (h *VersionHandler) Method() string {
	return http.MethodGet
}

func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(constants.Version))
}

type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Pattern() string {
	return "/porch/health"
}

func (h *HealthHandler) Method() string {
	return http.MethodGet
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// RoutesHandler dumps the immutable rule table in evaluation order.
type RoutesHandler struct {
	ruleSet *reverse_proxy.RuleSet
}

func NewRoutesHandler(ruleSet *reverse_proxy.RuleSet) *RoutesHandler {
	return &RoutesHandler{ruleSet: ruleSet}
}

func (h *RoutesHandler) Pattern() string {
	return "/porch/routes"
}

func (h *RoutesHandler) Method() string {
	return http.MethodGet
}

func (h *RoutesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.ruleSet.Rules()); err != nil {
		utils.LogAndHTTPError(w, err.Error(), http.StatusInternalServerError)
	}
}
