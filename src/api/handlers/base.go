package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tradebit/src/api/controllers"
	"tradebit/src/clients/kite"
	"tradebit/src/services"
	"tradebit/src/utils"
)

// userIDHeader is set by the authenticating gateway in front of this
// service; end-user authentication itself lives outside this subsystem.
const userIDHeader = "X-User-ID"

type Handler struct {
	Controller controllers.IController
}

func NewHandler(controller controllers.IController) *Handler {
	return &Handler{Controller: controller}
}

func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// userID extracts the authenticated user identity from the request, writing
// a 401 when absent.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		utils.WriteError(w, utils.Unauthorized("missing user identity"))
		return "", false
	}
	return userID, true
}

// HandleErrors converts service errors into HTTP responses.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrNotConfigured) {
		utils.WriteError(w, utils.BadRequest(err.Error()))
		return
	}

	var brokerErr *kite.Error
	if errors.As(err, &brokerErr) {
		utils.WriteError(w, utils.NewHTTPError(http.StatusBadGateway, brokerErr.Message))
		return
	}

	var httpErr *utils.HTTPError
	if errors.As(err, &httpErr) {
		utils.WriteError(w, httpErr)
		return
	}

	utils.WriteError(w, utils.InternalServerError(err.Error()))
}
