package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-bank-sync/internal/utils"
	"github.com/MKhiriev/go-bank-sync/models"
)

const paramUserID = "userID"

func (h *Handler) getUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, paramUserID)

	user, err := h.services.BankingService.UserProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "Handler.getUserProfile", err)
		return
	}
	if user == nil {
		h.writeError(w, r, "Handler.getUserProfile", fmt.Errorf("%w: user %s", ErrResourceNotFound, userID))
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateUserProfile(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, "Handler.updateUserProfile", err)
		return
	}

	if err := h.services.BankingService.UpdateUserProfile(r.Context(), chi.URLParam(r, paramUserID), fields); err != nil {
		h.writeError(w, r, "Handler.updateUserProfile", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getUserAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.services.BankingService.Accounts(r.Context(), chi.URLParam(r, paramUserID))
	if err != nil {
		h.writeError(w, r, "Handler.getUserAccounts", err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	_, _ = utils.WriteJSON(w, accounts, http.StatusOK)
}

func (h *Handler) getUserTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.services.BankingService.Transactions(r.Context(), chi.URLParam(r, paramUserID))
	if err != nil {
		h.writeError(w, r, "Handler.getUserTransactions", err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	_, _ = utils.WriteJSON(w, transactions, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users := h.services.BankingService.Users(r.Context())
	if users == nil {
		users = []models.User{}
	}
	_, _ = utils.WriteJSON(w, users, http.StatusOK)
}

// listAllTransactions serves the admin feed. Without ?limit the page size
// comes from the system settings.
func (h *Handler) listAllTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get(queryLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, r, "Handler.listAllTransactions", fmt.Errorf("%w: limit=%q", ErrInvalidQueryParam, raw))
			return
		}
		limit = n
	}

	transactions := h.services.BankingService.AllTransactions(r.Context(), limit)
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	_, _ = utils.WriteJSON(w, transactions, http.StatusOK)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.services.BankingService.SystemSettings(r.Context()), http.StatusOK)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		h.writeError(w, r, "Handler.updateSettings", err)
		return
	}

	if err := h.services.BankingService.UpdateSystemSettings(r.Context(), fields); err != nil {
		h.writeError(w, r, "Handler.updateSettings", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
