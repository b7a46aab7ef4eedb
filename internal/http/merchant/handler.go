package merchant

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Rohit-3/Ratan-agri-tech/internal/merchant"
)

type Handler struct {
	svc *merchant.Service
}

func NewHandler(svc *merchant.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
}

type profileResponse struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	GSTIN       string    `json:"gstin,omitempty"`
	PAN         string    `json:"pan,omitempty"`
	UPIHandle   string    `json:"upi_handle"`
	BankName    string    `json:"bank_name,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	IFSCCode    string    `json:"ifsc_code,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(p *merchant.Profile) profileResponse {
	return profileResponse{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		GSTIN:       p.GSTIN,
		PAN:         p.PAN,
		UPIHandle:   p.UPIHandle,
		BankName:    p.BankName,
		BankAccount: p.BankAccount,
		IFSCCode:    p.IFSCCode,
		LogoURL:     p.LogoURL,
		WebsiteURL:  p.WebsiteURL,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Current(r.Context())
	if err != nil {
		if errors.Is(err, merchant.ErrNotFound) {
			http.Error(w, "merchant profile not found", http.StatusNotFound)
			return
		}

		slog.Error("loading merchant profile failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	GSTIN       string `json:"gstin"`
	PAN         string `json:"pan"`
	UPIHandle   string `json:"upi_handle"`
	BankName    string `json:"bank_name"`
	BankAccount string `json:"bank_account"`
	IFSCCode    string `json:"ifsc_code"`
	LogoURL     string `json:"logo_url"`
	WebsiteURL  string `json:"website_url"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), merchant.UpdateParams{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		GSTIN:       req.GSTIN,
		PAN:         req.PAN,
		UPIHandle:   req.UPIHandle,
		BankName:    req.BankName,
		BankAccount: req.BankAccount,
		IFSCCode:    req.IFSCCode,
		LogoURL:     req.LogoURL,
		WebsiteURL:  req.WebsiteURL,
	})
	if err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("updating merchant profile failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(p))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
