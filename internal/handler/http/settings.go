package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/biopulse/attendance-backend-go/internal/domain/settings"
	"github.com/biopulse/attendance-backend-go/internal/domain/verification"
	"github.com/biopulse/attendance-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetCompany(w http.ResponseWriter, r *http.Request)
	UpdateCompany(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
	GetVerification(w http.ResponseWriter, r *http.Request)
	UpdateVerification(w http.ResponseWriter, r *http.Request)

	// Requirements and DailyCode read the live verification policy.
	Requirements(w http.ResponseWriter, r *http.Request)
	DailyCode(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService     settings.SettingsService
	verificationService verification.VerificationService
}

func NewSettingsHandler(settingsService settings.SettingsService, verificationService verification.VerificationService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService:     settingsService,
		verificationService: verificationService,
	}
}

func (h *settingsHandlerImpl) GetCompany(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetCompany(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateCompanySettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateCompany(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company settings updated successfully", result)
}

func (h *settingsHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 2MB)
	if err := r.ParseMultipartForm(2 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("logo")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Logo file is required", nil)
			return
		}
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.settingsService.UploadLogo(r.Context(), settings.UploadLogoRequest{
		File:       file,
		FileHeader: fileHeader,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logo uploaded successfully", result)
}

func (h *settingsHandlerImpl) GetVerification(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetVerification(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdateVerification(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateVerificationSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdateVerification(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Verification settings updated",
		"code", result.RequireCode, "selfie", result.RequireSelfie, "fingerprint", result.RequireFingerprint)
	response.SuccessWithMessage(w, "Verification settings updated successfully", result)
}

func (h *settingsHandlerImpl) Requirements(w http.ResponseWriter, r *http.Request) {
	response.Success(w, verification.NewRequirementsResponse(h.verificationService.Requirements(r.Context())))
}

func (h *settingsHandlerImpl) DailyCode(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.verificationService.DailyCode(r.Context()))
}
