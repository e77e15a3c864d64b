package handlers

import (
	"net/http"

	"servicedesk-backend/internal/models"
	"servicedesk-backend/internal/services"
	"servicedesk-backend/pkg/utils"
)

// CompaniesExportFilename is the attachment name of the company sheet.
const CompaniesExportFilename = "companies_locations.csv"

type CompanyHandler struct {
	Service *services.CompanyService
}

func NewCompanyHandler(s *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{Service: s}
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Service.CreateCompany(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, company)
}

// ListCompanies handles GET /api/companies?page&limit&search&sortBy&sortOrder
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Service.ListCompanies(r.Context(), models.CompanyFilter{
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

func (h *CompanyHandler) DownloadCompanies(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.CompaniesCSV(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.Attachment(w, "text/csv", CompaniesExportFilename, data)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Service.GetCompany(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.UpdateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Service.UpdateCompany(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Service.DeleteCompany(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, company)
}

// CreateLocation handles POST /api/companies/{id}/locations
func (h *CompanyHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.CreateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Service.CreateLocation(r.Context(), companyID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, res)
}

func (h *CompanyHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	locations, err := h.Service.ListLocations(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, locations)
}

func (h *CompanyHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	locationID, err := pathID(r, "locationId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req models.UpdateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	loc, err := h.Service.UpdateLocation(r.Context(), companyID, locationID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, loc)
}

func (h *CompanyHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	locationID, err := pathID(r, "locationId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	loc, err := h.Service.DeleteLocation(r.Context(), companyID, locationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, loc)
}
