package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/inventory"
)

func listItemsHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]ItemResponse, len(items))
		for i := range items {
			out[i] = toItemResponse(&items[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createItemHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Nombre == "" {
			writeError(w, http.StatusUnprocessableEntity, "invalid_item", "nombre is required")
			return
		}

		it, err := svc.CreateItem(r.Context(), inventory.Item{
			Name:       req.Nombre,
			Category:   req.Categoria,
			PriceCents: req.PrecioCents,
			Stock:      req.Stock,
			Loanable:   req.Prestable,
		})
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func updateItemHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_item_id", "id must be a valid UUID")
			return
		}

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		it, err := svc.UpdateItem(r.Context(), inventory.Item{
			ID:         id,
			Name:       req.Nombre,
			Category:   req.Categoria,
			PriceCents: req.PrecioCents,
			Stock:      req.Stock,
			Loanable:   req.Prestable,
		})
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func deleteItemHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_item_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			handleInventoryError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type SellRequest struct {
	Cantidad int `json:"cantidad"`
}

func sellItemHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_item_id", "id must be a valid UUID")
			return
		}

		var req SellRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		it, err := svc.Sell(r.Context(), id, req.Cantidad)
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func createLoanHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_item_id", "itemId must be a valid UUID")
			return
		}
		patientID, err := uuid.Parse(req.PacienteID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "pacienteId must be a valid UUID")
			return
		}
		due, err := time.Parse(time.RFC3339, req.FechaLimite)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_due_date", "fechaLimite must be RFC 3339")
			return
		}

		loan, err := svc.Loan(r.Context(), inventory.LoanInput{
			ItemID:      itemID,
			PatientID:   patientID,
			PatientName: req.PacienteNombre,
			Quantity:    req.Cantidad,
			DueDate:     due,
		})
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLoanResponse(loan))
	}
}

func returnLoanHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_loan_id", "id must be a valid UUID")
			return
		}

		loan, err := svc.Return(r.Context(), id)
		if err != nil {
			handleInventoryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLoanResponse(loan))
	}
}

// listLoansHandler returns open loans; ?vencidos=true narrows to the
// ones past due.
func listLoansHandler(svc *inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			loans []inventory.Loan
			err   error
		)
		if r.URL.Query().Get("vencidos") == "true" {
			loans, err = svc.Overdue(r.Context(), time.Now())
		} else {
			loans, err = svc.OpenLoans(r.Context())
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]LoanResponse, len(loans))
		for i := range loans {
			out[i] = toLoanResponse(&loans[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleInventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, inventory.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, "loan_not_found", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, inventory.ErrItemNotLoanable):
		writeError(w, http.StatusUnprocessableEntity, "item_not_loanable", err.Error())
	case errors.Is(err, inventory.ErrLoanAlreadyClosed):
		writeError(w, http.StatusConflict, "loan_already_closed", err.Error())
	case errors.Is(err, inventory.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "invalid_quantity", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
