package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gainworld/travel-guide/internal/database"
	"github.com/gainworld/travel-guide/internal/middleware"
	"github.com/gainworld/travel-guide/internal/models"
	"github.com/gainworld/travel-guide/internal/validation"
)

const (
	// MaxPlaceNameLength is the maximum length for a place name
	MaxPlaceNameLength = 255
	// MaxAddressLength is the maximum length for an address
	MaxAddressLength = 500
)

// PlaceHandler handles place bookmark requests
type PlaceHandler struct {
	places database.PlaceStore
	logger *zap.Logger
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(places database.PlaceStore, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{places: places, logger: logger}
}

// RegisterRoutes registers place routes on the given router. The router must
// already carry the auth middleware.
func (h *PlaceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/places", h.ListPlaces).Methods("GET")
	r.HandleFunc("/add_place", h.AddPlace).Methods("POST")
	r.HandleFunc("/remove_place/{place_id}", h.RemovePlace).Methods("DELETE")
}

// AddPlaceRequest represents an add-place request body
type AddPlaceRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	Address         string  `json:"address" validate:"max=500"`
	Latitude        float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64 `json:"longitude" validate:"gte=-180,lte=180"`
	ExternalPlaceID string  `json:"google_place_id" validate:"max=255"`
}

// ListPlaces lists the authenticated user's places, at most one per
// coordinate pair.
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not logged in")
		return
	}

	places, err := h.places.ListByOwner(r.Context(), subject)
	if err != nil {
		h.logger.Error("failed_to_list_places",
			zap.String("owner_id", subject),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to fetch places")
		return
	}

	respondJSON(w, http.StatusOK, places)
}

// AddPlace bookmarks a place for the authenticated user. Adding coordinates
// the user already bookmarked is not an error: it reports "Place already
// exists" with the same 200 status and leaves storage untouched.
func (h *PlaceHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not logged in")
		return
	}

	var req AddPlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("Validation failed on field %s", validationErrors[0].Field()))
			return
		}
		respondError(w, http.StatusBadRequest, "Validation failed")
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	req.Address = validation.SanitizeText(req.Address)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	place := &models.Place{
		OwnerID:         subject,
		Name:            req.Name,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExternalPlaceID: req.ExternalPlaceID,
	}

	outcome, err := h.places.Add(r.Context(), place)
	if err != nil {
		h.logger.Error("failed_to_add_place",
			zap.String("owner_id", subject),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to add place")
		return
	}

	if outcome == database.OutcomeAlreadyExists {
		respondMessage(w, http.StatusOK, "Place already exists")
		return
	}

	h.logger.Info("place_added",
		zap.String("owner_id", subject),
		zap.Int64("place_id", place.PlaceID),
	)
	respondMessage(w, http.StatusOK, "Place added successfully")
}

// RemovePlace deletes the place matching the authenticated user and the path
// id. Removing an id that does not exist or belongs to someone else still
// reports success; the no-op is only visible in the server log.
func (h *PlaceHandler) RemovePlace(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "User not logged in")
		return
	}

	placeID, err := strconv.ParseInt(mux.Vars(r)["place_id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid place id")
		return
	}

	removed, err := h.places.Remove(r.Context(), subject, placeID)
	if err != nil {
		h.logger.Error("failed_to_remove_place",
			zap.String("owner_id", subject),
			zap.Int64("place_id", placeID),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "Failed to remove place")
		return
	}

	h.logger.Info("place_removed",
		zap.String("owner_id", subject),
		zap.Int64("place_id", placeID),
		zap.Int64("rows_removed", removed),
	)
	respondMessage(w, http.StatusOK, "Place removed successfully")
}
