package server

import (
	"net/http"

	"makemystay/internal/domain"
	"makemystay/internal/services"
)

// Contacts

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := parseContactFilter(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	contacts, err := s.contacts.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	writeJSON(w, r, http.StatusOK, contacts)
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "contact_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	contact, err := s.contacts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, contact)
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var payload services.ContactPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	contact, err := s.contacts.Create(r.Context(), &payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "contact_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.ContactPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	contact, err := s.contacts.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "contact_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.contacts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Properties

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := parsePage(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter, err := parsePropertyFilter(q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	properties, err := s.properties.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if properties == nil {
		properties = []domain.Property{}
	}
	writeJSON(w, r, http.StatusOK, properties)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	property, err := s.properties.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, property)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var payload services.PropertyPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	property, err := s.properties.Create(r.Context(), &payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, property)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.PropertyPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	property, err := s.properties.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, property)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.properties.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Images

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(s.mux.Vars(r), "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	images, err := s.images.ListForProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if images == nil {
		images = []domain.PropertyImage{}
	}
	writeJSON(w, r, http.StatusOK, images)
}

func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(s.mux.Vars(r), "property_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload services.PropertyImagePayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	image, err := s.images.Create(r.Context(), propertyID, &payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, image)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "image_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	image, err := s.images.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, image)
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "image_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch domain.PropertyImagePatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	image, err := s.images.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, image)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(s.mux.Vars(r), "image_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.images.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
