package dto

// CreateLocationRequest cuerpo para crear una ubicación.
type CreateLocationRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// LocationDTO ubicación serializada.
type LocationDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	Active    bool   `json:"active"`
}
