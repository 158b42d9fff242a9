// Package dto estructuras de entrada/salida de la API HTTP. Los montos y
// cantidades viajan como decimal (serializado string) para no pasar por float.
package dto

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
