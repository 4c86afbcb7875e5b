// Pokemon HTTP handlers.
//
// This file exposes the CRUD endpoints over the pokemon collection:
//   - GET    /users        (list)
//   - GET    /users/{id}   (get)
//   - POST   /users        (create)
//   - PUT    /users/{id}   (replace)
//   - DELETE /users/{id}   (delete)
//
// All of them sit behind the auth gate. Handlers are transport-thin: they
// validate input, call the service and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pokemon-api/internal/domain"
	"github.com/tbourn/go-pokemon-api/internal/repo"
	"github.com/tbourn/go-pokemon-api/internal/services"
)

// PokemonService defines the operations consumed by the CRUD handlers.
// *services.PokemonService satisfies it.
type PokemonService interface {
	List(ctx context.Context) ([]domain.Pokemon, error)
	Get(ctx context.Context, id string) (*domain.Pokemon, error)
	Create(ctx context.Context, f domain.PokemonFields) (*domain.Pokemon, error)
	Replace(ctx context.Context, id string, f domain.PokemonFields) error
	Delete(ctx context.Context, id string) error
}

// Handlers groups the CRUD endpoints.
type Handlers struct {
	pokemonSvc PokemonService
}

// New constructs a Handlers bound to svc.
func New(svc PokemonService) *Handlers {
	return &Handlers{pokemonSvc: svc}
}

// PokemonRequest is the JSON payload for create and replace.
//
// Pointer fields let zero numbers through while still rejecting missing
// keys. `type` is accepted in place of `category`.
type PokemonRequest struct {
	Name        *string `json:"name"        binding:"required"                  example:"Pikachu" maxLength:"100"`
	Category    *string `json:"category"    binding:"required_without=Type"     example:"Electric"`
	Type        *string `json:"type,omitempty" swaggerignore:"true"`
	Number      *int    `json:"number"      binding:"required"                  example:"25"`
	WorldNumber *int    `json:"worldNumber" binding:"required"                  example:"25"`
}

// fields converts the validated request into the domain payload.
func (r PokemonRequest) fields() domain.PokemonFields {
	f := domain.PokemonFields{
		Name:        *r.Name,
		Number:      *r.Number,
		WorldNumber: *r.WorldNumber,
	}
	switch {
	case r.Category != nil:
		f.Category = *r.Category
	case r.Type != nil:
		f.Category = *r.Type
	}
	return f
}

// bindPokemon decodes and validates the body. It writes the 400 itself.
func bindPokemon(c *gin.Context) (domain.PokemonFields, bool) {
	var req PokemonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, category, number and worldNumber are required")
		return domain.PokemonFields{}, false
	}
	return req.fields(), true
}

// ListPokemon godoc
// @ID          listPokemon
// @Summary     List pokemon
// @Description Returns every record in insertion order. An empty collection yields [].
// @Tags        Users
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200  {array}   domain.Pokemon
// @Failure     401  {object}  middleware.UnauthorizedBody  "Not logged in and no API key"
// @Failure     500  {object}  handlers.ErrorResponse       "Store error"
// @Router      /users [get]
func (h *Handlers) ListPokemon(c *gin.Context) {
	items, err := h.pokemonSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.Pokemon{}
	}
	ok(c, http.StatusOK, items)
}

// GetPokemon godoc
// @ID          getPokemon
// @Summary     Get one pokemon
// @Description Returns the record with the given id. An unknown id returns 200 with a null body.
// @Tags        Users
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id   path      string  true  "Record id"  example(64b7f0c2a1e4d3b2c1a09f87)
// @Success     200  {object}  domain.Pokemon
// @Failure     400  {object}  handlers.ErrorResponse       "Malformed id"
// @Failure     401  {object}  middleware.UnauthorizedBody  "Not logged in and no API key"
// @Failure     500  {object}  handlers.ErrorResponse       "Store error"
// @Router      /users/{id} [get]
func (h *Handlers) GetPokemon(c *gin.Context) {
	p, err := h.pokemonSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, repo.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "id must be a valid identifier")
	case errors.Is(err, repo.ErrNotFound):
		ok(c, http.StatusOK, nil)
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeGetFailed, err.Error())
	default:
		ok(c, http.StatusOK, p)
	}
}

// CreatePokemon godoc
// @ID          createPokemon
// @Summary     Create a pokemon
// @Description Stores a new record. The server assigns the id, returned in the Location header.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       body  body  handlers.PokemonRequest  true  "Pokemon payload"
// @Success     204   {string}  string  "No Content"
// @Header      204   {string}  Location  "/users/{id}"
// @Failure     400   {object}  handlers.ErrorResponse       "Malformed or incomplete body, or name over 100 characters"
// @Failure     401   {object}  middleware.UnauthorizedBody  "Not logged in and no API key"
// @Failure     500   {object}  handlers.ErrorResponse       "Store error"
// @Router      /users [post]
func (h *Handlers) CreatePokemon(c *gin.Context) {
	f, valid := bindPokemon(c)
	if !valid {
		return
	}

	p, err := h.pokemonSvc.Create(c.Request.Context(), f)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
	default:
		c.Header("Location", "/users/"+p.ID)
		noContent(c)
	}
}

// ReplacePokemon godoc
// @ID          replacePokemon
// @Summary     Replace a pokemon
// @Description Overwrites all fields of the record. A request that modifies nothing (unknown id or identical values) fails with 500.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id    path  string                   true  "Record id"  example(64b7f0c2a1e4d3b2c1a09f87)
// @Param       body  body  handlers.PokemonRequest  true  "Pokemon payload"
// @Success     204   {string}  string  "No Content"
// @Failure     400   {object}  handlers.ErrorResponse       "Malformed id or body"
// @Failure     401   {object}  middleware.UnauthorizedBody  "Not logged in and no API key"
// @Failure     500   {object}  handlers.ErrorResponse       "Nothing modified or store error"
// @Router      /users/{id} [put]
func (h *Handlers) ReplacePokemon(c *gin.Context) {
	id := c.Param("id")
	f, valid := bindPokemon(c)
	if !valid {
		return
	}

	err := h.pokemonSvc.Replace(c.Request.Context(), id, f)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, repo.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "id must be a valid identifier")
	case errors.Is(err, services.ErrInvalidInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrNotModified):
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, msgUpdateFailed)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
	}
}

// DeletePokemon godoc
// @ID          deletePokemon
// @Summary     Delete a pokemon
// @Description Removes the record. Deleting an unknown id fails with 500.
// @Tags        Users
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id   path  string  true  "Record id"  example(64b7f0c2a1e4d3b2c1a09f87)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse       "Malformed id"
// @Failure     401  {object}  middleware.UnauthorizedBody  "Not logged in and no API key"
// @Failure     500  {object}  handlers.ErrorResponse       "Nothing deleted or store error"
// @Router      /users/{id} [delete]
func (h *Handlers) DeletePokemon(c *gin.Context) {
	err := h.pokemonSvc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, repo.ErrInvalidID):
		fail(c, http.StatusBadRequest, ErrCodeInvalidID, "id must be a valid identifier")
	case errors.Is(err, services.ErrNotDeleted):
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, msgDeleteFailed)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
	}
}
