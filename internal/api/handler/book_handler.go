package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bl00dPhant0m/LiquiBase/internal/core/ports"
)

type BookHandler struct {
	books ports.BookService
}

func NewBookHandler(books ports.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// Create stores a new book.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        Idempotency-Key  header    string       false  "Replays the book created by an earlier request with the same key"
// @Param        body             body      bookRequest  true   "Book"
// @Success      200              {object}  bookResponse
// @Failure      400              {string}  string
// @Failure      401              {string}  string
// @Failure      403              {string}  string
// @Failure      409              {string}  string
// @Router       /books/add [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	book, err := h.books.Save(c.Request().Context(), req.toDomain(), c.Request().Header.Get(headerIdempotencyKey))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Get returns a book by id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  bookResponse
// @Failure      400  {string}  string
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	book, err := h.books.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Delete removes a book.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BasicAuth
// @Param        id   path  int  true  "Book ID"
// @Success      200
// @Failure      400  {string}  string
// @Failure      401  {string}  string
// @Failure      403  {string}  string
// @Failure      404  {string}  string
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.books.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Update replaces title and price of a book. Fields missing from the body
// are written as null.
//
// @Summary      Replace a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int          true  "Book ID"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  bookResponse
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Failure      403   {string}  string
// @Failure      404   {string}  string
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	book, err := h.books.Update(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// Patch changes only the fields present in the body.
//
// @Summary      Partially update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int          true  "Book ID"
// @Param        body  body      bookRequest  true  "Fields to change"
// @Success      200   {object}  bookResponse
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Failure      403   {string}  string
// @Failure      404   {string}  string
// @Router       /books/{id} [patch]
func (h *BookHandler) Patch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	book, err := h.books.Patch(c.Request().Context(), id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(book))
}

// List returns every book.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /books/getAll [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.books.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// ListByPriceDesc returns every book, most expensive first.
//
// @Summary      List books by price, descending
// @Tags         books
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /books/sortByMax [get]
func (h *BookHandler) ListByPriceDesc(c echo.Context) error {
	books, err := h.books.ListByPriceDescending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// ListByPriceAsc returns every book, cheapest first.
//
// @Summary      List books by price, ascending
// @Tags         books
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {string}  string
// @Failure      404  {string}  string
// @Router       /books/sortByMin [get]
func (h *BookHandler) ListByPriceAsc(c echo.Context) error {
	books, err := h.books.ListByPriceAscending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id: "+c.Param("id"))
	}
	return id, nil
}
