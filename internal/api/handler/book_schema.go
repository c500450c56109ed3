package handler

import "github.com/bl00dPhant0m/LiquiBase/internal/core/domain"

// headerIdempotencyKey lets a client retry POST /books/add without
// creating a second book.
const headerIdempotencyKey = "Idempotency-Key"

// bookRequest is the body of create, update and patch. Absent fields stay
// nil: patch leaves them untouched, update writes them as null.
type bookRequest struct {
	Title *string `json:"title"`
	Price *int    `json:"price"`
}

func (r bookRequest) toDomain() domain.Book {
	return domain.Book{Title: r.Title, Price: r.Price}
}

type bookResponse struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
	Price *int    `json:"price"`
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{ID: b.ID, Title: b.Title, Price: b.Price}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i := range books {
		out[i] = toBookResponse(&books[i])
	}
	return out
}
