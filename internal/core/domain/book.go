package domain

// Book is a catalogue entry. Title is optional; Price is required by the
// store, but stays a pointer so that an absent value can travel from a
// request body down to the NOT NULL check.
type Book struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
	Price *int    `json:"price"`
}

// Overwrite replaces every mutable field with the values from src, nil
// included (PUT semantics).
func (b *Book) Overwrite(src Book) {
	b.Title = src.Title
	b.Price = src.Price
}

// Merge replaces only the fields that are set in src (PATCH semantics).
func (b *Book) Merge(src Book) {
	if src.Title != nil {
		b.Title = src.Title
	}
	if src.Price != nil {
		b.Price = src.Price
	}
}

// PriceValue returns the price, or 0 when it is absent.
func (b Book) PriceValue() int {
	if b.Price == nil {
		return 0
	}
	return *b.Price
}
