package quotes

type Quote struct {
	ID     int    `json:"id" validate:"gte=1"`
	Text   string `json:"text" validate:"required,notblank"`
	Author string `json:"author" validate:"required,notblank"`
	Topic  string `json:"topic" validate:"required,notblank"`
}

func NewQuote(id int, text, author, topic string) Quote {
	return Quote{
		ID:     id,
		Text:   text,
		Author: author,
		Topic:  topic,
	}
}
