package chat

// FormattedReply is the structured form of a list-shaped agent reply.
type FormattedReply struct {
	Type       string           `json:"type"`
	Intro      string           `json:"intro"`
	Categories []string         `json:"categories"`
	Products   []ProductExtract `json:"products"`
	Outro      string           `json:"outro"`
	RawMessage string           `json:"raw_message"`
}

// ProductExtract is one product entry lifted out of the agent's prose.
// ID is the ordinal the source text assigned the item; it is not validated
// against the catalog and need not be contiguous.
type ProductExtract struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}
