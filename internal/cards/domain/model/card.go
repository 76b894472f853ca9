package model

// CardSet is one pack of cards as shipped in the card data file.
type CardSet struct {
	Name        string      `json:"name"`
	Description *string     `json:"description"`
	Official    bool        `json:"official"`
	White       []WhiteCard `json:"white"`
	Black       []BlackCard `json:"black"`
}

// WhiteCard is an answer card.
type WhiteCard struct {
	Text string `json:"text"`
	Pack int    `json:"pack"`
}

// BlackCard is a prompt card; Pick is the number of white cards it takes.
type BlackCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
	Pack int    `json:"pack"`
}

// Counts returns the number of white and black cards across sets.
func Counts(sets []CardSet) (white, black int) {
	for _, s := range sets {
		white += len(s.White)
		black += len(s.Black)
	}
	return white, black
}
