package domain

// ContentType classifies what kind of item a content record holds.
type ContentType string

const (
	// ContentDocument is a free-form text document; the payload lives in Body.
	ContentDocument ContentType = "document"
	// ContentTweet is a saved tweet; the payload lives in URL.
	ContentTweet ContentType = "tweet"
	// ContentYouTube is a saved YouTube video link.
	ContentYouTube ContentType = "youtube"
	// ContentLink is a generic web link.
	ContentLink ContentType = "link"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentDocument, ContentTweet, ContentYouTube, ContentLink:
		return true
	}
	return false
}

// Content is a saved item owned by a user.
//
// Which of URL and Body carries the substantive payload depends on Type
// (documents use Body, everything else uses URL), but that convention is
// advisory: the schema accepts either on any type.
type Content struct {
	Syncable
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	URL         string      `json:"url,omitempty"`
	Body        string      `json:"body,omitempty"`
	IsShared    bool        `json:"is_shared"`
	IsFavourite bool        `json:"is_favourite"`
	// ShareID, once minted, stays on the record even after unsharing.
	// It is only resolvable while IsShared is true.
	ShareID string `json:"share_id,omitempty"`
}

// OwnedBy reports whether the content belongs to the given user.
func (c *Content) OwnedBy(userID string) bool {
	return c.UserID == userID
}

// SearchText returns the text used for embedding generation: the title plus
// whichever of url/body carries the payload.
func (c *Content) SearchText() string {
	text := c.Title
	if c.Body != "" {
		text += "\n" + c.Body
	} else if c.URL != "" {
		text += "\n" + c.URL
	}
	return text
}
