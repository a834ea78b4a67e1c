package legacy

// Post is a row of __0Db_Notes. Text columns stay raw bytes until the
// migration decodes them under the assumed charset.
type Post struct {
	ID        int64
	Title     []byte
	Body      []byte
	Published bool
	Stamp     int64 // epoch seconds, already UTC
}

// Comment is a row of __0Db_Comments. Reply is empty when the blog owner
// never answered; ReplyStamp can still carry a value in that case and must
// be ignored then.
type Comment struct {
	ID         int64
	AuthorName []byte
	Text       []byte
	Reply      []byte
	Visible    bool
	Stamp      int64
	ReplyStamp int64
}
