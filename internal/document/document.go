package document

// Document is the extracted text and metadata of one loaded source.
type Document struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	Pages     int    `json:"pages"`
	CharCount int    `json:"char_count"`
}

// Collection is an ordered list of loaded documents. Names are not
// deduplicated: loading the same file twice keeps both entries.
type Collection struct {
	docs []Document
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds doc to the end of the collection.
func (c *Collection) Append(doc Document) {
	c.docs = append(c.docs, doc)
}

// Remove deletes the first document whose name equals name and reports
// whether any removal occurred.
func (c *Collection) Remove(name string) bool {
	for i, d := range c.docs {
		if d.Name == name {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.docs = nil
}

// List returns a snapshot of the documents in load order.
func (c *Collection) List() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Len reports the number of loaded documents.
func (c *Collection) Len() int {
	return len(c.docs)
}
