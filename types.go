package s3proxy

// IndexDocument is the object served for directory-style paths.
const IndexDocument = "index.html"

// Object is a fully buffered object fetched from the store.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

// Size returns the body length in bytes.
func (o Object) Size() int {
	return len(o.Body)
}

// Config holds the values a Gateway is built from.
type Config struct {
	Bucket string
}
