// Package s3proxy provides a read-only HTTP gateway core for static websites whose
// content lives in a bucket-style object store.
//
// The package turns arbitrary request paths into safe object keys, fetches the
// objects through a pluggable ObjectStore, and classifies them by content type.
//
// # Key Components
//
//   - ResolveKey: path cleaning and directory-index substitution
//   - ContentType: extension based MIME classification with an HTML default
//   - ObjectStore: interface for the remote store (S3, local filesystem)
//   - Gateway: immutable service combining a store and a bucket
//
// # Resolution Rules
//
// Paths are cleaned against a virtual root, so ".." can never climb out of the
// bucket. A path whose last segment has no recognized extension is treated as a
// page and resolves to its index document:
//
//	/             -> index.html
//	/about/       -> about/index.html
//	/logo.png     -> logo.png
//	/../etc/conf  -> etc/conf/index.html
//
// # Example Usage
//
//	gateway, err := s3proxy.NewGateway(store, s3proxy.Config{Bucket: "site"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	obj, err := gateway.Get(ctx, "/about/")
//
// See the http package for the HTTP surface and the s3store and filesystem
// packages for ObjectStore implementations.
package s3proxy
