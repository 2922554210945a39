// Package http provides the HTTP surface of the s3proxy gateway.
//
// The package serves a static website out of an object store. Every GET path is
// resolved to an object key, the object is fetched through the Service and its
// bytes are returned with a content type inferred from the key.
//
// # Routes
//
//   - GET / serves index.html as an HTML document (it must be valid UTF-8)
//   - GET /* serves any other object; directory-style paths get their index.html
//   - HEAD is accepted on both routes and returns headers only
//
// # Error Handling
//
// Errors are written as plain text with the error description as the body:
//
//   - path rejected, not found, connection and store failures: 404
//   - root document that is not valid text: 500
//
// # Usage
//
//	gateway, _ := s3proxy.NewGateway(store, s3proxy.Config{Bucket: "site"})
//	handler := http.NewHandler(&http.HandlerConfig{}, gateway)
//	http.ListenAndServe(":8080", handler.Router())
//
// # Middleware
//
// RequestLogger assigns every request an id (X-Request-Id) and logs method, path,
// status, size and duration with log/slog. CORS can be enabled with CORSConfig.
package http
