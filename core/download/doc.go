// Package download provides a small HTTP file downloader.
//
// It fetches a URL (following redirects) and returns the content together
// with a best-effort filename and the declared content type. The filename is
// taken from the Content-Disposition header when present, otherwise from the
// tail of the URL path.
//
// # Usage
//
//	dl := download.New(30 * time.Second)
//	res, err := dl.Fetch(ctx, "https://example.com/file.jpg")
//	// res.Filename == "file.jpg", res.Data holds the bytes
package download
