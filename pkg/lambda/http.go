package lambda

import (
	"io"
	"net/http"
)

// FromHTTP converts a net/http request to a generic request, reading at most
// maxBody bytes of the body. A non-positive maxBody disables the limit.
func FromHTTP(r *http.Request, maxBody int64) (*Request, error) {
	req := &Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Headers:     make(map[string]string, len(r.Header)),
		QueryParams: make(map[string]string),
		RequestID:   r.Header.Get("X-Request-ID"),
	}
	for k := range r.Header {
		req.Headers[k] = r.Header.Get(k)
	}
	query := r.URL.Query()
	for k := range query {
		req.QueryParams[k] = query.Get(k)
	}

	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		req.BodyTooLarge = true
		body = body[:maxBody]
	}
	req.Body = body

	return req, nil
}

// WriteHTTP writes a generic response to a net/http response writer
func WriteHTTP(w http.ResponseWriter, resp *Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
