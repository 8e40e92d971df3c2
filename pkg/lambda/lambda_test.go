package lambda

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Path:       "/gemini-proxy",
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       `{"prompt":"hi"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "req-1",
		},
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway failed: %v", err)
	}
	if req.Method != "POST" || string(req.Body) != `{"prompt":"hi"}` || req.RequestID != "req-1" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Header("Content-Type") != "application/json" {
		t.Errorf("case-insensitive header lookup failed")
	}
}

func TestFromAPIGatewayBase64(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"prompt":"hi"}`)),
		IsBase64Encoded: true,
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway failed: %v", err)
	}
	if string(req.Body) != `{"prompt":"hi"}` {
		t.Errorf("body not decoded: %s", req.Body)
	}

	event.Body = "%%%"
	if _, err := FromAPIGateway(event); err == nil {
		t.Error("expected error for invalid base64 body")
	}
}

func TestToAPIGateway(t *testing.T) {
	resp := &Response{StatusCode: 204}
	resp.SetHeader("Access-Control-Allow-Origin", "*")

	out := ToAPIGateway(resp)
	if out.StatusCode != 204 || out.Body != "" || out.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("unexpected response %+v", out)
	}
}

func TestFromHTTPBodyLimit(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/gemini-proxy?debug=1", strings.NewReader("0123456789"))
	r.Header.Set("X-Request-ID", "abc")

	req, err := FromHTTP(r, 4)
	if err != nil {
		t.Fatalf("FromHTTP failed: %v", err)
	}
	if !req.BodyTooLarge {
		t.Error("expected BodyTooLarge")
	}
	if req.RequestID != "abc" || req.QueryParams["debug"] != "1" {
		t.Errorf("unexpected request %+v", req)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123"))
	req, err = FromHTTP(r, 4)
	if err != nil {
		t.Fatalf("FromHTTP failed: %v", err)
	}
	if req.BodyTooLarge || string(req.Body) != "0123" {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestWriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, &Response{
		StatusCode: 400,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(`{"error":"x"}`),
	})

	if rec.Code != 400 || rec.Body.String() != `{"error":"x"}` || rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected recorder state %d %s", rec.Code, rec.Body.String())
	}
}
