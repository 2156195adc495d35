package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

const maxFormMemory = 1 << 20

// DecodeBody reads a JSON or form-encoded request body into dst.
//
// Form bodies are converted to a JSON object first: a field sent once becomes
// a string, a repeated field becomes an array of strings. dst therefore only
// needs JSON tags (and json.Unmarshaler implementations for polymorphic fields)
// to accept both encodings.
func DecodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form body: %w", err)
		}
		return decodeValues(r.PostForm, dst)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return fmt.Errorf("invalid multipart body: %w", err)
		}
		return decodeValues(url.Values(r.MultipartForm.Value), dst)
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Decode reads the body into dst. Returns false and writes a 400 response if
// parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeBody(r, dst); err != nil {
		BadRequest(w, err.Error())
		return false
	}
	return true
}

func decodeValues(values url.Values, dst any) error {
	obj := make(map[string]any, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			obj[k] = v[0]
		default:
			obj[k] = v
		}
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid form body: %w", err)
	}
	return nil
}
