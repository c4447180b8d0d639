package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
)

const (
	keyUserAddress = "userAddress"
	keyGasPrice    = "currentGasPrice"
	keyTransfers   = "pendingTransactions"

	maxMultipartMemory = 1 << 20
)

var errUnsupportedContentType = errors.New("unsupported content type")

// DecodePayload splits a request body into its raw fields. Form-encoded,
// multipart and JSON bodies are accepted; a JSON body may carry the
// transfer list as an array or as an already encoded string.
func DecodePayload(contentType string, body []byte) (domain.RawInput, error) {
	mediaType := ""
	var params map[string]string
	if contentType != "" {
		var err error
		mediaType, params, err = mime.ParseMediaType(contentType)
		if err != nil {
			return domain.RawInput{}, &domain.MalformedInputError{Err: fmt.Errorf("content type: %w", err)}
		}
	}

	switch mediaType {
	case "application/json":
		return decodeJSON(body)
	case "application/x-www-form-urlencoded":
		return decodeURLEncoded(body)
	case "multipart/form-data":
		return decodeMultipart(body, params["boundary"])
	case "":
		if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '{' {
			return decodeJSON(body)
		}
		return decodeURLEncoded(body)
	default:
		return domain.RawInput{}, &domain.MalformedInputError{Err: fmt.Errorf("%w: %s", errUnsupportedContentType, mediaType)}
	}
}

func decodeURLEncoded(body []byte) (domain.RawInput, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return domain.RawInput{}, &domain.MalformedInputError{Err: fmt.Errorf("form: %w", err)}
	}
	return domain.RawInput{
		UserAddress:         values.Get(keyUserAddress),
		CurrentGasPrice:     values.Get(keyGasPrice),
		PendingTransactions: values.Get(keyTransfers),
	}, nil
}

func decodeMultipart(body []byte, boundary string) (domain.RawInput, error) {
	if boundary == "" {
		return domain.RawInput{}, &domain.MalformedInputError{Err: errors.New("multipart: missing boundary")}
	}
	form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxMultipartMemory)
	if err != nil {
		return domain.RawInput{}, &domain.MalformedInputError{Err: fmt.Errorf("multipart: %w", err)}
	}
	defer form.RemoveAll()

	get := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return domain.RawInput{
		UserAddress:         get(keyUserAddress),
		CurrentGasPrice:     get(keyGasPrice),
		PendingTransactions: get(keyTransfers),
	}, nil
}

func decodeJSON(body []byte) (domain.RawInput, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return domain.RawInput{}, &domain.MalformedInputError{Err: fmt.Errorf("json: %w", err)}
	}
	if obj == nil {
		return domain.RawInput{}, &domain.MalformedInputError{Err: errors.New("json: body is not an object")}
	}
	return domain.RawInput{
		UserAddress:         scalarText(obj[keyUserAddress]),
		CurrentGasPrice:     scalarText(obj[keyGasPrice]),
		PendingTransactions: scalarText(obj[keyTransfers]),
	}, nil
}

// scalarText unquotes JSON strings and keeps any other value verbatim, so
// an array passes through as its encoding and a bad value reaches the
// validator.
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
