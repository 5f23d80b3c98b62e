package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDescribeImageSendsDataURI(t *testing.T) {
	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "org-1", r.Header.Get("OpenAI-Organization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"is_clothing\": true}"},"finish_reason":"stop"}]}`))
	}))
	defer ts.Close()

	client, err := NewVisionClient(Options{APIKey: "sk-test", BaseURL: ts.URL + "/", Organization: "org-1", Model: "GPT4o-mini"})
	require.NoError(t, err)

	text, err := client.DescribeImage(context.Background(), domain.Image{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}, "classify")
	require.NoError(t, err)
	assert.Equal(t, `{"is_clothing": true}`, text)

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	require.Len(t, captured.Messages, 1)
	parts := captured.Messages[0].Content
	require.Len(t, parts, 2)
	assert.Equal(t, "classify", parts[0].Text)
	require.NotNil(t, parts[1].ImageURL)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,/9g="))
}

func TestDescribeImageStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer ts.Close()

	client, err := NewVisionClient(Options{APIKey: "sk-test", BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = client.DescribeImage(context.Background(), domain.Image{Data: []byte("x")}, "classify")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDescribeImageTransportFailure(t *testing.T) {
	client, err := NewVisionClient(Options{
		APIKey: "sk-test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	require.NoError(t, err)

	_, err = client.DescribeImage(context.Background(), domain.Image{Data: []byte("x")}, "classify")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestNewVisionClientRequiresKey(t *testing.T) {
	_, err := NewVisionClient(Options{})
	require.Error(t, err)
}
