package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AzureTranslator calls the Azure Translator REST API to translate a Tongan
// word to English when the local index has no entry.
type AzureTranslator struct {
	endpoint string
	key      string
	region   string
	client   *http.Client
}

const defaultTranslatorEndpoint = "https://api.cognitive.microsofttranslator.com"

func NewAzureTranslator(endpoint, key, region string) *AzureTranslator {
	if endpoint == "" {
		endpoint = defaultTranslatorEndpoint
	}
	return &AzureTranslator{
		endpoint: endpoint,
		key:      key,
		region:   region,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type (
	translateRequest struct {
		Text string `json:"text"`
	}

	translateResponse struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
)

func (t *AzureTranslator) Translate(ctx context.Context, word string) (Entry, error) {
	if t.key == "" {
		return Entry{}, errors.New("translator credentials are not configured")
	}

	body, err := json.Marshal([]translateRequest{{Text: word}})
	if err != nil {
		return Entry{}, fmt.Errorf("marshal request: %w", err)
	}

	url := t.endpoint + "/translate?api-version=3.0&from=to&to=en"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Entry{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("call translator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Entry{}, fmt.Errorf("translator responded with %d: %s", resp.StatusCode, payload)
	}

	var parsed []translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Entry{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0].Translations) == 0 {
		return Entry{}, ErrNotFound
	}

	return Entry{Tongan: word, English: parsed[0].Translations[0].Text}, nil
}
